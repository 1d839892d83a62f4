package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  []Page
	}{
		{
			name:  "zero",
			total: 0,
			want:  nil,
		},
		{
			name:  "below one page",
			total: 10,
			want:  []Page{{Offset: 0, Count: 10}},
		},
		{
			name:  "exactly one page",
			total: 500,
			want:  []Page{{Offset: 0, Count: 500}},
		},
		{
			name:  "one page plus remainder",
			total: 501,
			want:  []Page{{Offset: 0, Count: 500}, {Offset: 500, Count: 1}},
		},
		{
			name:  "three pages with clipped tail",
			total: 1200,
			want: []Page{
				{Offset: 0, Count: 500},
				{Offset: 500, Count: 500},
				{Offset: 1000, Count: 200},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanPages(tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanPages_NegativeTotal(t *testing.T) {
	_, err := PlanPages(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

// Pages must tile [0, total) exactly: ascending offsets stepping by the page
// size, no gaps, no overlap, counts summing to the total.
func TestPlanPages_Coverage(t *testing.T) {
	for _, total := range []int{1, 42, 499, 500, 501, 999, 1000, 1001, 1200, 4999, 5000} {
		pages, err := PlanPages(total)
		require.NoError(t, err)

		next := 0
		sum := 0
		for i, page := range pages {
			assert.Equal(t, i*PageSize, page.Offset)
			assert.Equal(t, next, page.Offset, "total=%d page=%d", total, i)
			assert.Greater(t, page.Count, 0)
			assert.LessOrEqual(t, page.Count, PageSize)
			next = page.Offset + page.Count
			sum += page.Count
		}
		assert.Equal(t, total, next, "pages must end exactly at total=%d", total)
		assert.Equal(t, total, sum)
	}
}
