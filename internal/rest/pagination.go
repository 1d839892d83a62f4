package rest

import "fmt"

// PageSize is the largest window the Postmark list endpoints return per call.
const PageSize = 500

// Page is one offset/count window of a paginated fetch.
type Page struct {
	Offset int
	Count  int
}

// PlanPages computes the ordered page sequence covering [0, total). Offsets
// step by PageSize and the last page's count is clipped to the remainder, so
// the union of the windows is exactly [0, total) with no gaps or overlap.
func PlanPages(total int) ([]Page, error) {
	if total < 0 {
		return nil, fmt.Errorf("total must be non-negative, got %d", total)
	}

	var pages []Page
	for offset := 0; offset < total; offset += PageSize {
		count := PageSize
		if rem := total - offset; rem < count {
			count = rem
		}
		pages = append(pages, Page{Offset: offset, Count: count})
	}
	return pages, nil
}
