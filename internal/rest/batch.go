package rest

import "github.com/lattiq/postmark/internal/core"

// GroupSize is the most messages the batch send endpoint accepts per request.
const GroupSize = 500

// ChunkMessages partitions messages into contiguous groups of at most size,
// preserving input order. A size of zero or less falls back to GroupSize.
func ChunkMessages(msgs []core.TemplatedEmail, size int) [][]core.TemplatedEmail {
	if size <= 0 {
		size = GroupSize
	}

	var groups [][]core.TemplatedEmail
	for start := 0; start < len(msgs); start += size {
		end := start + size
		if end > len(msgs) {
			end = len(msgs)
		}
		groups = append(groups, msgs[start:end])
	}
	return groups
}
