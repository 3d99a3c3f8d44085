// Package paginate slices filtered sequences into fixed-size pages.
package paginate

// Page returns the half-open slice [(pageNumber-1)*pageSize, pageNumber*pageSize)
// of items. Pages are 1-based. Out-of-range pages and non-positive sizes
// return an empty slice rather than erroring: a stale page number must never
// crash a view, only render empty. The result shares the input's backing
// array.
func Page[T any](items []T, pageSize, pageNumber int) []T {
	if pageSize <= 0 || pageNumber < 1 {
		return nil
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages returns ceil(count/pageSize), and 0 for an empty collection so
// callers know not to render pagination at all. A caller that changes its
// filter set must reset its page number to 1; this package only guarantees
// that a stale page past the end comes back empty.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
