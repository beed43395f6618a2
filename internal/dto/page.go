package dto

// Page is a slice of results plus paging metadata
type Page[T any] struct {
	Content       []T   `json:"content"`       // Items of this page
	TotalElements int64 `json:"totalElements"` // Items across all pages
	TotalPages    int   `json:"totalPages"`    // Number of pages
	Size          int   `json:"size"`          // Requested page size
	Number        int   `json:"number"`        // Zero-based page index
}

// NewPage assembles a page, computing the number of pages
func NewPage[T any](content []T, total int64, number, size int) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{Content: content, TotalElements: total, TotalPages: totalPages, Size: size, Number: number}
}
