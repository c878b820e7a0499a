package services

import "fmt"

// Pagination describes one page of the schedule table
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Offset is the index of the first row of the page
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(Total / Limit)
func (p Pagination) TotalPages() int {
	if p.Limit < 1 || p.Total < 1 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasPrevious enables the previous-page control
func (p Pagination) HasPrevious() bool {
	return p.Page > 1
}

// HasNext enables the next-page control
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages()
}

// RangeStart is the 1-based number of the first row shown, 0 for an empty table.
// Pages past the end clamp to Total so the range never runs backwards.
func (p Pagination) RangeStart() int {
	if p.Total == 0 {
		return 0
	}
	return min(p.Offset()+1, p.Total)
}

// RangeEnd is the 1-based number of the last row shown
func (p Pagination) RangeEnd() int {
	return min(p.Offset()+p.Limit, p.Total)
}

// Summary renders "<start> to <end> of <total>"
func (p Pagination) Summary() string {
	return fmt.Sprintf("%d to %d of %d", p.RangeStart(), p.RangeEnd(), p.Total)
}
