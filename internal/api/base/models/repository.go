// Package models holds the shared result types of the base repository layer
package models

// PaginateResult is one page of a query
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`           // current page, 1-based
	Limit     int64 `json:"limit" bson:"limit"`         // items per page
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // items on this page
	Items     []T   `json:"items" bson:"items"`
	Total     int64 `json:"total" bson:"total"`         // matching documents
	TotalPage int64 `json:"totalPage" bson:"totalPage"` // ceil(Total/Limit)
}

// Pagination is the block sent next to a paginated list
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// TotalPages returns ceil(total/limit), 0 when there is nothing to show
func TotalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Pagination returns the response block of the page
func (r *PaginateResult[T]) Pagination() Pagination {
	return Pagination{Page: r.Page, Limit: r.Limit, Total: r.Total, Pages: r.TotalPage}
}
