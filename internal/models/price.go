package models

import (
	"fmt"
	"strings"
	"time"
)

// Price is one row of the fare table: the published fare for an
// origin/destination pair and bus type.
type Price struct {
	ID          string    `json:"id" db:"id"`
	Origin      string    `json:"origin" db:"origin"`
	Destination string    `json:"destination" db:"destination"`
	BusType     BusType   `json:"bus_type" db:"bus_type"`
	Price       float64   `json:"price" db:"price"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePriceRequest adds a fare-table entry.
type CreatePriceRequest struct {
	Origin      string  `json:"origin" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	BusType     string  `json:"bus_type"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// UpdatePriceRequest changes a fare-table entry. Nil fields are untouched.
type UpdatePriceRequest struct {
	Origin      *string  `json:"origin,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	BusType     *string  `json:"bus_type,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// PriceQuery is the paginated fare-table listing request.
type PriceQuery struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`   // column name
	Order  string `json:"order"`  // asc or desc
	Search string `json:"search"` // substring over origin/destination
}

// priceSortColumns are the columns exposed for sorting. Anything else
// falls back to created_at to keep the ORDER BY clause injection-safe.
var priceSortColumns = map[string]bool{
	"origin":      true,
	"destination": true,
	"price":       true,
	"bus_type":    true,
	"created_at":  true,
}

// Normalize clamps pagination bounds and sanitizes the sort column.
func (q *PriceQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	q.Sort = strings.ToLower(strings.TrimSpace(q.Sort))
	if !priceSortColumns[q.Sort] {
		q.Sort = "created_at"
	}
	if strings.ToLower(q.Order) != "asc" {
		q.Order = "desc"
	} else {
		q.Order = "asc"
	}
}

// Offset returns the row offset for the current page.
func (q *PriceQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PricePage is a page of fare-table rows plus paging metadata.
type PricePage struct {
	Items      []Price `json:"items"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// NewPricePage computes the page count from the total row count.
func NewPricePage(items []Price, total, page, limit int) *PricePage {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &PricePage{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// String implements fmt.Stringer for log fields.
func (q *PriceQuery) String() string {
	return fmt.Sprintf("page=%d limit=%d sort=%s %s search=%q", q.Page, q.Limit, q.Sort, q.Order, q.Search)
}
