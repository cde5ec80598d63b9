package dto

import "time"

type SaleFilters struct {
	CustomerID *int64
	UserID     *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}
