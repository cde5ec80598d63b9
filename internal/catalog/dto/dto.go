package dto

type ProductFilters struct {
	CategoryID  *int64
	IsActive    *bool
	SearchQuery string // name or sku
	Page        int
	PageSize    int
}
