package dto

type ProductFilters struct {
	IsArchived  *bool
	SearchQuery string // For name, sku, description search
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
