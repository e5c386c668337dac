package dto

type SupplierFilters struct {
	IsActive    *bool
	SearchQuery string
	Page        int
	PageSize    int
}
