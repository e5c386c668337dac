package dto

type CustomerFilters struct {
	IsActive    *bool
	SearchQuery string
	Page        int
	PageSize    int
}
