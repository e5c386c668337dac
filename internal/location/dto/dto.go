package dto

type LocationFilters struct {
	Zone         string
	LocationType string
	IsActive     *bool
	SearchQuery  string
	Page         int
	PageSize     int
}
