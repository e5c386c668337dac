package dto

type CreateLocationInput struct {
	Zone           string
	Aisle          string
	Rack           string
	Bin            string
	Capacity       int
	LocationType   string
	RotationMethod string
}

type UpdateLocationInput struct {
	ID             string
	Zone           string
	Aisle          string
	Rack           string
	Bin            string
	Capacity       int
	LocationType   string
	RotationMethod string
	IsActive       bool
}
