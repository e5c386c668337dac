package model

import (
	"fmt"
	"strings"
)

const (
	RotationFIFO = "FIFO"
	RotationLIFO = "LIFO"
	RotationFEFO = "FEFO"
)

type Location struct {
	BaseModel
	Zone           string `db:"zone" json:"zone"`
	Aisle          string `db:"aisle" json:"aisle"`
	Rack           string `db:"rack" json:"rack"`
	Bin            string `db:"bin" json:"bin"`
	Capacity       int    `db:"capacity" json:"capacity"`
	LocationType   string `db:"location_type" json:"location_type"`
	RotationMethod string `db:"rotation_method" json:"rotation_method"`
	IsActive       bool   `db:"is_active" json:"is_active"`
}

// Code is the composite ZONE-AISLE-RACK-BIN label printed on the shelf.
func (l Location) Code() string {
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s-%s", l.Zone, l.Aisle, l.Rack, l.Bin))
}

type LocationUtilization struct {
	Location    Location `json:"location"`
	Code        string   `json:"code"`
	Used        int      `json:"used"`
	Utilization float64  `json:"utilization"`
	OverStock   bool     `json:"over_stock"`
}
