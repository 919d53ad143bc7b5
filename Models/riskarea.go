package Models

import (
	"Oryx/GeoUtils"

	"gorm.io/gorm"
)

// HighRiskArea is an externally supplied geofence polygon flagged for safety
// or security reasons. Coordinates is an open ring in the dataset's
// "lon,lat lon,lat" shape; the engines close it before testing.
type HighRiskArea struct {
	gorm.Model
	Name        string `json:"name"`
	Type        string `json:"type"`
	Coordinates string `json:"coordinates"`
}

// ParsedCoordinates returns the raw open ring, malformed tokens dropped.
func (a *HighRiskArea) ParsedCoordinates() []GeoUtils.Coordinate {
	return GeoUtils.ParseCoordinates(a.Coordinates)
}
