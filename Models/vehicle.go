package Models

import (
	"strconv"

	"Oryx/GeoUtils"

	"gorm.io/gorm"
)

// Vehicle mirrors the live tracker feed. Latitude/Longitude stay as the feed's
// raw strings; the dispatch matcher parses them and skips vehicles whose
// position does not parse to a valid WGS84 point.
type Vehicle struct {
	gorm.Model
	PlateNo           string `json:"plate_no" gorm:"unique"`
	VehicleType       string `json:"vehicle_type"`
	Latitude          string `json:"lat"`
	Longitude         string `json:"long"`
	Speed             int    `json:"speed"`
	EngineStatus      string `json:"engine_status"`
	LocationTimeStamp string `json:"location_time_stamp"`
}

// Position parses the feed strings into a coordinate. ok is false for
// vehicles without a usable fix.
func (v *Vehicle) Position() (GeoUtils.Coordinate, bool) {
	lng, err := strconv.ParseFloat(v.Longitude, 64)
	if err != nil {
		return GeoUtils.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(v.Latitude, 64)
	if err != nil {
		return GeoUtils.Coordinate{}, false
	}
	c := GeoUtils.Coordinate{Lng: lng, Lat: lat}
	return c, c.Valid()
}
