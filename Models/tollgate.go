package Models

import (
	"encoding/json"
	"log"

	"Oryx/GeoUtils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TollGate is a row of the externally supplied toll dataset. Coordinates keeps
// the feed's raw "lon,lat lon,lat" shape; most gates carry a single point plus
// a buffer radius. Rates optionally overrides the tariff table per class.
type TollGate struct {
	gorm.Model
	Name        string         `json:"name" gorm:"unique"`
	Coordinates string         `json:"coordinates"`
	RadiusKm    float64        `json:"radius"`
	Rates       datatypes.JSON `json:"rates,omitempty"`
}

// ParsedCoordinates returns the gate zone as coordinates, dropping malformed
// tokens the way the rest of the reference-data pipeline does.
func (g *TollGate) ParsedCoordinates() []GeoUtils.Coordinate {
	return GeoUtils.ParseCoordinates(g.Coordinates)
}

// ClassRates decodes the per-class rate override column. A missing or broken
// column just means the tariff table applies.
func (g *TollGate) ClassRates() map[string]float64 {
	if len(g.Rates) == 0 {
		return nil
	}
	rates := map[string]float64{}
	if err := json.Unmarshal(g.Rates, &rates); err != nil {
		log.Printf("Invalid rates column on gate %s: %v", g.Name, err)
		return nil
	}
	return rates
}
