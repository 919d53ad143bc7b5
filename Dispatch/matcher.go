package Dispatch

import (
	"log"

	"Oryx/Config"
	"Oryx/GeoUtils"
	"Oryx/Models"
	"Oryx/RiskZones"

	"gorm.io/gorm"
)

// VehicleFeed supplies current vehicle positions. Implemented by the tracker
// (live) and by DatabaseFeed (last persisted fix).
type VehicleFeed interface {
	Vehicles() ([]Models.Vehicle, error)
}

// DatabaseFeed reads the most recently persisted vehicle positions.
type DatabaseFeed struct {
	DB *gorm.DB
}

func (f DatabaseFeed) Vehicles() ([]Models.Vehicle, error) {
	var vehicles []Models.Vehicle
	if err := f.DB.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Candidate is the selected vehicle with both its raw distance and the
// risk-adjusted distance used for ranking.
type Candidate struct {
	Vehicle         Models.Vehicle `json:"vehicle"`
	DistanceKm      float64        `json:"distance_km"`
	AdjustedKm      float64        `json:"adjusted_km"`
	CrossesRiskArea bool           `json:"crosses_risk_area"`
}

// Matcher selects the closest available vehicle to an incident. Vehicles
// whose straight line to the target crosses a high-risk area are not
// excluded, only deprioritized by the configured penalty factor.
type Matcher struct {
	Feed        VehicleFeed
	RiskPenalty float64
}

func NewMatcher(cfg Config.AppConfig, feed VehicleFeed) *Matcher {
	return &Matcher{
		Feed:        feed,
		RiskPenalty: cfg.Tariff.RiskPenalty,
	}
}

// FindClosestVehicle returns the candidate with the lowest adjusted distance,
// or nil when the feed is empty, unreachable, or no vehicle has a valid fix.
func (m *Matcher) FindClosestVehicle(target GeoUtils.Coordinate, areas []Models.HighRiskArea) *Candidate {
	vehicles, err := m.Feed.Vehicles()
	if err != nil {
		log.Printf("Vehicle feed unavailable: %v", err)
		return nil
	}

	var best *Candidate
	for i := range vehicles {
		position, ok := vehicles[i].Position()
		if !ok {
			log.Printf("Skipping vehicle %s: no valid position", vehicles[i].PlateNo)
			continue
		}

		distance := GeoUtils.HaversineDistance(position, target)
		directPath := []GeoUtils.Coordinate{position, target}
		crosses := RiskZones.Intersects(directPath, areas)

		adjusted := distance
		if crosses {
			adjusted *= m.RiskPenalty
		}

		if best == nil || adjusted < best.AdjustedKm {
			best = &Candidate{
				Vehicle:         vehicles[i],
				DistanceKm:      distance,
				AdjustedKm:      adjusted,
				CrossesRiskArea: crosses,
			}
		}
	}
	return best
}
