package Routing

import (
	"time"

	"Oryx/Bridges"
	"Oryx/GeoUtils"
	"Oryx/Tolls"
)

// RouteRequest is the structure of the incoming optimization request.
// DepartureTime is optional RFC3339; empty means "now".
type RouteRequest struct {
	Origin        string `json:"origin" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	DepartureTime string `json:"departureTime,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
}

// RouteResult is the structure of the API response. Built fresh per request,
// never cached.
type RouteResult struct {
	Origin          string                `json:"origin"`
	Destination     string                `json:"destination"`
	DistanceKm      float64               `json:"distanceKm"`
	DurationMinutes int                   `json:"durationMinutes"`
	Geometry        []GeoUtils.Coordinate `json:"geometry"`
	ETA             time.Time             `json:"eta"`
	Warnings        []string              `json:"warnings"`
	Restrictions    []string              `json:"restrictions"`
	Tolls           Tolls.Result          `json:"tolls"`
	RoadConditions  []string              `json:"roadConditions"`
}

// resolvedRoute is the provider-agnostic shape the directions call reduces to.
type resolvedRoute struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []GeoUtils.Coordinate
	Steps           []Bridges.RouteStep
	TruckProfile    bool
}

// directions wire types, matching the provider's response shape
type directionsResponse struct {
	Code   string            `json:"code"`
	Routes []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Legs []struct {
		Steps []struct {
			Maneuver struct {
				Instruction string    `json:"instruction"`
				Location    []float64 `json:"location"`
			} `json:"maneuver"`
		} `json:"steps"`
	} `json:"legs"`
}
