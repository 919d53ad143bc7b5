package Models

import "gorm.io/gorm"

// DispatchLog records one nearest-vehicle decision for the ops report. The
// candidates themselves are transient; only the winner is kept.
type DispatchLog struct {
	gorm.Model
	TargetLng       float64 `json:"target_lng"`
	TargetLat       float64 `json:"target_lat"`
	PlateNo         string  `json:"plate_no"`
	VehicleType     string  `json:"vehicle_type"`
	DistanceKm      float64 `json:"distance_km"`
	AdjustedKm      float64 `json:"adjusted_km"`
	CrossesRiskArea bool    `json:"crosses_risk_area"`
}
