package RiskZones

import (
	"Oryx/GeoUtils"
	"Oryx/Models"
)

// Violation records a route entering a high-risk area. One violation is
// reported per area per route, at the first route point found inside it.
type Violation struct {
	AreaID uint                `json:"area_id"`
	Name   string              `json:"name"`
	Type   string              `json:"type"`
	Point  GeoUtils.Coordinate `json:"point"`
}

// ring parses and closes an area polygon. Areas with fewer than 3 usable
// points are degenerate and treated as inert.
func ring(area *Models.HighRiskArea) []GeoUtils.Coordinate {
	coords := area.ParsedCoordinates()
	if len(coords) < 3 {
		return nil
	}
	return GeoUtils.CloseRing(coords)
}

// CheckRoute tests every route coordinate against every valid risk polygon.
// Scanning an area stops at its first hit so a route weaving through a zone
// still yields a single violation for it.
func CheckRoute(route []GeoUtils.Coordinate, areas []Models.HighRiskArea) []Violation {
	var violations []Violation
	for i := range areas {
		polygon := ring(&areas[i])
		if polygon == nil {
			continue
		}
		for _, point := range route {
			if GeoUtils.PointInPolygon(point, polygon) {
				violations = append(violations, Violation{
					AreaID: areas[i].ID,
					Name:   areas[i].Name,
					Type:   areas[i].Type,
					Point:  point,
				})
				break
			}
		}
	}
	return violations
}

// Intersects reports whether a short waypoint path touches any risk polygon.
// This is the dispatch-side test, run on a straight vehicle-to-incident line
// before any full route geometry exists.
func Intersects(path []GeoUtils.Coordinate, areas []Models.HighRiskArea) bool {
	for i := range areas {
		polygon := ring(&areas[i])
		if polygon == nil {
			continue
		}
		if GeoUtils.PathIntersectsPolygon(path, polygon) {
			return true
		}
	}
	return false
}
