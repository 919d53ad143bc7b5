package Bridges

import (
	"fmt"
	"strings"

	"Oryx/Config"
	"Oryx/Elevation"
	"Oryx/GeoUtils"
)

// longitude offset of roughly 100 m used to sample the road surface on
// either side of a detected bridge
const roadSampleOffset = 0.001

// RouteStep is one turn-by-turn step of a resolved route.
type RouteStep struct {
	Instruction string              `json:"instruction"`
	Location    GeoUtils.Coordinate `json:"location"`
}

// ElevationSource is what the detector needs from the elevation sampler.
type ElevationSource interface {
	Elevation(lng, lat float64) (float64, bool)
}

// Detector scans route steps for bridge crossings and estimates vertical
// clearance from the elevation difference between the bridge deck and the
// surrounding road surface. The result is a heuristic; every message it
// produces says so.
type Detector struct {
	Elevation ElevationSource
	Policy    Config.BridgePolicy
}

func NewDetector(sampler *Elevation.Sampler, cfg Config.AppConfig) *Detector {
	return &Detector{
		Elevation: sampler,
		Policy:    cfg.Tariff.Bridge,
	}
}

// DetectRestrictions returns one message per problematic bridge on the route:
// either an estimated clearance below the truck-height threshold, or a bridge
// whose clearance could not be estimated at all. Safe bridges contribute
// nothing. Messages are deduplicated by text.
func (d *Detector) DetectRestrictions(steps []RouteStep) []string {
	var restrictions []string
	seen := map[string]bool{}

	for _, step := range steps {
		if !strings.Contains(strings.ToLower(step.Instruction), "bridge") {
			continue
		}

		clearance, ok := d.estimateClearance(step.Location)
		var msg string
		if !ok {
			msg = fmt.Sprintf("Bridge detected (%s): clearance unknown, verify before dispatching a high vehicle", step.Instruction)
		} else if clearance < d.Policy.BlockingThreshold {
			msg = fmt.Sprintf("Estimated bridge clearance %.1f m (%s): below the %.1f m truck height, route may be impassable",
				clearance, step.Instruction, d.Policy.BlockingThreshold)
		} else {
			continue
		}

		if !seen[msg] {
			seen[msg] = true
			restrictions = append(restrictions, msg)
		}
	}

	return restrictions
}

// estimateClearance samples the bridge point and two points ~100 m either
// side along the longitude to approximate the road surface, then adds the
// structure-height allowance. The configured floor keeps an implausibly low
// difference from being reported as fact.
func (d *Detector) estimateClearance(at GeoUtils.Coordinate) (float64, bool) {
	deck, ok := d.Elevation.Elevation(at.Lng, at.Lat)
	if !ok {
		return 0, false
	}
	before, ok := d.Elevation.Elevation(at.Lng-roadSampleOffset, at.Lat)
	if !ok {
		return 0, false
	}
	after, ok := d.Elevation.Elevation(at.Lng+roadSampleOffset, at.Lat)
	if !ok {
		return 0, false
	}

	road := (before + after) / 2
	clearance := abs(deck-road) + d.Policy.StructureHeight
	if clearance < d.Policy.MinClearance {
		clearance = d.Policy.MinClearance
	}
	return clearance, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
