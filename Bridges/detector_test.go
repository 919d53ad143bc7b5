package Bridges

import (
	"testing"

	"Oryx/Config"
	"Oryx/GeoUtils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElevation serves canned elevations keyed by longitude, with a default
// for the road-surface sample points.
type fakeElevation struct {
	byLng       map[float64]float64
	defaultElev float64
	unavailable bool
}

func (f *fakeElevation) Elevation(lng, lat float64) (float64, bool) {
	if f.unavailable {
		return 0, false
	}
	if v, ok := f.byLng[lng]; ok {
		return v, true
	}
	return f.defaultElev, true
}

func newDetector(source ElevationSource) *Detector {
	return &Detector{Elevation: source, Policy: Config.DefaultTariff().Bridge}
}

func TestDetectRestrictionsBlockingBridge(t *testing.T) {
	// deck 2 m above the surrounding road: 2 + 1.5 structure = 3.5 < 4.2
	source := &fakeElevation{
		byLng:       map[float64]float64{28.05: 1702},
		defaultElev: 1700,
	}
	detector := newDetector(source)

	steps := []RouteStep{
		{Instruction: "Continue over the bridge", Location: GeoUtils.Coordinate{Lng: 28.05, Lat: -26.2}},
	}
	restrictions := detector.DetectRestrictions(steps)
	require.Len(t, restrictions, 1)
	assert.Contains(t, restrictions[0], "3.5 m")
	assert.Contains(t, restrictions[0], "below the 4.2 m truck height")
}

func TestDetectRestrictionsSafeBridge(t *testing.T) {
	// deck 5 m above the road: 5 + 1.5 = 6.5 ≥ 4.2, no restriction
	source := &fakeElevation{
		byLng:       map[float64]float64{28.05: 1705},
		defaultElev: 1700,
	}
	detector := newDetector(source)

	steps := []RouteStep{
		{Instruction: "Cross the bridge", Location: GeoUtils.Coordinate{Lng: 28.05, Lat: -26.2}},
	}
	assert.Empty(t, detector.DetectRestrictions(steps))
}

func TestDetectRestrictionsClearanceFloor(t *testing.T) {
	// flat terrain would give 0 + 1.5 = 1.5; the 3.5 m floor applies
	source := &fakeElevation{defaultElev: 1700}
	detector := newDetector(source)

	steps := []RouteStep{
		{Instruction: "Take the bridge across the M1", Location: GeoUtils.Coordinate{Lng: 28.0, Lat: -26.2}},
	}
	restrictions := detector.DetectRestrictions(steps)
	require.Len(t, restrictions, 1)
	// 3.5 floor is still under the 4.2 threshold, so it is reported, but
	// never as anything lower than the floor
	assert.Contains(t, restrictions[0], "3.5 m")
	assert.NotContains(t, restrictions[0], "1.5 m (")
}

func TestDetectRestrictionsUnknownClearance(t *testing.T) {
	detector := newDetector(&fakeElevation{unavailable: true})

	steps := []RouteStep{
		{Instruction: "Cross the old bridge", Location: GeoUtils.Coordinate{Lng: 30.0, Lat: -29.8}},
	}
	restrictions := detector.DetectRestrictions(steps)
	require.Len(t, restrictions, 1)
	assert.Contains(t, restrictions[0], "clearance unknown")
}

func TestDetectRestrictionsIgnoresOtherSteps(t *testing.T) {
	detector := newDetector(&fakeElevation{defaultElev: 1700})

	steps := []RouteStep{
		{Instruction: "Turn left onto Jan Smuts Avenue", Location: GeoUtils.Coordinate{Lng: 28.03, Lat: -26.15}},
		{Instruction: "Merge onto the N1", Location: GeoUtils.Coordinate{Lng: 28.0, Lat: -26.1}},
	}
	assert.Empty(t, detector.DetectRestrictions(steps))
}

func TestDetectRestrictionsDeduplicates(t *testing.T) {
	source := &fakeElevation{defaultElev: 1700}
	detector := newDetector(source)

	step := RouteStep{Instruction: "Cross the bridge", Location: GeoUtils.Coordinate{Lng: 28.0, Lat: -26.2}}
	restrictions := detector.DetectRestrictions([]RouteStep{step, step, step})
	assert.Len(t, restrictions, 1)
}

func TestDetectRestrictionsCaseInsensitive(t *testing.T) {
	detector := newDetector(&fakeElevation{defaultElev: 1700})

	steps := []RouteStep{
		{Instruction: "Continue onto Mandela BRIDGE", Location: GeoUtils.Coordinate{Lng: 28.03, Lat: -26.19}},
	}
	assert.Len(t, detector.DetectRestrictions(steps), 1)
}
