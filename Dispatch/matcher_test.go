package Dispatch

import (
	"errors"
	"testing"

	"Oryx/GeoUtils"
	"Oryx/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	vehicles []Models.Vehicle
	err      error
}

func (f fakeFeed) Vehicles() ([]Models.Vehicle, error) {
	return f.vehicles, f.err
}

func newMatcher(feed VehicleFeed) *Matcher {
	return &Matcher{Feed: feed, RiskPenalty: 1.5}
}

// target sits east of a unit-degree risk box; vehicle A has to cross it,
// vehicle B approaches from the clear side
func riskBoxAreas() []Models.HighRiskArea {
	return []Models.HighRiskArea{{
		Name: "Risk Box", Type: "unrest",
		Coordinates: "0.4,-0.5 0.4,0.5 0.6,0.5 0.6,-0.5",
	}}
}

func TestFindClosestVehiclePenalizesRiskCrossing(t *testing.T) {
	target := GeoUtils.Coordinate{Lng: 1.0, Lat: 0.0}
	feed := fakeFeed{vehicles: []Models.Vehicle{
		// ~78 km west of the target, direct path crosses the box
		{PlateNo: "CA 123-456", VehicleType: "tow truck", Longitude: "0.3", Latitude: "0.0"},
		// ~89 km east of the target, clear approach
		{PlateNo: "ND 654-321", VehicleType: "tow truck", Longitude: "1.8", Latitude: "0.0"},
	}}

	best := newMatcher(feed).FindClosestVehicle(target, riskBoxAreas())
	require.NotNil(t, best)
	// the risky vehicle is nearer by raw distance but 78 * 1.5 = 117 adjusted
	// loses to 89 unadjusted, so the clear vehicle wins
	assert.Equal(t, "ND 654-321", best.Vehicle.PlateNo)
	assert.False(t, best.CrossesRiskArea)
	assert.Equal(t, best.DistanceKm, best.AdjustedKm)
}

func TestFindClosestVehicleRawDistanceWithoutRisk(t *testing.T) {
	target := GeoUtils.Coordinate{Lng: 28.0473, Lat: -26.2041}
	feed := fakeFeed{vehicles: []Models.Vehicle{
		{PlateNo: "FAR", Longitude: "28.5", Latitude: "-26.2"},
		{PlateNo: "NEAR", Longitude: "28.06", Latitude: "-26.21"},
	}}

	best := newMatcher(feed).FindClosestVehicle(target, nil)
	require.NotNil(t, best)
	assert.Equal(t, "NEAR", best.Vehicle.PlateNo)
	assert.False(t, best.CrossesRiskArea)
}

func TestFindClosestVehicleRiskyCandidateStillSelectable(t *testing.T) {
	// only one vehicle, and its path crosses the box: deprioritized, not excluded
	target := GeoUtils.Coordinate{Lng: 1.0, Lat: 0.0}
	feed := fakeFeed{vehicles: []Models.Vehicle{
		{PlateNo: "ONLY ONE", Longitude: "0.0", Latitude: "0.0"},
	}}

	best := newMatcher(feed).FindClosestVehicle(target, riskBoxAreas())
	require.NotNil(t, best)
	assert.True(t, best.CrossesRiskArea)
	assert.InDelta(t, best.DistanceKm*1.5, best.AdjustedKm, 1e-9)
}

func TestFindClosestVehicleSkipsInvalidPositions(t *testing.T) {
	target := GeoUtils.Coordinate{Lng: 28.0, Lat: -26.0}
	feed := fakeFeed{vehicles: []Models.Vehicle{
		{PlateNo: "NO FIX", Longitude: "", Latitude: ""},
		{PlateNo: "BAD FIX", Longitude: "281.0", Latitude: "-26.0"},
		{PlateNo: "GOOD", Longitude: "28.1", Latitude: "-26.1"},
	}}

	best := newMatcher(feed).FindClosestVehicle(target, nil)
	require.NotNil(t, best)
	assert.Equal(t, "GOOD", best.Vehicle.PlateNo)
}

func TestFindClosestVehicleNoCandidates(t *testing.T) {
	target := GeoUtils.Coordinate{Lng: 28.0, Lat: -26.0}

	assert.Nil(t, newMatcher(fakeFeed{}).FindClosestVehicle(target, nil))
	assert.Nil(t, newMatcher(fakeFeed{err: errors.New("feed down")}).FindClosestVehicle(target, nil))
	assert.Nil(t, newMatcher(fakeFeed{vehicles: []Models.Vehicle{
		{PlateNo: "NO FIX", Longitude: "x", Latitude: "y"},
	}}).FindClosestVehicle(target, nil))
}
