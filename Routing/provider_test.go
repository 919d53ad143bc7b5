package Routing

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Oryx/Bridges"
	"Oryx/Config"
	"Oryx/Geocoding"
	"Oryx/GeoUtils"
	"Oryx/Models"
	"Oryx/Tolls"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	places map[string]*Geocoding.Place
}

func (f fakeGeocoder) Geocode(address string) *Geocoding.Place {
	return f.places[address]
}

type fakeDetector struct {
	restrictions []string
}

func (f fakeDetector) DetectRestrictions(steps []Bridges.RouteStep) []string {
	return f.restrictions
}

const directionsBody = `{
	"code": "Ok",
	"routes": [{
		"distance": 61234,
		"duration": 2700,
		"geometry": {"coordinates": [[28.0473,-26.2041],[28.1000,-26.0000],[28.1881,-25.7461]]},
		"legs": [{"steps": [
			{"maneuver": {"instruction": "Head north on the M1", "location": [28.0473,-26.2041]}},
			{"maneuver": {"instruction": "Cross the bridge", "location": [28.1000,-26.0000]}}
		]}]
	}]
}`

func testGeocoder() fakeGeocoder {
	return fakeGeocoder{places: map[string]*Geocoding.Place{
		"Johannesburg": {Coordinate: GeoUtils.Coordinate{Lng: 28.0473, Lat: -26.2041}, Formatted: "Johannesburg, Gauteng"},
		"Pretoria":     {Coordinate: GeoUtils.Coordinate{Lng: 28.1881, Lat: -25.7461}, Formatted: "Pretoria, Gauteng"},
	}}
}

func newTestProvider(server *httptest.Server, detector RestrictionDetector) *Provider {
	return &Provider{
		DirectionsBaseURL: server.URL,
		Token:             "test-token",
		TruckProfile:      "mapbox/driving-traffic",
		FallbackProfile:   "mapbox/driving",
		HTTP:              &http.Client{Timeout: 2 * time.Second},
		Geocoder:          testGeocoder(),
		Bridges:           detector,
		Tolls:             &Tolls.Engine{Tariff: Config.DefaultTariff()},
	}
}

func TestOptimizeRouteTruckProfile(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		assert.Equal(t, "ferry", r.URL.Query().Get("exclude"))
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})
	departure := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)

	result, err := provider.OptimizeRoute(RouteRequest{
		Origin:        "Johannesburg",
		Destination:   "Pretoria",
		DepartureTime: departure.Format(time.RFC3339),
		VehicleType:   "tow truck",
	}, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, requestedPath, "driving-traffic")
	assert.Equal(t, 61.2, result.DistanceKm)
	assert.Equal(t, 45, result.DurationMinutes)
	assert.Equal(t, departure.Add(45*time.Minute), result.ETA)
	assert.Len(t, result.Geometry, 3)
	assert.Equal(t, "Johannesburg, Gauteng", result.Origin)
	assert.Contains(t, result.Warnings, "Route avoids ferry crossings")
	assert.Len(t, result.RoadConditions, 1)
	assert.Zero(t, result.Tolls.Count)
}

func TestOptimizeRouteFallsBackToDriving(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "driving-traffic") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// the fallback attempt must not carry the ferry exclusion
		assert.Empty(t, r.URL.Query().Get("exclude"))
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})
	result, err := provider.OptimizeRoute(RouteRequest{Origin: "Johannesburg", Destination: "Pretoria"}, nil, nil)
	require.NoError(t, err)

	var cautioned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "manually verify bridge and ferry restrictions") {
			cautioned = true
		}
	}
	assert.True(t, cautioned, "fallback route should carry the manual-verification caution")
	assert.NotContains(t, result.Warnings, "Route avoids ferry crossings")
}

func TestOptimizeRouteBothProfilesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})
	_, err := provider.OptimizeRoute(RouteRequest{Origin: "Johannesburg", Destination: "Pretoria"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route found")
}

func TestOptimizeRouteUnresolvedEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})

	_, err := provider.OptimizeRoute(RouteRequest{Origin: "Nowhere", Destination: "Pretoria"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `origin "Nowhere"`)

	_, err = provider.OptimizeRoute(RouteRequest{Origin: "Johannesburg", Destination: "Atlantis Prime"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `destination "Atlantis Prime"`)
}

func TestOptimizeRouteDepartAtMinutePrecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-03-09T08:30", r.URL.Query().Get("depart_at"))
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})
	_, err := provider.OptimizeRoute(RouteRequest{
		Origin:        "Johannesburg",
		Destination:   "Pretoria",
		DepartureTime: "2026-03-09T08:30:00Z",
	}, nil, nil)
	require.NoError(t, err)
}

func TestOptimizeRouteCarriesRestrictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	detector := fakeDetector{restrictions: []string{"Estimated bridge clearance 3.5 m"}}
	provider := newTestProvider(server, detector)

	result, err := provider.OptimizeRoute(RouteRequest{Origin: "Johannesburg", Destination: "Pretoria"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Estimated bridge clearance 3.5 m"}, result.Restrictions)
}

func TestOptimizeRouteRiskZoneWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directionsBody)
	}))
	defer server.Close()

	areas := []Models.HighRiskArea{{
		Name: "Midrand Corridor", Type: "unrest",
		// box around the middle geometry point
		Coordinates: "28.05,-26.05 28.05,-25.95 28.15,-25.95 28.15,-26.05",
	}}

	provider := newTestProvider(server, fakeDetector{})
	result, err := provider.OptimizeRoute(RouteRequest{Origin: "Johannesburg", Destination: "Pretoria"}, nil, areas)
	require.NoError(t, err)

	var warned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "Midrand Corridor") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestOptimizeRouteTollAgainstSeededGate(t *testing.T) {
	body := `{
		"code": "Ok",
		"routes": [{
			"distance": 102000,
			"duration": 4100,
			"geometry": {"coordinates": [[18.9700,-33.7300],[19.0830,-33.7150],[19.2000,-33.6900]]},
			"legs": [{"steps": []}]
		}]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	provider := newTestProvider(server, fakeDetector{})
	provider.Geocoder = fakeGeocoder{places: map[string]*Geocoding.Place{
		"Paarl":     {Coordinate: GeoUtils.Coordinate{Lng: 18.97, Lat: -33.73}, Formatted: "Paarl"},
		"Worcester": {Coordinate: GeoUtils.Coordinate{Lng: 19.44, Lat: -33.65}, Formatted: "Worcester"},
	}}

	gates := []Models.TollGate{{Name: "N1 Huguenot", Coordinates: "19.0836,-33.7147", RadiusKm: 1.2}}
	result, err := provider.OptimizeRoute(RouteRequest{
		Origin: "Paarl", Destination: "Worcester", VehicleType: "tow truck",
	}, gates, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Tolls.Count)
	assert.Equal(t, 146.00, result.Tolls.TotalCost)
}
