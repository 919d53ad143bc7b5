package Routing

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"Oryx/Bridges"
	"Oryx/Config"
	"Oryx/Geocoding"
	"Oryx/GeoUtils"
	"Oryx/Models"
	"Oryx/RiskZones"
	"Oryx/Tolls"
)

// Geocoder is what the provider needs from the geocoding client.
type Geocoder interface {
	Geocode(address string) *Geocoding.Place
}

// RestrictionDetector is what the provider needs from the bridge detector.
type RestrictionDetector interface {
	DetectRestrictions(steps []Bridges.RouteStep) []string
}

// Provider orchestrates a point-to-point routing request: geocoding, the
// directions call with its truck-to-standard fallback, and the advisory
// passes (bridges, tolls, risk zones, road conditions). Each call is
// self-contained; no state is shared between requests.
type Provider struct {
	DirectionsBaseURL string
	Token             string
	TruckProfile      string
	FallbackProfile   string
	HTTP              *http.Client

	Geocoder Geocoder
	Bridges  RestrictionDetector
	Tolls    *Tolls.Engine
}

func NewProvider(cfg Config.AppConfig, geocoder Geocoder, detector RestrictionDetector, tolls *Tolls.Engine) *Provider {
	return &Provider{
		DirectionsBaseURL: cfg.DirectionsBaseURL,
		Token:             cfg.MapboxToken,
		TruckProfile:      cfg.TruckProfile,
		FallbackProfile:   cfg.FallbackProfile,
		HTTP:              &http.Client{Timeout: 15 * time.Second},
		Geocoder:          geocoder,
		Bridges:           detector,
		Tolls:             tolls,
	}
}

// OptimizeRoute resolves both endpoints, fetches a truck-aware route (falling
// back to standard driving), and annotates it with restrictions, tolls and
// risk-zone warnings. It errors only when an endpoint cannot be geocoded or
// neither profile yields a route.
func (p *Provider) OptimizeRoute(req RouteRequest, gates []Models.TollGate, areas []Models.HighRiskArea) (*RouteResult, error) {
	departure := time.Now()
	if req.DepartureTime != "" {
		if parsed, err := time.Parse(time.RFC3339, req.DepartureTime); err == nil {
			departure = parsed
		} else {
			log.Printf("Ignoring unparsable departure time %q: %v", req.DepartureTime, err)
		}
	}

	// Origin and destination resolve independently, so run them together.
	var origin, destination *Geocoding.Place
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		origin = p.Geocoder.Geocode(req.Origin)
	}()
	go func() {
		defer wg.Done()
		destination = p.Geocoder.Geocode(req.Destination)
	}()
	wg.Wait()

	if origin == nil && destination == nil {
		return nil, fmt.Errorf("could not resolve origin %q or destination %q", req.Origin, req.Destination)
	}
	if origin == nil {
		return nil, fmt.Errorf("could not resolve origin %q", req.Origin)
	}
	if destination == nil {
		return nil, fmt.Errorf("could not resolve destination %q", req.Destination)
	}

	route, err := p.fetchRoute(p.TruckProfile, origin.Coordinate, destination.Coordinate, departure, true)
	if err != nil {
		log.Printf("Truck profile routing failed (%v), falling back to %s", err, p.FallbackProfile)
		route, err = p.fetchRoute(p.FallbackProfile, origin.Coordinate, destination.Coordinate, departure, false)
		if err != nil {
			return nil, fmt.Errorf("no route found between %q and %q: %w", req.Origin, req.Destination, err)
		}
	} else {
		route.TruckProfile = true
	}

	durationMinutes := int(math.Round(route.DurationSeconds / 60))
	result := &RouteResult{
		Origin:          origin.Formatted,
		Destination:     destination.Formatted,
		DistanceKm:      math.Round(route.DistanceMeters/1000*10) / 10,
		DurationMinutes: durationMinutes,
		Geometry:        route.Geometry,
		ETA:             departure.Add(time.Duration(durationMinutes) * time.Minute),
		Warnings:        []string{},
		RoadConditions:  p.assessRoadConditions(route.Geometry),
	}

	if route.TruckProfile {
		result.Warnings = append(result.Warnings, "Route avoids ferry crossings")
	} else {
		result.Warnings = append(result.Warnings,
			"Truck routing unavailable: standard driving route returned, manually verify bridge and ferry restrictions")
	}

	result.Restrictions = p.Bridges.DetectRestrictions(route.Steps)
	result.Tolls = p.Tolls.Cost(route.Geometry, gates, req.VehicleType)

	for _, violation := range RiskZones.CheckRoute(route.Geometry, areas) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Route passes through high-risk area %s (%s)", violation.Name, violation.Type))
	}

	return result, nil
}

// fetchRoute calls the directions provider with one profile and reduces the
// top-ranked route. Ferry exclusion only applies on the truck attempt; the
// fallback takes the route it can get.
func (p *Provider) fetchRoute(profile string, origin, destination GeoUtils.Coordinate, departure time.Time, excludeFerries bool) (*resolvedRoute, error) {
	params := url.Values{}
	params.Set("access_token", p.Token)
	params.Set("geometries", "geojson")
	params.Set("steps", "true")
	params.Set("overview", "full")
	params.Set("depart_at", departure.Format("2006-01-02T15:04"))
	if excludeFerries {
		params.Set("exclude", "ferry")
	}

	endpoint := fmt.Sprintf("%s/%s/%f,%f;%f,%f?%s",
		p.DirectionsBaseURL, profile,
		origin.Lng, origin.Lat, destination.Lng, destination.Lat,
		params.Encode())

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Oryx/1.0")

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions provider returned status %d", resp.StatusCode)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("directions provider returned zero routes (code %q)", decoded.Code)
	}

	top := decoded.Routes[0]
	route := &resolvedRoute{
		DistanceMeters:  top.Distance,
		DurationSeconds: top.Duration,
	}
	for _, pair := range top.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		route.Geometry = append(route.Geometry, GeoUtils.Coordinate{Lng: pair[0], Lat: pair[1]})
	}
	if len(route.Geometry) == 0 {
		return nil, fmt.Errorf("directions provider returned a route without geometry")
	}
	for _, leg := range top.Legs {
		for _, step := range leg.Steps {
			routeStep := Bridges.RouteStep{Instruction: step.Maneuver.Instruction}
			if len(step.Maneuver.Location) >= 2 {
				routeStep.Location = GeoUtils.Coordinate{
					Lng: step.Maneuver.Location[0],
					Lat: step.Maneuver.Location[1],
				}
			}
			route.Steps = append(route.Steps, routeStep)
		}
	}
	return route, nil
}

// assessRoadConditions is a placeholder until a traffic-incident feed is
// wired in; today's dataset carries no live incidents.
func (p *Provider) assessRoadConditions(route []GeoUtils.Coordinate) []string {
	if len(route) == 0 {
		return nil
	}
	return []string{"No live road incident reports for this corridor"}
}
