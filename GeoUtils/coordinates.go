package GeoUtils

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 point. Lng before Lat to match the dataset convention
// ("lon,lat lon,lat ...") used by the toll and risk-area feeds.
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Earth radius in kilometers
const earthRadius = 6371.0

// Valid reports whether the coordinate is a finite WGS84 position.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lng >= -180 && c.Lng <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// ParseCoordinates converts a "lon,lat lon,lat ..." dataset string into an ordered
// coordinate list. Tokens that don't parse to two finite numbers in WGS84 range are
// dropped without error, so one malformed row degrades a single zone's shape instead
// of aborting the whole pipeline. Extra comma fields after lat are ignored.
func ParseCoordinates(raw string) []Coordinate {
	var coords []Coordinate
	for _, token := range strings.Fields(raw) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			continue
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		c := Coordinate{Lng: lng, Lat: lat}
		if !c.Valid() {
			continue
		}
		coords = append(coords, c)
	}
	return coords
}

// HaversineDistance calculates the great-circle distance between two points in km.
func HaversineDistance(p1, p2 Coordinate) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180

	dlat := lat2 - lat1
	dlng := lng2 - lng1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// PointInPolygon runs a ray cast against a closed ring. The ring must repeat its
// first point at the end; CloseRing takes care of that for open dataset polygons.
func PointInPolygon(p Coordinate, ring []Coordinate) bool {
	if len(ring) < 4 {
		return false
	}
	inside := false
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lng + (p.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lng-a.Lng)
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

// CloseRing appends the first point to the end when the ring is open. Dataset
// polygons arrive open; every polygon test here expects a closed ring.
func CloseRing(ring []Coordinate) []Coordinate {
	if len(ring) == 0 {
		return ring
	}
	if ring[0] == ring[len(ring)-1] {
		return ring
	}
	closed := make([]Coordinate, len(ring)+1)
	copy(closed, ring)
	closed[len(ring)] = ring[0]
	return closed
}

func orientation(a, b, c Coordinate) int {
	v := (b.Lat-a.Lat)*(c.Lng-b.Lng) - (b.Lng-a.Lng)*(c.Lat-b.Lat)
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func onSegment(a, b, p Coordinate) bool {
	return p.Lng >= math.Min(a.Lng, b.Lng) && p.Lng <= math.Max(a.Lng, b.Lng) &&
		p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat)
}

// SegmentsIntersect tests two planar segments. At the scale of a gate buffer or a
// metro risk polygon the lon/lat plane is close enough to flat for this.
func SegmentsIntersect(a1, a2, b1, b2 Coordinate) bool {
	o1 := orientation(a1, a2, b1)
	o2 := orientation(a1, a2, b2)
	o3 := orientation(b1, b2, a1)
	o4 := orientation(b1, b2, a2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if o2 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	if o3 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if o4 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	return false
}

// PathIntersectsPolygon reports whether a path touches a closed ring, either by a
// segment crossing an edge or by a path point sitting inside the polygon.
func PathIntersectsPolygon(path []Coordinate, ring []Coordinate) bool {
	if len(ring) < 4 || len(path) == 0 {
		return false
	}
	for _, p := range path {
		if PointInPolygon(p, ring) {
			return true
		}
	}
	for i := 0; i < len(path)-1; i++ {
		for j := 0; j < len(ring)-1; j++ {
			if SegmentsIntersect(path[i], path[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// DistanceToSegmentKm is the shortest distance from p to the segment [a, b] in km,
// using an equirectangular projection centred on p. Good to well under a percent at
// toll-buffer scale, which is all the buffer test needs.
func DistanceToSegmentKm(p, a, b Coordinate) float64 {
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	kmPerDegLat := math.Pi * earthRadius / 180

	ax := (a.Lng - p.Lng) * cosLat * kmPerDegLat
	ay := (a.Lat - p.Lat) * kmPerDegLat
	bx := (b.Lng - p.Lng) * cosLat * kmPerDegLat
	by := (b.Lat - p.Lat) * kmPerDegLat

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(ax, ay)
	}
	t := -(ax*dx + ay*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(ax+t*dx, ay+t*dy)
}

// PathWithinRadius reports whether any part of the path passes within radiusKm of
// center. Used for circular gate buffers against a route geometry.
func PathWithinRadius(path []Coordinate, center Coordinate, radiusKm float64) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		return HaversineDistance(path[0], center) <= radiusKm
	}
	for i := 0; i < len(path)-1; i++ {
		if DistanceToSegmentKm(center, path[i], path[i+1]) <= radiusKm {
			return true
		}
	}
	return false
}
