package Tolls

import (
	"math"
	"strings"

	"Oryx/Config"
	"Oryx/GeoUtils"
	"Oryx/Models"
)

// VehicleClass is a SANRAL-style toll tier.
type VehicleClass string

const (
	Class1 VehicleClass = "class1" // light vehicles
	Class2 VehicleClass = "class2" // 2-axle heavy
	Class3 VehicleClass = "class3" // 3-4 axle heavy
	Class4 VehicleClass = "class4" // 5+ axle heavy
)

// classLabels maps vehicle-type labels, as they appear in the fleet records,
// to toll classes. Lookup is exact first, then longest contained label wins,
// so "superlink flatbed" resolves through "superlink" and not "flatbed".
var classLabels = map[string]VehicleClass{
	"sedan":       Class1,
	"hatchback":   Class1,
	"bakkie":      Class1,
	"suv":         Class1,
	"panel van":   Class1,
	"light":       Class1,
	"minibus":     Class2,
	"tow truck":   Class2,
	"recovery":    Class2,
	"rigid":       Class2,
	"flatbed":     Class2,
	"2-axle":      Class2,
	"rollback":    Class3,
	"crane":       Class3,
	"3-axle":      Class3,
	"4-axle":      Class3,
	"heavy rigid": Class3,
	"articulated": Class4,
	"interlink":   Class4,
	"superlink":   Class4,
	"abnormal":    Class4,
	"5-axle":      Class4,
}

// ClassifyVehicle maps a free-text vehicle-type label to its toll class.
// Unknown labels default to class2, the typical recovery truck.
func ClassifyVehicle(vehicleType string) VehicleClass {
	label := strings.ToLower(strings.TrimSpace(vehicleType))
	if class, ok := classLabels[label]; ok {
		return class
	}

	var best string
	var bestClass VehicleClass
	for key, class := range classLabels {
		if strings.Contains(label, key) && len(key) > len(best) {
			best = key
			bestClass = class
		}
	}
	if best != "" {
		return bestClass
	}
	return Class2
}

// GateCrossing is one toll gate the route passes through.
type GateCrossing struct {
	Name     string              `json:"name"`
	Rate     float64             `json:"rate"`
	Location GeoUtils.Coordinate `json:"location"`
}

// Result is the advisory toll summary for a route. TotalCost includes VAT and
// is rounded to cents; TotalTimeMinutes is the summed per-gate delay.
type Result struct {
	Gates            []GateCrossing `json:"gates"`
	TotalCost        float64        `json:"total_cost"`
	TotalTimeMinutes float64        `json:"total_time_minutes"`
	Count            int            `json:"count"`
}

// Engine prices toll usage for a route. Toll pricing is advisory: a missing
// dataset or an empty route yields a zero Result, never an error.
type Engine struct {
	Tariff Config.Tariff
}

func NewEngine(cfg Config.AppConfig) *Engine {
	return &Engine{Tariff: cfg.Tariff}
}

// Cost reports the gates whose buffer zone the route passes through and the
// class-specific price of crossing them.
func (e *Engine) Cost(route []GeoUtils.Coordinate, gates []Models.TollGate, vehicleType string) Result {
	class := ClassifyVehicle(vehicleType)
	result := Result{}

	var subtotal float64
	for i := range gates {
		gate := &gates[i]
		coords := gate.ParsedCoordinates()
		if len(coords) == 0 {
			continue
		}
		if !GeoUtils.PathWithinRadius(route, coords[0], gate.RadiusKm) {
			continue
		}

		rate := e.rateFor(gate, class)
		subtotal += rate
		result.TotalTimeMinutes += e.Tariff.GateDelayMinutes
		result.Gates = append(result.Gates, GateCrossing{
			Name:     gate.Name,
			Rate:     rate,
			Location: coords[0],
		})
	}

	result.Count = len(result.Gates)
	result.TotalCost = math.Round(subtotal*(1+e.Tariff.TaxRate)*100) / 100
	return result
}

// rateFor resolves the crossing price: a per-row override beats the tariff
// table, which beats the class defaults.
func (e *Engine) rateFor(gate *Models.TollGate, class VehicleClass) float64 {
	if rates := gate.ClassRates(); rates != nil {
		if rate, ok := rates[string(class)]; ok {
			return rate
		}
	}
	if rates, ok := e.Tariff.GateRates[gate.Name]; ok {
		if rate, ok := rates[string(class)]; ok {
			return rate
		}
	}
	return e.Tariff.DefaultRates[string(class)]
}
