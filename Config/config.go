package Config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// AppConfig carries everything the engine packages need at construction time.
// Nothing in the engine reads module-level globals; handlers build their
// components from one of these so tests can inject fake tokens and rate tables.
type AppConfig struct {
	MapboxToken       string
	GeocodingBaseURL  string
	DirectionsBaseURL string
	TerrainBaseURL    string
	TruckProfile      string
	FallbackProfile   string

	DatabasePath string
	JWTSecret    string

	TrackerBaseURL  string
	TrackerUsername string
	TrackerPassword string

	SlackBotToken string
	SlackChannel  string

	Tariff Tariff
}

// Tariff is the operator-editable part of the configuration: toll rates, the
// dispatch risk penalty, bridge policy constants and regional elevation
// estimates. It loads from a JSON5 file so ops can annotate the rate rows.
type Tariff struct {
	TaxRate          float64                       `json:"taxRate"`
	GateDelayMinutes float64                       `json:"gateDelayMinutes"`
	DefaultRates     map[string]float64            `json:"defaultRates"`
	GateRates        map[string]map[string]float64 `json:"gateRates"`
	RiskPenalty      float64                       `json:"riskPenalty"`
	Bridge           BridgePolicy                  `json:"bridge"`
	Regions          []RegionElevation             `json:"regions"`
	DefaultElevation float64                       `json:"defaultElevation"`
}

// BridgePolicy holds the clearance heuristic constants. These are policy
// values, not measured facts; change them only with domain sign-off.
type BridgePolicy struct {
	StructureHeight   float64 `json:"structureHeight"`
	BlockingThreshold float64 `json:"blockingThreshold"`
	MinClearance      float64 `json:"minClearance"`
}

// RegionElevation is a coarse bounding-box elevation estimate used when
// terrain tiles cannot be fetched or decoded.
type RegionElevation struct {
	Name      string  `json:"name"`
	MinLng    float64 `json:"minLng"`
	MaxLng    float64 `json:"maxLng"`
	MinLat    float64 `json:"minLat"`
	MaxLat    float64 `json:"maxLat"`
	Elevation float64 `json:"elevation"`
}

// DefaultTariff is the built-in SANRAL-style tariff used when no tariff file
// is present. Rates are reference data supplied to us, not authoritative.
func DefaultTariff() Tariff {
	return Tariff{
		TaxRate:          0.15,
		GateDelayMinutes: 5,
		DefaultRates: map[string]float64{
			"class1": 15,
			"class2": 50,
			"class3": 80,
			"class4": 120,
		},
		GateRates: map[string]map[string]float64{
			"N1 Huguenot": {
				"class1": 42.00, "class2": 126.96, "class3": 284.00, "class4": 420.00,
			},
			"N3 Mariannhill": {
				"class1": 14.50, "class2": 25.00, "class3": 56.00, "class4": 79.00,
			},
			"N3 Mooi River": {
				"class1": 57.00, "class2": 102.00, "class3": 228.00, "class4": 334.00,
			},
			"N1 Grasmere": {
				"class1": 15.50, "class2": 26.00, "class3": 47.00, "class4": 62.00,
			},
			"N2 Tsitsikamma": {
				"class1": 61.00, "class2": 118.00, "class3": 255.00, "class4": 372.00,
			},
		},
		RiskPenalty: 1.5,
		Bridge: BridgePolicy{
			StructureHeight:   1.5,
			BlockingThreshold: 4.2,
			MinClearance:      3.5,
		},
		Regions: []RegionElevation{
			{Name: "Johannesburg plateau", MinLng: 27.5, MaxLng: 28.8, MinLat: -26.7, MaxLat: -25.5, Elevation: 1700},
			{Name: "Cape Town", MinLng: 18.2, MaxLng: 19.1, MinLat: -34.4, MaxLat: -33.5, Elevation: 100},
			{Name: "Durban", MinLng: 30.6, MaxLng: 31.2, MinLat: -30.1, MaxLat: -29.5, Elevation: 50},
		},
		DefaultElevation: 1000,
	}
}

// Load builds the application config from the environment plus the optional
// tariff file. A missing .env or tariff file is not an error; the defaults
// above keep the engine usable in tests and local runs.
func Load() AppConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file loaded, using environment as-is")
	}

	cfg := AppConfig{
		MapboxToken:       os.Getenv("MAPBOX_TOKEN"),
		GeocodingBaseURL:  envOr("GEOCODING_BASE_URL", "https://api.mapbox.com/geocoding/v5/mapbox.places"),
		DirectionsBaseURL: envOr("DIRECTIONS_BASE_URL", "https://api.mapbox.com/directions/v5"),
		TerrainBaseURL:    envOr("TERRAIN_BASE_URL", "https://api.mapbox.com/v4/mapbox.terrain-rgb"),
		TruckProfile:      envOr("TRUCK_PROFILE", "mapbox/driving-traffic"),
		FallbackProfile:   envOr("FALLBACK_PROFILE", "mapbox/driving"),
		DatabasePath:      envOr("DATABASE_PATH", "database.db"),
		JWTSecret:         envOr("JWT_SECRET", "secret"),
		TrackerBaseURL:    envOr("TRACKER_BASE_URL", "https://fms-gps.oryxtrack.co.za"),
		TrackerUsername:   os.Getenv("TRACKER_USERNAME"),
		TrackerPassword:   os.Getenv("TRACKER_PASSWORD"),
		SlackBotToken:     os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:      os.Getenv("SLACK_DISPATCH_CHANNEL"),
		Tariff:            DefaultTariff(),
	}

	tariffPath := envOr("TARIFF_FILE", "tariff.json5")
	if tariff, err := LoadTariff(tariffPath); err == nil {
		cfg.Tariff = tariff
	} else if !os.IsNotExist(err) {
		log.Printf("Error reading tariff file %s: %v", tariffPath, err)
	}

	return cfg
}

// LoadTariff reads a JSON5 tariff file. Fields left out of the file keep
// their built-in defaults.
func LoadTariff(path string) (Tariff, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tariff{}, err
	}
	tariff := DefaultTariff()
	if err := json5.Unmarshal(data, &tariff); err != nil {
		return Tariff{}, err
	}
	return tariff, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
