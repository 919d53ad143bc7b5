package Tracker

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"Oryx/Config"
	"Oryx/Models"

	"github.com/gocolly/colly"
	"gorm.io/gorm"
)

// Client pulls live vehicle positions from the telematics provider. The
// provider wants a cookie session, so every collector shares one jar and a
// fresh collector is built per fetch to keep response callbacks scoped to
// their own request. The cron refresher and live dispatch requests share one
// Client, so the session state is mutex-guarded.
type Client struct {
	BaseURL  string
	Username string
	Password string

	mu       sync.Mutex
	jar      *cookiejar.Jar
	loggedIn bool
}

func NewClient(cfg Config.AppConfig) *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Println("Error creating cookie jar:", err)
	}
	return &Client{
		BaseURL:  cfg.TrackerBaseURL,
		Username: cfg.TrackerUsername,
		Password: cfg.TrackerPassword,
		jar:      jar,
	}
}

func (c *Client) collector() *colly.Collector {
	collector := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	if c.jar != nil {
		collector.SetCookieJar(c.jar)
	}
	return collector
}

type feedRow struct {
	PlateNo      string `json:"plateNo"`
	VehicleType  string `json:"vehicleType"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	Speed        int    `json:"speed"`
	EngineStatus string `json:"engineStatus"`
	Timestamp    string `json:"timestamp"`
}

type feedResponse struct {
	Rows []feedRow `json:"rows"`
}

// login establishes the provider session. The caller holds c.mu.
func (c *Client) login() error {
	if c.loggedIn {
		return nil
	}
	data := map[string]string{
		"username": c.Username,
		"password": c.Password,
	}
	if err := c.collector().Post(c.BaseURL+"/api/session", data); err != nil {
		return fmt.Errorf("tracker login failed: %w", err)
	}
	c.loggedIn = true
	return nil
}

// Vehicles fetches the current position feed. This is the live path the
// dispatch matcher uses; rows come back as-is, invalid fixes are handled
// downstream.
func (c *Client) Vehicles() ([]Models.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.login(); err != nil {
		return nil, err
	}

	var feed feedResponse
	var fetchErr error
	collector := c.collector()
	collector.OnResponse(func(r *colly.Response) {
		if err := json.Unmarshal(r.Body, &feed); err != nil {
			fetchErr = fmt.Errorf("unexpected feed payload: %w", err)
		}
	})

	err := collector.Request("GET", c.BaseURL+"/api/positions", nil, nil,
		http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		// a stale session is the usual cause; force a fresh login next call
		c.loggedIn = false
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	vehicles := make([]Models.Vehicle, 0, len(feed.Rows))
	for _, row := range feed.Rows {
		vehicles = append(vehicles, Models.Vehicle{
			PlateNo:           row.PlateNo,
			VehicleType:       row.VehicleType,
			Latitude:          row.Latitude,
			Longitude:         row.Longitude,
			Speed:             row.Speed,
			EngineStatus:      row.EngineStatus,
			LocationTimeStamp: row.Timestamp,
		})
	}
	return vehicles, nil
}

// RefreshVehicles persists the latest feed so the dashboard and the
// database-backed dispatch fallback see recent positions even when the
// provider is briefly down.
func (c *Client) RefreshVehicles(db *gorm.DB) {
	vehicles, err := c.Vehicles()
	if err != nil {
		log.Println("Failed to refresh vehicle positions:", err.Error())
		return
	}

	updated := 0
	for _, vehicle := range vehicles {
		if vehicle.PlateNo == "" {
			log.Println("Skipping feed row without a plate number")
			continue
		}

		var existing Models.Vehicle
		result := db.Where("plate_no = ?", vehicle.PlateNo).First(&existing)
		if result.Error != nil {
			if err := db.Create(&vehicle).Error; err != nil {
				log.Printf("Error creating vehicle %s: %v", vehicle.PlateNo, err)
			} else {
				updated++
			}
			continue
		}

		existing.VehicleType = vehicle.VehicleType
		existing.Latitude = vehicle.Latitude
		existing.Longitude = vehicle.Longitude
		existing.Speed = vehicle.Speed
		existing.EngineStatus = vehicle.EngineStatus
		existing.LocationTimeStamp = vehicle.LocationTimeStamp
		if err := db.Save(&existing).Error; err != nil {
			log.Printf("Error updating vehicle %s: %v", vehicle.PlateNo, err)
		} else {
			updated++
		}
	}
	log.Printf("Vehicle feed refreshed - %d of %d rows persisted", updated, len(vehicles))
}
