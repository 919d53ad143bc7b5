package main

import (
	"log"

	"Oryx/Config"
	"Oryx/CronJobs"
	"Oryx/FiberConfig"
	"Oryx/Models"
	"Oryx/Tracker"
)

func main() {
	cfg := Config.Load()

	Models.Connect(cfg)

	tracker := Tracker.NewClient(cfg)
	if cfg.TrackerUsername != "" {
		refresher := CronJobs.NewFeedRefresher(tracker, Models.DB, "0 */5 * * * *", true)
		if err := refresher.Start(); err != nil {
			log.Println("Failed to start vehicle feed refresher:", err.Error())
		}
	} else {
		log.Println("No tracker credentials configured, skipping position refresh job")
	}

	FiberConfig.FiberConfig(cfg, tracker)
}
