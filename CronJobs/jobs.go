package CronJobs

import (
	"fmt"
	"log"

	"Oryx/Tracker"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// FeedRefresher keeps the persisted vehicle positions current by polling the
// tracker on a schedule.
type FeedRefresher struct {
	cronScheduler  *cron.Cron
	tracker        *Tracker.Client
	db             *gorm.DB
	schedule       string
	runImmediately bool
	jobID          cron.EntryID
}

// NewFeedRefresher creates a refresher polling on the given cron schedule
// (with seconds field, e.g. "0 */5 * * * *" for every five minutes).
func NewFeedRefresher(tracker *Tracker.Client, db *gorm.DB, schedule string, runImmediately bool) *FeedRefresher {
	return &FeedRefresher{
		cronScheduler:  cron.New(cron.WithSeconds()),
		tracker:        tracker,
		db:             db,
		schedule:       schedule,
		runImmediately: runImmediately,
	}
}

// Start schedules the refresh job.
func (f *FeedRefresher) Start() error {
	var err error
	f.jobID, err = f.cronScheduler.AddFunc(f.schedule, func() {
		log.Println("Running scheduled vehicle feed refresh")
		f.tracker.RefreshVehicles(f.db)
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	f.cronScheduler.Start()
	log.Printf("Vehicle feed refresher started on schedule %q", f.schedule)

	if f.runImmediately {
		log.Println("Running initial vehicle feed refresh")
		f.tracker.RefreshVehicles(f.db)
	}
	return nil
}

// Stop terminates the refresher.
func (f *FeedRefresher) Stop() {
	if f.cronScheduler != nil {
		f.cronScheduler.Stop()
		log.Println("Vehicle feed refresher stopped")
	}
}

// UpdateSchedule changes the polling schedule.
func (f *FeedRefresher) UpdateSchedule(schedule string) error {
	f.cronScheduler.Remove(f.jobID)

	var err error
	f.jobID, err = f.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled vehicle feed refresh")
		f.tracker.RefreshVehicles(f.db)
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	f.schedule = schedule
	log.Printf("Vehicle feed refresh schedule updated to: %s", schedule)
	return nil
}
