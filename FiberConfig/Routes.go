package FiberConfig

import (
	"fmt"
	"log"

	"Oryx/Bridges"
	"Oryx/Config"
	"Oryx/Controllers"
	"Oryx/Dispatch"
	"Oryx/Elevation"
	"Oryx/Geocoding"
	"Oryx/Models"
	"Oryx/Routing"
	"Oryx/Slack"
	"Oryx/Tolls"
	"Oryx/Tracker"
	"Oryx/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupRoutes(app *fiber.App, cfg Config.AppConfig, tracker *Tracker.Client) {
	// Build the engine stack from explicit configuration
	geocoder := Geocoding.NewClient(cfg)
	sampler := Elevation.NewSampler(cfg)
	detector := Bridges.NewDetector(sampler, cfg)
	tollEngine := Tolls.NewEngine(cfg)
	provider := Routing.NewProvider(cfg, geocoder, detector, tollEngine)

	// Without tracker credentials the matcher works off the last persisted
	// positions instead of the live feed
	var feed Dispatch.VehicleFeed = tracker
	if cfg.TrackerUsername == "" {
		log.Println("No tracker credentials configured, dispatch uses persisted positions")
		feed = Dispatch.DatabaseFeed{DB: Models.DB}
	}
	matcher := Dispatch.NewMatcher(cfg, feed)
	notifier := Slack.NewSlackClient(cfg.SlackBotToken, cfg.SlackChannel)

	// Initialize handlers
	routingHandler := Controllers.NewRoutingHandler(Models.DB, provider)
	dispatchHandler := Controllers.NewDispatchHandler(Models.DB, matcher, notifier)
	geocodeHandler := Controllers.NewGeocodeHandler(geocoder)
	referenceHandler := Controllers.NewReferenceHandler(Models.DB)
	reportHandler := Controllers.NewReportHandler(Models.DB)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API group
	api := app.Group("/api")

	// Engine routes
	api.Post("/route/optimize", middleware.Verify(1), routingHandler.OptimizeRoute)
	api.Post("/dispatch/closest", middleware.Verify(1), dispatchHandler.ClosestVehicle)
	api.Get("/geocode", middleware.Verify(1), geocodeHandler.Geocode)
	api.Get("/geocode/reverse", middleware.Verify(1), geocodeHandler.ReverseGeocode)

	// Dispatch history
	api.Get("/dispatch/logs", middleware.Verify(1), dispatchHandler.GetDispatchLogs)
	api.Post("/dispatch/logs/export", middleware.Verify(3), reportHandler.ExportDispatchLogs)

	// Reference data - reads for everyone with a session, writes for admins
	api.Get("/tollgates", middleware.Verify(1), referenceHandler.GetTollGates)
	api.Post("/tollgates", middleware.Verify(3), referenceHandler.CreateTollGate)
	api.Delete("/tollgates/:id", middleware.Verify(3), referenceHandler.DeleteTollGate)
	api.Get("/riskareas", middleware.Verify(1), referenceHandler.GetRiskAreas)
	api.Post("/riskareas", middleware.Verify(3), referenceHandler.CreateRiskArea)
	api.Delete("/riskareas/:id", middleware.Verify(3), referenceHandler.DeleteRiskArea)

	// Fleet positions as last persisted
	api.Get("/vehicles", middleware.Verify(1), referenceHandler.GetVehicles)
}

func FiberConfig(cfg Config.AppConfig, tracker *Tracker.Client) {
	fmt.Println("Server Up...")
	middleware.SecretKey = cfg.JWTSecret

	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, cfg, tracker)

	if err := app.Listen(":3000"); err != nil {
		log.Fatal(err)
	}
}
