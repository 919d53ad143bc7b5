package Controllers

import (
	"log"
	"math"

	"Oryx/Dispatch"
	"Oryx/GeoUtils"
	"Oryx/Models"
	"Oryx/Slack"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DispatchHandler contains handler methods for nearest-vehicle dispatch
type DispatchHandler struct {
	DB       *gorm.DB
	Matcher  *Dispatch.Matcher
	Notifier *Slack.SlackClient
	Validate *validator.Validate
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(db *gorm.DB, matcher *Dispatch.Matcher, notifier *Slack.SlackClient) *DispatchHandler {
	return &DispatchHandler{
		DB:       db,
		Matcher:  matcher,
		Notifier: notifier,
		Validate: validator.New(),
	}
}

type closestVehicleRequest struct {
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
}

// ClosestVehicle selects the best recovery vehicle for an incident location,
// records the decision and returns the candidate with both raw and
// risk-adjusted distances.
func (h *DispatchHandler) ClosestVehicle(c *fiber.Ctx) error {
	var req closestVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A valid incident lng/lat is required")
	}

	var areas []Models.HighRiskArea
	if err := h.DB.Find(&areas).Error; err != nil {
		log.Printf("Error fetching high-risk areas: %v", err)
		areas = nil
	}

	target := GeoUtils.Coordinate{Lng: *req.Lng, Lat: *req.Lat}
	candidate := h.Matcher.FindClosestVehicle(target, areas)
	if candidate == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No vehicle with a valid position is available",
		})
	}

	entry := Models.DispatchLog{
		TargetLng:       target.Lng,
		TargetLat:       target.Lat,
		PlateNo:         candidate.Vehicle.PlateNo,
		VehicleType:     candidate.Vehicle.VehicleType,
		DistanceKm:      math.Round(candidate.DistanceKm*100) / 100,
		AdjustedKm:      math.Round(candidate.AdjustedKm*100) / 100,
		CrossesRiskArea: candidate.CrossesRiskArea,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		log.Printf("Error recording dispatch decision: %v", err)
	}

	go h.Notifier.NotifyDispatch(entry)

	return c.JSON(candidate)
}

// GetDispatchLogs returns recorded dispatch decisions, newest first.
func (h *DispatchHandler) GetDispatchLogs(c *fiber.Ctx) error {
	var logs []Models.DispatchLog
	if err := h.DB.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load dispatch logs",
		})
	}
	return c.JSON(logs)
}
