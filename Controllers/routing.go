package Controllers

import (
	"log"

	"Oryx/Models"
	"Oryx/Routing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoutingHandler contains handler methods for route optimization
type RoutingHandler struct {
	DB       *gorm.DB
	Provider *Routing.Provider
	Validate *validator.Validate
}

// NewRoutingHandler creates a new routing handler
func NewRoutingHandler(db *gorm.DB, provider *Routing.Provider) *RoutingHandler {
	return &RoutingHandler{
		DB:       db,
		Provider: provider,
		Validate: validator.New(),
	}
}

// OptimizeRoute resolves a truck-aware route between two addresses and
// annotates it with bridge restrictions, toll costs and risk-zone warnings.
func (h *RoutingHandler) OptimizeRoute(c *fiber.Ctx) error {
	var req Routing.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Origin and destination are required")
	}

	// Reference-data trouble must not block route display; the engines
	// degrade to empty datasets.
	var gates []Models.TollGate
	if err := h.DB.Find(&gates).Error; err != nil {
		log.Printf("Error fetching toll gates: %v", err)
		gates = nil
	}
	var areas []Models.HighRiskArea
	if err := h.DB.Find(&areas).Error; err != nil {
		log.Printf("Error fetching high-risk areas: %v", err)
		areas = nil
	}

	result, err := h.Provider.OptimizeRoute(req, gates, areas)
	if err != nil {
		log.Println("Route optimization failed:", err.Error())
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
