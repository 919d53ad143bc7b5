package Controllers

import (
	"log"

	"Oryx/Models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReferenceHandler serves and maintains the toll-gate and high-risk-area
// reference datasets
type ReferenceHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewReferenceHandler(db *gorm.DB) *ReferenceHandler {
	return &ReferenceHandler{DB: db, Validate: validator.New()}
}

// GetTollGates returns all toll gates.
func (h *ReferenceHandler) GetTollGates(c *fiber.Ctx) error {
	var gates []Models.TollGate
	if err := h.DB.Find(&gates).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load toll gates",
		})
	}
	return c.JSON(gates)
}

type tollGateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Coordinates string  `json:"coordinates" validate:"required"`
	RadiusKm    float64 `json:"radius" validate:"gt=0"`
}

// CreateTollGate adds a toll gate row.
func (h *ReferenceHandler) CreateTollGate(c *fiber.Ctx) error {
	var req tollGateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name, coordinates and a positive radius are required")
	}

	gate := Models.TollGate{Name: req.Name, Coordinates: req.Coordinates, RadiusKm: req.RadiusKm}
	if err := h.DB.Create(&gate).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Could not create toll gate",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(gate)
}

// DeleteTollGate removes a toll gate row.
func (h *ReferenceHandler) DeleteTollGate(c *fiber.Ctx) error {
	id := c.Params("id")

	var gate Models.TollGate
	if err := h.DB.First(&gate, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Toll gate not found",
		})
	}
	if err := h.DB.Delete(&gate).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete toll gate",
		})
	}
	return c.JSON(fiber.Map{"message": "Toll gate deleted"})
}

// GetRiskAreas returns all high-risk areas.
func (h *ReferenceHandler) GetRiskAreas(c *fiber.Ctx) error {
	var areas []Models.HighRiskArea
	if err := h.DB.Find(&areas).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load high-risk areas",
		})
	}
	return c.JSON(areas)
}

type riskAreaRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Coordinates string `json:"coordinates" validate:"required"`
}

// CreateRiskArea adds a high-risk area row. Degenerate polygons are accepted
// here and simply stay inert in the engines; the dashboard warns separately.
func (h *ReferenceHandler) CreateRiskArea(c *fiber.Ctx) error {
	var req riskAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name, type and coordinates are required")
	}

	area := Models.HighRiskArea{Name: req.Name, Type: req.Type, Coordinates: req.Coordinates}
	if err := h.DB.Create(&area).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create high-risk area",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(area)
}

// DeleteRiskArea removes a high-risk area row.
func (h *ReferenceHandler) DeleteRiskArea(c *fiber.Ctx) error {
	id := c.Params("id")

	var area Models.HighRiskArea
	if err := h.DB.First(&area, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "High-risk area not found",
		})
	}
	if err := h.DB.Delete(&area).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete high-risk area",
		})
	}
	return c.JSON(fiber.Map{"message": "High-risk area deleted"})
}

// GetVehicles returns the last persisted vehicle positions.
func (h *ReferenceHandler) GetVehicles(c *fiber.Ctx) error {
	var vehicles []Models.Vehicle
	if err := h.DB.Find(&vehicles).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load vehicles",
		})
	}
	return c.JSON(vehicles)
}
