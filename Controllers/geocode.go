package Controllers

import (
	"strconv"

	"Oryx/Geocoding"

	"github.com/gofiber/fiber/v2"
)

// GeocodeHandler exposes the geocoding client to the dashboard
type GeocodeHandler struct {
	Client *Geocoding.Client
}

func NewGeocodeHandler(client *Geocoding.Client) *GeocodeHandler {
	return &GeocodeHandler{Client: client}
}

// Geocode resolves a free-text address to a coordinate.
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "address query parameter is required")
	}

	place := h.Client.Geocode(address)
	if place == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No match for the given address",
		})
	}
	return c.JSON(place)
}

// ReverseGeocode resolves a coordinate to an address.
func (h *GeocodeHandler) ReverseGeocode(c *fiber.Ctx) error {
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLng != nil || errLat != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lng and lat query parameters are required")
	}

	address := h.Client.ReverseGeocode(lng, lat)
	if address == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No address found for the given coordinate",
		})
	}
	return c.JSON(address)
}
