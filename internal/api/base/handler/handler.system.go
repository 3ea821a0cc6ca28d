package basehdl

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// SystemHandler serves operational routes
type SystemHandler struct {
	ping func() error
}

// NewSystemHandler creates a SystemHandler; ping checks the database
func NewSystemHandler(ping func() error) *SystemHandler {
	return &SystemHandler{ping: ping}
}

// HandleHealth always answers 200; data.mongodb tells whether the database answered the ping
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	mongoStatus := "Connected"
	if h.ping == nil || h.ping() != nil {
		mongoStatus = "Disconnected"
	}

	return RespondSuccess(c, fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
		"mongodb":   mongoStatus,
	})
}
