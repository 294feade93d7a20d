package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is satisfied by *sqlx.DB and by a small adapter around the redis client
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"status":  "ok",
		"service": "chatbot-gateway",
	})
}

// Ready pings every dependency; any failure makes the instance not ready
// GET /ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	checks := fiber.Map{}
	for name, pinger := range h.checks {
		if err := pinger.PingContext(ctx); err != nil {
			log.Warn().Err(err).Str("check", name).Msg("Readiness check failed")
			checks[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != fiber.StatusOK {
		state = "not_ready"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"status":  state,
		"checks":  checks,
	})
}
