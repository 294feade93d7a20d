package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/metrics"
)

// MetricsMiddleware records latency per matched route pattern so ids do not
// explode label cardinality
func MetricsMiddleware(recorder metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// render now so the status below is the one the client sees
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		recorder.ObserveRequest(c.Method(), route, strconv.Itoa(c.Response().StatusCode()), time.Since(start).Seconds())
		return nil
	}
}
