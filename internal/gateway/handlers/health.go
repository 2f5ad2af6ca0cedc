package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessCheck проверяет, что приложение работает
func LivenessCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessCheck готов, когда готов сервис конвертации за шлюзом.
func ReadinessCheck(converterURL string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}
	return func(c fiber.Ctx) error {
		resp, err := client.Get(converterURL + "/health/ready")
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "converter": err.Error()})
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "converter": resp.Status})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}

// StartupCheck проверяет, что приложение успешно запустилось
func StartupCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
