package main

import (
	"fmt"

	"planner3d/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
)

// Routes проксирует публичный API на сервис конвертации.
func Routes(api fiber.Router, p *proxy.Proxy, converterURL string) {
	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API Gateway v1",
			"status":  "ok",
		})
	})

	api.Post("/convert", p.To(converterURL+"/convert"))
	api.Post("/import", p.To(converterURL+"/import"))
	api.Post("/render", p.To(converterURL+"/render"))
	api.Get("/materials", p.To(converterURL+"/materials"))

	api.Get("/layouts", p.To(converterURL+"/layouts"))
	api.Post("/layouts", p.To(converterURL+"/layouts"))

	layout := func(suffix string) fiber.Handler {
		return func(c fiber.Ctx) error {
			target := fmt.Sprintf("%s/layouts/%s%s", converterURL, c.Params("id"), suffix)
			return p.To(target)(c)
		}
	}
	api.Get("/layouts/:id", layout(""))
	api.Put("/layouts/:id", layout(""))
	api.Delete("/layouts/:id", layout(""))
	api.Get("/layouts/:id/3d", layout("/3d"))
}
