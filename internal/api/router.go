package api

import (
	"grantseek/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(projectHandler *handlers.ProjectHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Government Projects Search API",
			"version": "1.0",
			"endpoints": fiber.Map{
				"search":  "/api/search?q=검색어",
				"project": "/api/project/{id}",
				"recent":  "/api/projects/recent",
				"filter":  "/api/projects/filter",
				"stats":   "/api/stats",
			},
		})
	})

	api := app.Group("/api")
	api.Get("/search", projectHandler.Search)
	api.Get("/project/:id", projectHandler.GetProject)
	api.Get("/projects/recent", projectHandler.Recent)
	api.Get("/projects/filter", projectHandler.Filter)
	api.Get("/stats", projectHandler.Stats)

	return app
}
