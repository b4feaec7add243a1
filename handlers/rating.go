package handlers

import (
	"task-market-system/middleware"
	"task-market-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRatingRoutes(app *fiber.App, ratingService *services.RatingService) {
	ratings := app.Group("/ratings", middleware.RequireUser())
	ratings.Get("/pending", ratingService.GetPendingRating)
	ratings.Post("/", ratingService.SubmitRating)

	app.Get("/users/:id/rating", middleware.RequireUser(), ratingService.GetUserRating)
}
