package handlers

import (
	"task-market-system/middleware"
	"task-market-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, statsService *services.StatsService) {
	// The leaderboard is public; stats are per-user and secured.
	app.Get("/leaderboard", leaderboardService.GetLeaderboard)
	app.Get("/stats", middleware.RequireUser(), statsService.GetUserStats)
}
