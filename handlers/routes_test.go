package handlers

import (
	"net/http/httptest"
	"testing"

	"task-market-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// testApp mounts every route group in the same order as main. Services
// get no DB: secured routes are rejected by the middleware before any
// handler runs, and the recover middleware turns handler panics on
// public routes into 500s so status codes stay observable.
func testApp() *fiber.App {
	app := fiber.New()
	app.Use(recover.New())

	SetupAuthRoutes(app, services.NewAuthService(nil))
	SetupTaskRoutes(app, services.NewTaskService(nil))
	SetupRatingRoutes(app, services.NewRatingService(nil))
	SetupLeaderboardRoutes(app, services.NewLeaderboardService(nil), services.NewStatsService(nil))
	app.Static("/uploads", "./uploads")

	return app
}

func TestPublicRoutesDoNotRequireToken(t *testing.T) {
	app := testApp()

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/leaderboard"},
		{"GET", "/uploads/missing.png"},
		{"POST", "/auth/signup"},
		{"POST", "/auth/login"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode == fiber.StatusUnauthorized {
			t.Fatalf("%s %s must not be gated by auth middleware, got 401", tc.method, tc.path)
		}
	}
}

func TestSecuredRoutesRejectMissingToken(t *testing.T) {
	app := testApp()

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/me"},
		{"PATCH", "/me"},
		{"POST", "/me/avatar"},
		{"GET", "/tasks"},
		{"POST", "/tasks"},
		{"GET", "/tasks/some-id"},
		{"POST", "/tasks/some-id/claim"},
		{"GET", "/ratings/pending"},
		{"POST", "/ratings"},
		{"GET", "/users/some-id/rating"},
		{"GET", "/stats"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s %s must require a token, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}
