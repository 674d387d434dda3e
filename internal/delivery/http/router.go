package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/smartcity/corridor/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, dashboardSvc *service.DashboardService, locator *service.SectionLocator, metrics nethttp.Handler) {
	handler := NewHandler(dashboardSvc, locator)

	// Health check
	app.Get("/health", handler.HealthCheck)
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/topology", handler.GetTopology)
		api.Get("/dashboard", handler.GetDashboard)
		api.Get("/sections/nearest", handler.GetNearestSection)

		// Raw generator output
		traffic := api.Group("/traffic")
		traffic.Get("/flow", handler.GetFlow)
		traffic.Get("/speed", handler.GetSpeed)
		traffic.Get("/speed/heatmap", handler.GetSpeedHeatmap)
		traffic.Get("/congestion", handler.GetCongestion)
		traffic.Get("/congestion/trend", handler.GetCongestionTrend)
		traffic.Get("/stats", handler.GetStats)
		traffic.Get("/vehicles", handler.GetVehicleMix)
		traffic.Get("/incidents", handler.GetIncidents)
		traffic.Get("/history", handler.GetHistory)
		traffic.Get("/forecast", handler.GetForecast)

		// Page views with derived tiers
		views := api.Group("/views")
		views.Get("/traffic-flow", handler.GetTrafficFlowView)
		views.Get("/speed", handler.GetSpeedView)
		views.Get("/congestion", handler.GetCongestionView)
	}
}
