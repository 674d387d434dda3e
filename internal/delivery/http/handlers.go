package http

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/corridor/internal/domain"
	"github.com/smartcity/corridor/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	locator      *service.SectionLocator
}

// NewHandler creates a new handler
func NewHandler(dashboardSvc *service.DashboardService, locator *service.SectionLocator) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		locator:      locator,
	}
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func list[T any](c *fiber.Ctx, data []T) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "corridor-metrics",
		"version": "1.0.0",
	})
}

// GetTopology returns the fixed corridor layout
func (h *Handler) GetTopology(c *fiber.Ctx) error {
	return ok(c, h.dashboardSvc.Topology())
}

// GetFlow returns the 24-hour flow series
func (h *Handler) GetFlow(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.Flow())
}

// GetSpeed returns per-section speeds
func (h *Handler) GetSpeed(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.Speed())
}

// GetCongestion returns per-section congestion
func (h *Handler) GetCongestion(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.Congestion())
}

// GetStats returns the corridor-wide stats
func (h *Handler) GetStats(c *fiber.Ctx) error {
	return ok(c, h.dashboardSvc.RealTimeStats())
}

// GetVehicleMix returns the vehicle category shares
func (h *Handler) GetVehicleMix(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.VehicleMix())
}

// GetIncidents returns recent incidents
func (h *Handler) GetIncidents(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.Incidents())
}

// GetHistory returns daily aggregates for the past month
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.History())
}

// GetForecast returns daily aggregates for the coming week
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.Forecast())
}

// GetSpeedHeatmap returns the section x hour speed grid
func (h *Handler) GetSpeedHeatmap(c *fiber.Ctx) error {
	return list(c, h.dashboardSvc.SpeedHeatmap())
}

// GetCongestionTrend returns the hourly congestion series
func (h *Handler) GetCongestionTrend(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":           true,
		"data":              h.dashboardSvc.CongestionTrend(),
		"warning_threshold": domain.CongestionWarningThreshold,
	})
}

// GetDashboard returns the overview page
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	return ok(c, h.dashboardSvc.GetDashboardData())
}

// GetTrafficFlowView returns the traffic flow page
func (h *Handler) GetTrafficFlowView(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	view, err := h.dashboardSvc.GetTrafficFlowView(f)
	if err != nil {
		return filterError(err)
	}
	return ok(c, view)
}

// GetSpeedView returns the speed analysis page
func (h *Handler) GetSpeedView(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	view, err := h.dashboardSvc.GetSpeedView(f)
	if err != nil {
		return filterError(err)
	}
	return ok(c, view)
}

// GetCongestionView returns the congestion map page
func (h *Handler) GetCongestionView(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	view, err := h.dashboardSvc.GetCongestionView(f)
	if err != nil {
		return filterError(err)
	}
	return ok(c, view)
}

// GetNearestSection resolves a coordinate to the closest section marker
func (h *Handler) GetNearestSection(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon must be numbers")
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fiber.NewError(fiber.StatusBadRequest, "lat/lon out of range")
	}

	nearest, err := h.locator.Nearest(lat, lon)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Section index unavailable")
	}
	return ok(c, nearest)
}

func parseFilter(c *fiber.Ctx) (domain.Filter, error) {
	f := domain.Filter{
		Range: c.Query("range"),
		Road:  c.Query("road"),
	}
	if v := c.Query("hour"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "hour must be an integer")
		}
		f.Hour = &hour
	}
	return f, nil
}

func filterError(err error) error {
	if errors.Is(err, service.ErrInvalidFilter) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to build view")
}

// ErrorHandler renders errors as a JSON envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
