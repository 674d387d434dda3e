package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/corridor/internal/domain"
	"github.com/smartcity/corridor/internal/observability"
	"github.com/smartcity/corridor/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	gen := service.NewGenerator(service.NewSeededRand(99), service.WithClock(now))
	metrics := observability.NewMetrics()
	svc := service.NewDashboardService(gen, metrics)
	locator, err := service.NewSectionLocator(domain.Markers())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, svc, locator, metrics.Handler())
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealthCheck(t *testing.T) {
	resp, err := newTestApp(t).Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGeneratorEndpoints(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		target string
		count  int
	}{
		{"/api/v1/traffic/flow", 24},
		{"/api/v1/traffic/speed", 10},
		{"/api/v1/traffic/congestion", 10},
		{"/api/v1/traffic/vehicles", 4},
		{"/api/v1/traffic/history", 30},
		{"/api/v1/traffic/forecast", 7},
		{"/api/v1/traffic/speed/heatmap", 240},
	}

	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			status, env := get(t, app, test.target)
			assert.Equal(t, fiber.StatusOK, status)
			assert.True(t, env.Success)
			assert.Equal(t, test.count, env.Count)
		})
	}
}

func TestIncidentsEndpoint(t *testing.T) {
	status, env := get(t, newTestApp(t), "/api/v1/traffic/incidents")
	require.Equal(t, fiber.StatusOK, status)

	var incidents []domain.Incident
	require.NoError(t, json.Unmarshal(env.Data, &incidents))
	assert.Equal(t, len(incidents), env.Count)
	assert.True(t, len(incidents) >= 3 && len(incidents) <= 8)
}

func TestStatsEndpoint(t *testing.T) {
	status, env := get(t, newTestApp(t), "/api/v1/traffic/stats")
	require.Equal(t, fiber.StatusOK, status)

	var stats domain.RealTimeStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.True(t, stats.CongestionIndex >= 1 && stats.CongestionIndex <= 2.5)
}

func TestTopologyEndpoint(t *testing.T) {
	status, env := get(t, newTestApp(t), "/api/v1/topology")
	require.Equal(t, fiber.StatusOK, status)

	var topo domain.Topology
	require.NoError(t, json.Unmarshal(env.Data, &topo))
	assert.Equal(t, domain.RoadSections(), topo.Sections)
	assert.Len(t, topo.Links, 9)
}

func TestDashboardEndpoint(t *testing.T) {
	status, env := get(t, newTestApp(t), "/api/v1/dashboard")
	require.Equal(t, fiber.StatusOK, status)

	var data domain.DashboardData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Flow, 24)
	assert.Len(t, data.Congestion, 10)
	for _, row := range data.Congestion {
		assert.Equal(t, domain.ClassifyCongestion(row.Index), row.Tier)
	}
}

func TestViewEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, env := get(t, app, "/api/v1/views/traffic-flow?range=week&road="+strings.ReplaceAll("Shiwan - Xiqiao", " ", "%20"))
	require.Equal(t, fiber.StatusOK, status)
	var flow domain.TrafficFlowView
	require.NoError(t, json.Unmarshal(env.Data, &flow))
	assert.Equal(t, domain.Filter{Range: "week", Road: "Shiwan - Xiqiao"}, flow.Filter)
	assert.Len(t, flow.Flow, 24)

	status, env = get(t, app, "/api/v1/views/speed")
	require.Equal(t, fiber.StatusOK, status)
	var speed domain.SpeedView
	require.NoError(t, json.Unmarshal(env.Data, &speed))
	assert.Len(t, speed.Sections, 10)

	status, env = get(t, app, "/api/v1/views/congestion?range=day&hour=8")
	require.Equal(t, fiber.StatusOK, status)
	var congestion domain.CongestionView
	require.NoError(t, json.Unmarshal(env.Data, &congestion))
	require.NotNil(t, congestion.Filter.Hour)
	assert.Equal(t, 8, *congestion.Filter.Hour)
}

func TestViewEndpointsRejectBadFilters(t *testing.T) {
	app := newTestApp(t)
	targets := []string{
		"/api/v1/views/traffic-flow?range=year",
		"/api/v1/views/speed?road=Nowhere",
		"/api/v1/views/congestion?hour=noon",
		"/api/v1/views/congestion?range=week&hour=24",
	}

	for _, target := range targets {
		status, env := get(t, app, target)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
		assert.True(t, env.Error, target)
		assert.NotEmpty(t, env.Message, target)
	}
}

func TestNearestSectionEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, env := get(t, app, "/api/v1/sections/nearest?lat=23.1291&lon=113.2644")
	require.Equal(t, fiber.StatusOK, status)
	var nearest service.NearestSection
	require.NoError(t, json.Unmarshal(env.Data, &nearest))
	assert.Equal(t, domain.RoadSection("Guangzhou South - Shiwan"), nearest.Marker.Section)

	status, _ = get(t, app, "/api/v1/sections/nearest?lat=abc&lon=113")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = get(t, app, "/api/v1/sections/nearest?lat=91&lon=113")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = get(t, app, "/api/v1/sections/nearest?lat=NaN&lon=113")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = get(t, app, "/api/v1/sections/nearest?lat=23.1&lon=nan")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	get(t, app, "/api/v1/traffic/flow")

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `corridor_generations_total{kind="flow"} 1`)
}
