package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/corridor/internal/domain"
)

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) Generated(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[kind]++
}

func newTestDashboard(obs GenerationObserver) *DashboardService {
	return NewDashboardService(newTestGenerator(21), obs)
}

func TestGetDashboardData(t *testing.T) {
	obs := &countingObserver{}
	data := newTestDashboard(obs).GetDashboardData()

	assert.Len(t, data.Flow, 24)
	require.Len(t, data.Congestion, 10)
	assert.True(t, len(data.Incidents) >= 3 && len(data.Incidents) <= 8)
	assert.Equal(t, fixedNow, data.Timestamp)

	for _, row := range data.Congestion {
		assert.Equal(t, domain.ClassifyCongestion(row.Index), row.Tier)
		assert.Equal(t, row.Status.Label(), row.StatusLabel)
	}
	for _, row := range data.Incidents {
		assert.Equal(t, row.Severity.Color(), row.SeverityColor)
		assert.Equal(t, row.Status.Tone(), row.StatusTone)
	}

	assert.Equal(t, map[string]int{"stats": 1, "flow": 1, "congestion": 1, "incidents": 1}, obs.counts)
}

func TestNewDashboardServiceWithoutObserver(t *testing.T) {
	svc := NewDashboardService(newTestGenerator(1), nil)
	assert.Len(t, svc.Flow(), 24)
}

func TestTrafficFlowViewDefaultsAndEcho(t *testing.T) {
	svc := newTestDashboard(nil)

	view, err := svc.GetTrafficFlowView(domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "day", view.Filter.Range)
	assert.Equal(t, "Guangzhou South - Shiwan", view.Filter.Road)
	assert.Len(t, view.Flow, 24)
	assert.Len(t, view.VehicleMix, 4)

	view, err = svc.GetTrafficFlowView(domain.Filter{Range: "month", Road: "Lecong - Chencun"})
	require.NoError(t, err)
	assert.Equal(t, domain.Filter{Range: "month", Road: "Lecong - Chencun"}, view.Filter)
	// filters are inert: the shape never changes
	assert.Len(t, view.Flow, 24)
}

func TestViewFiltersRejectUnknownValues(t *testing.T) {
	svc := newTestDashboard(nil)
	hour := 30

	_, err := svc.GetTrafficFlowView(domain.Filter{Range: "year"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.GetSpeedView(domain.Filter{Road: "Nowhere"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.GetCongestionView(domain.Filter{Range: "month"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.GetCongestionView(domain.Filter{Range: "day", Hour: &hour})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.GetCongestionView(domain.Filter{Road: "Shiwan - Xiqiao"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSpeedViewRows(t *testing.T) {
	view, err := newTestDashboard(nil).GetSpeedView(domain.Filter{Range: "week"})
	require.NoError(t, err)

	require.Len(t, view.Sections, 10)
	for _, row := range view.Sections {
		assert.Equal(t, domain.SpeedRatio(row.Speed, row.FreeFlowSpeed), row.Ratio)
		assert.Equal(t, domain.ClassifySpeedRatio(row.Ratio), row.Tier)
		assert.GreaterOrEqual(t, row.Ratio, 50.0)
	}
	assert.Len(t, view.Heatmap, 240)
}

func TestCongestionViewHourHandling(t *testing.T) {
	svc := newTestDashboard(nil)

	view, err := svc.GetCongestionView(domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "realtime", view.Filter.Range)
	assert.Nil(t, view.Filter.Hour)
	assert.Len(t, view.Sections, 10)
	assert.Len(t, view.Links, 9)
	assert.Len(t, view.Trend, 24)
	assert.Equal(t, 2.0, view.WarningThreshold)

	view, err = svc.GetCongestionView(domain.Filter{Range: "day"})
	require.NoError(t, err)
	require.NotNil(t, view.Filter.Hour)
	assert.Equal(t, 12, *view.Filter.Hour)

	hour := 7
	view, err = svc.GetCongestionView(domain.Filter{Range: "realtime", Hour: &hour})
	require.NoError(t, err)
	assert.Nil(t, view.Filter.Hour)
}
