package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/smartcity/corridor/internal/domain"
)

// IntRange is an inclusive integer interval
type IntRange struct {
	Min int
	Max int
}

// FloatRange is a real interval
type FloatRange struct {
	Min float64
	Max float64
}

func (r IntRange) String() string   { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }
func (r FloatRange) String() string { return fmt.Sprintf("[%g,%g]", r.Min, r.Max) }

// Contains reports whether v lies in the interval
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Contains reports whether v lies in the closed interval
func (r FloatRange) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Upper bounds a configured range may reach
const (
	maxHourlyFlow     = 100000
	maxTravelTime     = 24 * 60
	maxIncidentCount  = 100
	maxIncidentID     = 999999999
	maxIncidentMaxAge = 30 * 24 * time.Hour
	maxTrendDays      = 366
)

// Ranges holds every numeric bound the generators sample from
type Ranges struct {
	// Hourly flow baselines by time-of-day band, plus a shared offset
	FlowNight   int
	FlowDay     int
	FlowEvening int
	FlowOffset  IntRange

	Speed           IntRange
	CongestionIndex FloatRange

	StatsFlow       IntRange
	StatsSpeed      FloatRange
	StatsCongestion FloatRange
	StatsTravelTime IntRange

	VehicleShares map[domain.VehicleType]IntRange

	IncidentCount  IntRange
	IncidentID     IntRange
	IncidentMaxAge time.Duration

	HistoryDays     int
	ForecastDays    int
	TrendFlow       IntRange
	TrendSpeed      IntRange
	TrendCongestion FloatRange

	// PredictionSpread is the relative +/- deviation of predicted flow
	PredictionSpread float64
	HeatmapSpeed     IntRange
	HourlyCongestion FloatRange
}

// DefaultRanges returns the bounds the dashboard was designed around
func DefaultRanges() Ranges {
	return Ranges{
		FlowNight:   1000,
		FlowDay:     3000,
		FlowEvening: 2000,
		FlowOffset:  IntRange{-500, 500},

		Speed:           IntRange{60, 120},
		CongestionIndex: FloatRange{1, 3},

		StatsFlow:       IntRange{1500, 3500},
		StatsSpeed:      FloatRange{70, 100},
		StatsCongestion: FloatRange{1, 2.5},
		StatsTravelTime: IntRange{25, 35},

		VehicleShares: map[domain.VehicleType]IntRange{
			domain.VehicleSmall:      {50, 60},
			domain.VehicleMedium:     {20, 30},
			domain.VehicleLarge:      {10, 20},
			domain.VehicleExtraLarge: {5, 10},
		},

		IncidentCount:  IntRange{3, 8},
		IncidentID:     IntRange{1000, 9999},
		IncidentMaxAge: 24 * time.Hour,

		HistoryDays:     30,
		ForecastDays:    7,
		TrendFlow:       IntRange{2000, 4000},
		TrendSpeed:      IntRange{70, 100},
		TrendCongestion: FloatRange{1, 2.5},

		PredictionSpread: 0.1,
		HeatmapSpeed:     IntRange{40, 120},
		HourlyCongestion: FloatRange{1, 3},
	}
}

// Validate reports every inverted or out-of-domain bound
func (r Ranges) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("ranges: "+format, args...))
		}
	}

	for _, ir := range []struct {
		name string
		r    IntRange
	}{
		{"flow offset", r.FlowOffset},
		{"speed", r.Speed},
		{"stats flow", r.StatsFlow},
		{"stats travel time", r.StatsTravelTime},
		{"incident count", r.IncidentCount},
		{"incident id", r.IncidentID},
		{"trend flow", r.TrendFlow},
		{"trend speed", r.TrendSpeed},
		{"heatmap speed", r.HeatmapSpeed},
	} {
		check(ir.r.Min <= ir.r.Max, "%s range %s is inverted", ir.name, ir.r)
	}
	for _, fr := range []struct {
		name string
		r    FloatRange
	}{
		{"congestion index", r.CongestionIndex},
		{"stats speed", r.StatsSpeed},
		{"stats congestion", r.StatsCongestion},
		{"trend congestion", r.TrendCongestion},
		{"hourly congestion", r.HourlyCongestion},
	} {
		if !finite(fr.r.Min) || !finite(fr.r.Max) {
			errs = append(errs, fmt.Errorf("ranges: %s range %s must be finite", fr.name, fr.r))
			continue
		}
		check(fr.r.Min <= fr.r.Max, "%s range %s is inverted", fr.name, fr.r)
	}

	minBaseline := min(r.FlowNight, r.FlowDay, r.FlowEvening)
	maxBaseline := max(r.FlowNight, r.FlowDay, r.FlowEvening)
	check(minBaseline >= 0 && minBaseline+r.FlowOffset.Min >= 0,
		"flow baseline %d with offset %s can go negative", minBaseline, r.FlowOffset)
	check(maxBaseline <= maxHourlyFlow && r.FlowOffset.Max <= maxHourlyFlow-maxBaseline,
		"flow baseline %d with offset %s exceeds %d", maxBaseline, r.FlowOffset, maxHourlyFlow)

	check(r.Speed.Min >= 0, "speed range %s is negative", r.Speed)
	check(r.Speed.Max <= domain.FreeFlowSpeed,
		"speed range %s exceeds free-flow speed %d", r.Speed, domain.FreeFlowSpeed)
	check(r.HeatmapSpeed.Min >= 0 && r.HeatmapSpeed.Max <= domain.FreeFlowSpeed,
		"heatmap speed range %s outside [0,%d]", r.HeatmapSpeed, domain.FreeFlowSpeed)

	for _, fr := range []struct {
		name string
		r    FloatRange
	}{
		{"congestion index", r.CongestionIndex},
		{"stats congestion", r.StatsCongestion},
		{"trend congestion", r.TrendCongestion},
		{"hourly congestion", r.HourlyCongestion},
	} {
		check(fr.r.Min >= domain.CongestionIndexFloor && fr.r.Max <= domain.CongestionIndexCeiling,
			"%s range %s outside [%g,%g]", fr.name, fr.r, domain.CongestionIndexFloor, domain.CongestionIndexCeiling)
	}

	check(r.StatsFlow.Min >= 0 && r.StatsFlow.Max <= maxHourlyFlow,
		"stats flow range %s outside [0,%d]", r.StatsFlow, maxHourlyFlow)
	check(r.StatsSpeed.Min >= 0 && r.StatsSpeed.Max <= domain.FreeFlowSpeed,
		"stats speed range %s outside [0,%d]", r.StatsSpeed, domain.FreeFlowSpeed)
	check(r.StatsTravelTime.Min > 0, "stats travel time range %s must be positive", r.StatsTravelTime)
	check(r.StatsTravelTime.Max <= maxTravelTime,
		"stats travel time range %s exceeds %d minutes", r.StatsTravelTime, maxTravelTime)
	check(r.TrendFlow.Min >= 0 && r.TrendFlow.Max <= maxHourlyFlow,
		"trend flow range %s outside [0,%d]", r.TrendFlow, maxHourlyFlow)
	check(r.TrendSpeed.Min >= 0 && r.TrendSpeed.Max <= domain.FreeFlowSpeed,
		"trend speed range %s outside [0,%d]", r.TrendSpeed, domain.FreeFlowSpeed)

	for _, vt := range domain.VehicleTypes {
		vr, ok := r.VehicleShares[vt]
		if !ok {
			errs = append(errs, fmt.Errorf("ranges: vehicle share %q is missing", vt))
			continue
		}
		check(vr.Min <= vr.Max, "vehicle share %q range %s is inverted", vt, vr)
		check(vr.Min >= 0 && vr.Max <= 100, "vehicle share %q range %s outside [0,100]", vt, vr)
	}

	check(r.IncidentCount.Min >= 0, "incident count range %s is negative", r.IncidentCount)
	check(r.IncidentCount.Max <= maxIncidentCount,
		"incident count range %s exceeds %d", r.IncidentCount, maxIncidentCount)
	check(r.IncidentID.Min >= 0, "incident id range %s is negative", r.IncidentID)
	check(r.IncidentID.Max <= maxIncidentID, "incident id range %s exceeds %d", r.IncidentID, maxIncidentID)
	check(r.IncidentMaxAge >= 0 && r.IncidentMaxAge <= maxIncidentMaxAge,
		"incident max age %s outside [0,%s]", r.IncidentMaxAge, maxIncidentMaxAge)
	check(r.HistoryDays >= 0 && r.HistoryDays <= maxTrendDays,
		"history days %d outside [0,%d]", r.HistoryDays, maxTrendDays)
	check(r.ForecastDays >= 0 && r.ForecastDays <= maxTrendDays,
		"forecast days %d outside [0,%d]", r.ForecastDays, maxTrendDays)
	check(r.PredictionSpread >= 0 && r.PredictionSpread < 1,
		"prediction spread %g outside [0,1)", r.PredictionSpread)

	return errors.Join(errs...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
