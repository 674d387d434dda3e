package service

import (
	"math"
	"strconv"
	"time"

	"github.com/smartcity/corridor/internal/domain"
)

// Generator produces synthetic corridor traffic data.
// It keeps no state between calls and is safe for concurrent use
// as long as its Rand is.
type Generator struct {
	rnd    Rand
	now    func() time.Time
	ranges Ranges
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithClock overrides the time source used for incidents and daily trends
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithRanges overrides the sampling bounds
func WithRanges(r Ranges) GeneratorOption {
	return func(g *Generator) { g.ranges = r }
}

// NewGenerator creates a new generator drawing from rnd
func NewGenerator(rnd Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rnd:    rnd,
		now:    time.Now,
		ranges: DefaultRanges(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ranges returns the bounds the generator samples from
func (g *Generator) Ranges() Ranges {
	return g.ranges
}

// Flow generates the 24-hour traffic volume series
func (g *Generator) Flow() []domain.FlowSample {
	labels := domain.TimeBuckets()
	samples := make([]domain.FlowSample, 0, len(labels))
	for _, label := range labels {
		samples = append(samples, domain.FlowSample{
			Time:  label,
			Value: g.flowBaseline(label) + intBetween(g.rnd, g.ranges.FlowOffset.Min, g.ranges.FlowOffset.Max),
		})
	}
	return samples
}

// flowBaseline picks the volume band from the label's leading digit:
// "0x" is night, "1x" before 17:00 is day, everything else is evening.
func (g *Generator) flowBaseline(label string) int {
	hour, _ := strconv.Atoi(label[:2])
	switch {
	case label[0] == '0':
		return g.ranges.FlowNight
	case label[0] == '1' && hour < 17:
		return g.ranges.FlowDay
	default:
		return g.ranges.FlowEvening
	}
}

// PredictFlow overlays a predicted value within +/- PredictionSpread of each sample
func (g *Generator) PredictFlow(flow []domain.FlowSample) []domain.FlowComparison {
	spread := g.ranges.PredictionSpread
	out := make([]domain.FlowComparison, 0, len(flow))
	for _, s := range flow {
		factor := 1 + floatBetween(g.rnd, -spread, spread)
		out = append(out, domain.FlowComparison{
			Time:      s.Time,
			Actual:    s.Value,
			Predicted: float64(s.Value) * factor,
		})
	}
	return out
}

// Speed generates the current speed of every section
func (g *Generator) Speed() []domain.SpeedSample {
	sections := domain.RoadSections()
	samples := make([]domain.SpeedSample, 0, len(sections))
	for _, section := range sections {
		samples = append(samples, domain.SpeedSample{
			Section:       section,
			Speed:         intBetween(g.rnd, g.ranges.Speed.Min, g.ranges.Speed.Max),
			FreeFlowSpeed: domain.FreeFlowSpeed,
		})
	}
	return samples
}

// SpeedHeatmap generates hourly speeds for every section, section by section
func (g *Generator) SpeedHeatmap() []domain.SpeedCell {
	r := g.ranges.HeatmapSpeed
	cells := make([]domain.SpeedCell, 0, domain.SectionCount()*domain.HoursPerDay)
	for i := 0; i < domain.SectionCount(); i++ {
		for h := 0; h < domain.HoursPerDay; h++ {
			cells = append(cells, domain.SpeedCell{
				Hour:         h,
				SectionIndex: i,
				Speed:        int(math.Round(floatBetween(g.rnd, float64(r.Min), float64(r.Max)))),
			})
		}
	}
	return cells
}

// Congestion generates the congestion index and status of every section.
// Status is drawn independently of the index.
func (g *Generator) Congestion() []domain.CongestionSample {
	sections := domain.RoadSections()
	samples := make([]domain.CongestionSample, 0, len(sections))
	for _, section := range sections {
		samples = append(samples, domain.CongestionSample{
			Section: section,
			Index:   floatBetween(g.rnd, g.ranges.CongestionIndex.Min, g.ranges.CongestionIndex.Max),
			Status:  domain.CongestionStatus(intBetween(g.rnd, int(domain.StatusFree), int(domain.StatusSevere))),
		})
	}
	return samples
}

// CongestionTrend generates an hourly congestion index for the last day
func (g *Generator) CongestionTrend() []domain.CongestionTrendPoint {
	labels := domain.TimeBuckets()
	points := make([]domain.CongestionTrendPoint, 0, len(labels))
	for _, label := range labels {
		points = append(points, domain.CongestionTrendPoint{
			Time:  label,
			Index: floatBetween(g.rnd, g.ranges.HourlyCongestion.Min, g.ranges.HourlyCongestion.Max),
		})
	}
	return points
}

// RealTimeStats generates the corridor-wide snapshot
func (g *Generator) RealTimeStats() domain.RealTimeStats {
	r := g.ranges
	return domain.RealTimeStats{
		CurrentFlow:     intBetween(g.rnd, r.StatsFlow.Min, r.StatsFlow.Max),
		AverageSpeed:    floatBetween(g.rnd, r.StatsSpeed.Min, r.StatsSpeed.Max),
		CongestionIndex: floatBetween(g.rnd, r.StatsCongestion.Min, r.StatsCongestion.Max),
		TravelTime:      intBetween(g.rnd, r.StatsTravelTime.Min, r.StatsTravelTime.Max),
	}
}

// VehicleMix generates the share of each vehicle category.
// Shares are sampled independently and are not normalized to 100.
func (g *Generator) VehicleMix() []domain.VehicleShare {
	shares := make([]domain.VehicleShare, 0, len(domain.VehicleTypes))
	for _, vt := range domain.VehicleTypes {
		r := g.ranges.VehicleShares[vt]
		shares = append(shares, domain.VehicleShare{
			Type:       vt,
			Percentage: intBetween(g.rnd, r.Min, r.Max),
		})
	}
	return shares
}

// Incidents generates a list of recent incidents
func (g *Generator) Incidents() []domain.Incident {
	r := g.ranges
	now := g.now()
	sections := domain.RoadSections()
	maxAgeMs := int(r.IncidentMaxAge / time.Millisecond)

	n := intBetween(g.rnd, r.IncidentCount.Min, r.IncidentCount.Max)
	incidents := make([]domain.Incident, 0, n)
	for i := 0; i < n; i++ {
		age := time.Duration(intBetween(g.rnd, 0, maxAgeMs)) * time.Millisecond
		incidents = append(incidents, domain.Incident{
			ID:       intBetween(g.rnd, r.IncidentID.Min, r.IncidentID.Max),
			Location: pick(g.rnd, sections),
			Type:     pick(g.rnd, domain.IncidentTypes[:]),
			Severity: pick(g.rnd, domain.IncidentSeverities[:]),
			Time:     now.Add(-age),
			Status:   pick(g.rnd, domain.IncidentStatuses[:]),
		})
	}
	return incidents
}

// History generates daily aggregates for past days, most recent first
func (g *Generator) History() []domain.TrendPoint {
	return g.dailyTrend(g.ranges.HistoryDays, -1)
}

// Forecast generates daily aggregates for coming days, starting today
func (g *Generator) Forecast() []domain.TrendPoint {
	return g.dailyTrend(g.ranges.ForecastDays, 1)
}

func (g *Generator) dailyTrend(days, step int) []domain.TrendPoint {
	r := g.ranges
	today := g.now().UTC()
	points := make([]domain.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		points = append(points, domain.TrendPoint{
			Date:       today.AddDate(0, 0, i*step).Format(time.DateOnly),
			Flow:       intBetween(g.rnd, r.TrendFlow.Min, r.TrendFlow.Max),
			Speed:      intBetween(g.rnd, r.TrendSpeed.Min, r.TrendSpeed.Max),
			Congestion: floatBetween(g.rnd, r.TrendCongestion.Min, r.TrendCongestion.Max),
		})
	}
	return points
}
