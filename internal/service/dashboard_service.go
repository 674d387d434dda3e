package service

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/smartcity/corridor/internal/domain"
)

// ErrInvalidFilter is returned when a page selector has an unknown value
var ErrInvalidFilter = errors.New("invalid filter")

var (
	trendRanges      = []string{"day", "week", "month"}
	congestionRanges = []string{"realtime", "day", "week"}
)

const defaultSliderHour = 12

// GenerationObserver is notified every time a generator runs
type GenerationObserver interface {
	Generated(kind string)
}

type nopObserver struct{}

func (nopObserver) Generated(string) {}

// DashboardService composes generator output into dashboard pages
type DashboardService struct {
	gen *Generator
	obs GenerationObserver
	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(gen *Generator, obs GenerationObserver) *DashboardService {
	if obs == nil {
		obs = nopObserver{}
	}
	return &DashboardService{gen: gen, obs: obs, now: gen.now}
}

// Topology returns the corridor description
func (s *DashboardService) Topology() domain.Topology {
	return domain.CorridorTopology()
}

// Flow returns a fresh 24-hour flow series
func (s *DashboardService) Flow() []domain.FlowSample {
	s.obs.Generated("flow")
	return s.gen.Flow()
}

// Speed returns a fresh speed snapshot
func (s *DashboardService) Speed() []domain.SpeedSample {
	s.obs.Generated("speed")
	return s.gen.Speed()
}

// Congestion returns a fresh congestion snapshot
func (s *DashboardService) Congestion() []domain.CongestionSample {
	s.obs.Generated("congestion")
	return s.gen.Congestion()
}

// RealTimeStats returns fresh aggregate stats
func (s *DashboardService) RealTimeStats() domain.RealTimeStats {
	s.obs.Generated("stats")
	return s.gen.RealTimeStats()
}

// VehicleMix returns a fresh vehicle category mix
func (s *DashboardService) VehicleMix() []domain.VehicleShare {
	s.obs.Generated("vehicle_mix")
	return s.gen.VehicleMix()
}

// Incidents returns a fresh incident list
func (s *DashboardService) Incidents() []domain.Incident {
	s.obs.Generated("incidents")
	return s.gen.Incidents()
}

// History returns daily aggregates for the past month
func (s *DashboardService) History() []domain.TrendPoint {
	s.obs.Generated("history")
	return s.gen.History()
}

// Forecast returns daily aggregates for the coming week
func (s *DashboardService) Forecast() []domain.TrendPoint {
	s.obs.Generated("forecast")
	return s.gen.Forecast()
}

// SpeedHeatmap returns a fresh section x hour speed grid
func (s *DashboardService) SpeedHeatmap() []domain.SpeedCell {
	s.obs.Generated("speed_heatmap")
	return s.gen.SpeedHeatmap()
}

// CongestionTrend returns a fresh hourly congestion series
func (s *DashboardService) CongestionTrend() []domain.CongestionTrendPoint {
	s.obs.Generated("congestion_trend")
	return s.gen.CongestionTrend()
}

// GetDashboardData builds the overview page
func (s *DashboardService) GetDashboardData() domain.DashboardData {
	return domain.DashboardData{
		Stats:      s.RealTimeStats(),
		Flow:       s.Flow(),
		Congestion: congestionRows(s.Congestion()),
		Incidents:  incidentRows(s.Incidents()),
		Timestamp:  s.now(),
	}
}

// GetTrafficFlowView builds the traffic flow page. The filter is
// validated and echoed; it does not change the generated data.
func (s *DashboardService) GetTrafficFlowView(f domain.Filter) (domain.TrafficFlowView, error) {
	f, err := normalizeTrendFilter(f)
	if err != nil {
		return domain.TrafficFlowView{}, err
	}
	s.obs.Generated("flow_prediction")
	return domain.TrafficFlowView{
		Filter:     f,
		Flow:       s.gen.PredictFlow(s.Flow()),
		VehicleMix: s.VehicleMix(),
		Timestamp:  s.now(),
	}, nil
}

// GetSpeedView builds the speed analysis page
func (s *DashboardService) GetSpeedView(f domain.Filter) (domain.SpeedView, error) {
	f, err := normalizeTrendFilter(f)
	if err != nil {
		return domain.SpeedView{}, err
	}
	return domain.SpeedView{
		Filter:    f,
		Sections:  speedRows(s.Speed()),
		Heatmap:   s.SpeedHeatmap(),
		Timestamp: s.now(),
	}, nil
}

// GetCongestionView builds the congestion map page
func (s *DashboardService) GetCongestionView(f domain.Filter) (domain.CongestionView, error) {
	if f.Range == "" {
		f.Range = congestionRanges[0]
	}
	if !slices.Contains(congestionRanges, f.Range) {
		return domain.CongestionView{}, fmt.Errorf("%w: range %q", ErrInvalidFilter, f.Range)
	}
	if f.Road != "" {
		return domain.CongestionView{}, fmt.Errorf("%w: road selector is not available on this page", ErrInvalidFilter)
	}
	if f.Range == "realtime" {
		f.Hour = nil
	} else if f.Hour == nil {
		h := defaultSliderHour
		f.Hour = &h
	}
	if f.Hour != nil && (*f.Hour < 0 || *f.Hour >= domain.HoursPerDay) {
		return domain.CongestionView{}, fmt.Errorf("%w: hour %d", ErrInvalidFilter, *f.Hour)
	}

	return domain.CongestionView{
		Filter:           f,
		Sections:         congestionRows(s.Congestion()),
		Links:            domain.Links(),
		Trend:            s.CongestionTrend(),
		WarningThreshold: domain.CongestionWarningThreshold,
		Timestamp:        s.now(),
	}, nil
}

func normalizeTrendFilter(f domain.Filter) (domain.Filter, error) {
	if f.Range == "" {
		f.Range = trendRanges[0]
	}
	if !slices.Contains(trendRanges, f.Range) {
		return f, fmt.Errorf("%w: range %q", ErrInvalidFilter, f.Range)
	}
	if f.Road == "" {
		f.Road = string(domain.RoadSections()[0])
	}
	if !domain.IsRoadSection(f.Road) {
		return f, fmt.Errorf("%w: road %q", ErrInvalidFilter, f.Road)
	}
	if f.Hour != nil {
		return f, fmt.Errorf("%w: hour is not available on this page", ErrInvalidFilter)
	}
	return f, nil
}

func congestionRows(samples []domain.CongestionSample) []domain.CongestionRow {
	rows := make([]domain.CongestionRow, 0, len(samples))
	for _, c := range samples {
		rows = append(rows, domain.CongestionRow{
			CongestionSample: c,
			Tier:             domain.ClassifyCongestion(c.Index),
			StatusLabel:      c.Status.Label(),
			StatusTone:       c.Status.Tone(),
		})
	}
	return rows
}

func speedRows(samples []domain.SpeedSample) []domain.SpeedRow {
	rows := make([]domain.SpeedRow, 0, len(samples))
	for _, sp := range samples {
		ratio := domain.SpeedRatio(sp.Speed, sp.FreeFlowSpeed)
		rows = append(rows, domain.SpeedRow{
			SpeedSample: sp,
			Ratio:       ratio,
			Tier:        domain.ClassifySpeedRatio(ratio),
		})
	}
	return rows
}

func incidentRows(incidents []domain.Incident) []domain.IncidentRow {
	rows := make([]domain.IncidentRow, 0, len(incidents))
	for _, in := range incidents {
		rows = append(rows, domain.IncidentRow{
			Incident:      in,
			SeverityColor: in.Severity.Color(),
			StatusTone:    in.Status.Tone(),
		})
	}
	return rows
}
