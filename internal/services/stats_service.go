package services

import (
	"sort"
	"time"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/repositories"
	"github.com/ces0491/fleet-manager/internal/utils"
)

const leaderboardSize = 5

// FleetAggregate is computed per request and never persisted.
type FleetAggregate struct {
	WeekStart          string       `json:"weekStart"`
	WeekEnd            string       `json:"weekEnd"`
	VehicleCount       int          `json:"vehicleCount"`
	ActiveVehicleCount int          `json:"activeVehicleCount"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TotalProfit        float64      `json:"totalProfit"`
	AverageMargin      float64      `json:"averageMargin"`
	TopPerformers      []TopVehicle `json:"topPerformers"`
}

type TopVehicle struct {
	Registration string  `json:"registration"`
	DriverName   string  `json:"driverName"`
	NetProfit    float64 `json:"netProfit"`
}

type TrendPoint struct {
	WeekStart  string  `json:"weekStart"`
	Revenue    float64 `json:"revenue"`
	Deductions float64 `json:"deductions"`
	Profit     float64 `json:"profit"`
	Margin     float64 `json:"margin"`
}

// StatsService computes fleet-wide summaries as a pure fold over the
// queried entry set. No running totals are cached between requests.
type StatsService struct {
	VehicleRepo repositories.VehicleRepository
	LedgerRepo  repositories.LedgerRepository
	Now         func() time.Time
}

func (s StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ResolveWindow turns optional week parameters into a concrete window.
// weekStart defaults to the Monday of the current week, weekEnd to the
// Sunday of the weekStart week.
func (s StatsService) ResolveWindow(weekStart, weekEnd string) (string, string, error) {
	var start time.Time
	if weekStart == "" {
		start = utils.MondayOf(s.now())
	} else {
		t, err := utils.ParseDate(weekStart)
		if err != nil {
			return "", "", domain.ValidationError{Field: "weekStart", Msg: "must be YYYY-MM-DD"}
		}
		start = t
	}

	var end time.Time
	if weekEnd == "" {
		end = utils.SundayOf(start)
	} else {
		t, err := utils.ParseDate(weekEnd)
		if err != nil {
			return "", "", domain.ValidationError{Field: "weekEnd", Msg: "must be YYYY-MM-DD"}
		}
		end = t
	}
	if end.Before(start) {
		return "", "", domain.ValidationError{Field: "weekEnd", Msg: "must not be before weekStart"}
	}
	return utils.FormatDate(start), utils.FormatDate(end), nil
}

// FleetStats aggregates the given week window across the whole roster.
func (s StatsService) FleetStats(weekStart string) (FleetAggregate, error) {
	start, end, err := s.ResolveWindow(weekStart, "")
	if err != nil {
		return FleetAggregate{}, err
	}

	vehicles, err := s.VehicleRepo.List("", "")
	if err != nil {
		return FleetAggregate{}, err
	}
	entries, err := s.LedgerRepo.List(repositories.LedgerFilter{WeekStart: start, WeekEnd: end})
	if err != nil {
		return FleetAggregate{}, err
	}

	return buildAggregate(start, end, vehicles, entries), nil
}

// buildAggregate folds vehicles and window entries into the summary.
// Vehicles without a submission still count toward fleet size.
func buildAggregate(start, end string, vehicles []repositories.Vehicle, entries []repositories.LedgerEntry) FleetAggregate {
	agg := FleetAggregate{
		WeekStart:     start,
		WeekEnd:       end,
		VehicleCount:  len(vehicles),
		TopPerformers: []TopVehicle{},
	}

	byID := make(map[int64]repositories.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
		if v.Status == string(domain.StatusActive) {
			agg.ActiveVehicleCount++
		}
	}

	for _, e := range entries {
		agg.TotalRevenue += e.TotalRevenue
		agg.TotalProfit += e.NetProfit
	}
	agg.AverageMargin = domain.MarginOf(agg.TotalRevenue, agg.TotalProfit)

	// rank by net profit; stable sort keeps insertion order on ties
	ranked := make([]repositories.LedgerEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetProfit > ranked[j].NetProfit
	})
	for _, e := range ranked {
		if len(agg.TopPerformers) == leaderboardSize {
			break
		}
		v, ok := byID[e.VehicleID]
		if !ok {
			continue
		}
		agg.TopPerformers = append(agg.TopPerformers, TopVehicle{
			Registration: v.Registration,
			DriverName:   v.DriverName,
			NetProfit:    e.NetProfit,
		})
	}

	return agg
}

// Trend returns up to weeks recent entries, oldest first, optionally
// filtered to one vehicle. Used for time-series charts, not ranking.
func (s StatsService) Trend(vehicleID int64, weeks int) ([]TrendPoint, error) {
	if weeks <= 0 {
		return nil, domain.ValidationError{Field: "weeks", Msg: "must be positive"}
	}
	if vehicleID > 0 {
		if _, err := s.VehicleRepo.GetByID(vehicleID); err != nil {
			return nil, err
		}
	}

	entries, err := s.LedgerRepo.ListRecent(vehicleID, weeks)
	if err != nil {
		return nil, err
	}

	out := make([]TrendPoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		out = append(out, TrendPoint{
			WeekStart:  e.WeekStart,
			Revenue:    e.TotalRevenue,
			Deductions: e.TotalDeductions,
			Profit:     e.NetProfit,
			Margin:     e.ProfitMargin,
		})
	}
	return out, nil
}
