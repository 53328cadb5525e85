package services

import (
	"fmt"
	"time"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/repositories"
	"github.com/ces0491/fleet-manager/internal/utils"
)

// WeeklyEntryInput carries one vehicle-week submission. Derived figures
// are never part of the input; they are recomputed on every write.
type WeeklyEntryInput struct {
	VehicleID int64  `json:"vehicleId"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`

	CashCollected       float64 `json:"cashCollected"`
	OnlineEarnings      float64 `json:"onlineEarnings"`
	DieselExpense       float64 `json:"dieselExpense"`
	TollsParkingExpense float64 `json:"tollsParkingExpense"`
	MaintenanceExpense  float64 `json:"maintenanceExpense"`
	OtherExpense        float64 `json:"otherExpense"`

	TripCount  *int     `json:"tripCount,omitempty"`
	DistanceKM *float64 `json:"distanceKm,omitempty"`
	AvgRating  *float64 `json:"avgRating,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// LedgerService validates weekly submissions, derives financial figures
// and upserts them keyed by (vehicle, week start). Concurrent writes to
// the same key are last-writer-wins; there is no version field.
type LedgerService struct {
	VehicleRepo repositories.VehicleRepository
	LedgerRepo  repositories.LedgerRepository
	RequestID   string
	Now         func() time.Time
}

func (s LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Upsert validates and persists one weekly submission for submittedBy.
func (s LedgerService) Upsert(in WeeklyEntryInput, submittedBy int64) (repositories.LedgerEntry, error) {
	start, err := utils.ParseDate(in.WeekStart)
	if err != nil {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "weekStart", Msg: "must be YYYY-MM-DD"}
	}
	end, err := utils.ParseDate(in.WeekEnd)
	if err != nil {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "weekEnd", Msg: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "weekEnd", Msg: "must not be before weekStart"}
	}

	if err := validateAmounts(in); err != nil {
		return repositories.LedgerEntry{}, err
	}
	if in.TripCount != nil && *in.TripCount < 0 {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "tripCount", Msg: "must not be negative"}
	}
	if in.DistanceKM != nil && *in.DistanceKM < 0 {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "distanceKm", Msg: "must not be negative"}
	}
	if in.AvgRating != nil && (*in.AvgRating < 0 || *in.AvgRating > 5) {
		return repositories.LedgerEntry{}, domain.ValidationError{Field: "avgRating", Msg: "must be between 0 and 5"}
	}

	if _, err := s.VehicleRepo.GetByID(in.VehicleID); err != nil {
		return repositories.LedgerEntry{}, err
	}

	figures := domain.ComputeWeekly(
		in.CashCollected, in.OnlineEarnings,
		in.DieselExpense, in.TollsParkingExpense, in.MaintenanceExpense, in.OtherExpense,
	)

	entry := repositories.LedgerEntry{
		VehicleID: in.VehicleID,
		WeekStart: utils.FormatDate(start),
		WeekEnd:   utils.FormatDate(end),

		CashCollected:       in.CashCollected,
		OnlineEarnings:      in.OnlineEarnings,
		DieselExpense:       in.DieselExpense,
		TollsParkingExpense: in.TollsParkingExpense,
		MaintenanceExpense:  in.MaintenanceExpense,
		OtherExpense:        in.OtherExpense,

		TotalRevenue:    figures.TotalRevenue,
		TotalDeductions: figures.TotalDeductions,
		NetProfit:       figures.NetProfit,
		ProfitMargin:    figures.ProfitMargin,

		TripCount:   in.TripCount,
		DistanceKM:  in.DistanceKM,
		AvgRating:   in.AvgRating,
		Notes:       in.Notes,
		SubmittedBy: submittedBy,
	}

	saved, err := s.LedgerRepo.Upsert(entry, s.now())
	if err != nil {
		return repositories.LedgerEntry{}, err
	}

	utils.LogEvent(s.RequestID, "ledger", "upsert",
		fmt.Sprintf("vehicle_id=%d week_start=%s net_profit=%s", saved.VehicleID, saved.WeekStart, utils.FormatMoney(saved.NetProfit)))
	return saved, nil
}

// List returns entries matching the optional vehicle and week window.
func (s LedgerService) List(f repositories.LedgerFilter) ([]repositories.LedgerEntry, error) {
	if f.WeekStart != "" {
		if _, err := utils.ParseDate(f.WeekStart); err != nil {
			return nil, domain.ValidationError{Field: "weekStart", Msg: "must be YYYY-MM-DD"}
		}
	}
	if f.WeekEnd != "" {
		if _, err := utils.ParseDate(f.WeekEnd); err != nil {
			return nil, domain.ValidationError{Field: "weekEnd", Msg: "must be YYYY-MM-DD"}
		}
	}
	return s.LedgerRepo.List(f)
}

// Delete removes one entry by id.
func (s LedgerService) Delete(id int64) error {
	if err := s.LedgerRepo.Delete(id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "ledger", "delete", fmt.Sprintf("entry_id=%d", id))
	return nil
}

func validateAmounts(in WeeklyEntryInput) error {
	amounts := []struct {
		field string
		value float64
	}{
		{"cashCollected", in.CashCollected},
		{"onlineEarnings", in.OnlineEarnings},
		{"dieselExpense", in.DieselExpense},
		{"tollsParkingExpense", in.TollsParkingExpense},
		{"maintenanceExpense", in.MaintenanceExpense},
		{"otherExpense", in.OtherExpense},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return domain.ValidationError{Field: a.field, Msg: "must not be negative"}
		}
	}
	return nil
}
