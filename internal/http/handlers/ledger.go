package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ces0491/fleet-manager/internal/http/middleware"
	"github.com/ces0491/fleet-manager/internal/repositories"
	"github.com/ces0491/fleet-manager/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/ledger/weekly
// Upserts one vehicle-week. Re-submitting the same (vehicle, weekStart)
// overwrites the stored entry in full and refreshes provenance.
func UpsertWeeklyEntry(c *gin.Context) {
	var in services.WeeklyEntryInput
	if !BindJSONOrError(c, &in) {
		return
	}

	svc := services.LedgerService{RequestID: middleware.GetRequestID(c)}
	entry, err := svc.Upsert(in, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GET /api/ledger/weekly?vehicleId=&weekStart=&weekEnd=
func GetWeeklyEntries(c *gin.Context) {
	var filter repositories.LedgerFilter
	if s := strings.TrimSpace(c.Query("vehicleId")); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid vehicleId", nil)
			return
		}
		filter.VehicleID = id
	}
	filter.WeekStart = strings.TrimSpace(c.Query("weekStart"))
	filter.WeekEnd = strings.TrimSpace(c.Query("weekEnd"))

	svc := services.LedgerService{RequestID: middleware.GetRequestID(c)}
	entries, err := svc.List(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DELETE /api/ledger/weekly/:id
func DeleteWeeklyEntry(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.LedgerService{RequestID: middleware.GetRequestID(c)}
	if err := svc.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ledger entry deleted"})
}
