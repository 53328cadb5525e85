package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ces0491/fleet-manager/internal/services"

	"github.com/gin-gonic/gin"
)

const defaultTrendWeeks = 12

// GET /api/stats/fleet?weekStart=
func GetFleetStats(c *gin.Context) {
	svc := services.StatsService{}
	agg, err := svc.FleetStats(strings.TrimSpace(c.Query("weekStart")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

// GET /api/stats/trend?vehicleId=&weeks=
func GetTrend(c *gin.Context) {
	var vehicleID int64
	if s := strings.TrimSpace(c.Query("vehicleId")); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid vehicleId", nil)
			return
		}
		vehicleID = id
	}

	weeks := defaultTrendWeeks
	if s := strings.TrimSpace(c.Query("weeks")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid weeks", nil)
			return
		}
		weeks = n
	}

	svc := services.StatsService{}
	points, err := svc.Trend(vehicleID, weeks)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}
