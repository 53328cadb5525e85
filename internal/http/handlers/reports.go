package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ces0491/fleet-manager/internal/http/middleware"
	"github.com/ces0491/fleet-manager/internal/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func reportsService(c *gin.Context) services.ReportsService {
	return services.ReportsService{RequestID: middleware.GetRequestID(c)}
}

func sendAttachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// GET /api/reports/weekly?weekStart=&weekEnd=
// Streams the fleet-wide weekly workbook. Nothing is persisted server-side.
func GetWeeklyReport(c *gin.Context) {
	svc := reportsService(c)
	data, filename, err := svc.WeeklyFleetReport(
		strings.TrimSpace(c.Query("weekStart")),
		strings.TrimSpace(c.Query("weekEnd")),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendAttachment(c, xlsxContentType, filename, data)
}

// GET /api/reports/vehicle/:id?startDate=&endDate=
// Both dates are required; an unknown vehicle fails the whole request
// before any bytes are produced.
func GetVehicleReport(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := reportsService(c)
	data, filename, err := svc.VehicleHistoryReport(
		id,
		strings.TrimSpace(c.Query("startDate")),
		strings.TrimSpace(c.Query("endDate")),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendAttachment(c, xlsxContentType, filename, data)
}

// GET /api/reports/weekly/pdf?weekStart=
func GetWeeklySummaryPDF(c *gin.Context) {
	svc := reportsService(c)
	data, filename, err := svc.WeeklySummaryPDF(strings.TrimSpace(c.Query("weekStart")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendAttachment(c, "application/pdf", filename, data)
}
