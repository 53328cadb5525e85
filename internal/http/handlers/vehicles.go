package handlers

import (
	"net/http"
	"strings"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/repositories"

	"github.com/gin-gonic/gin"
)

type vehiclePayload struct {
	Registration string `json:"registration" binding:"required"`
	DriverName   string `json:"driverName"`
	DriverPhone  string `json:"driverPhone"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func (p *vehiclePayload) normalize() error {
	p.Registration = strings.TrimSpace(p.Registration)
	if p.Registration == "" {
		return domain.ValidationError{Field: "registration", Msg: "is required"}
	}
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))
	if p.Status == "" {
		p.Status = string(domain.StatusActive)
	}
	if !domain.ValidStatus(p.Status) {
		return domain.ValidationError{Field: "status", Msg: "must be active, inactive or maintenance"}
	}
	return nil
}

// GET /api/vehicles?q=CA&status=active
func GetVehicles(c *gin.Context) {
	repo := repositories.VehicleRepository{}
	list, err := repo.List(c.Query("q"), c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.VehicleRepository{}
	v, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if err := payload.normalize(); err != nil {
		RespondDomainError(c, err)
		return
	}

	repo := repositories.VehicleRepository{}
	v, err := repo.Create(repositories.Vehicle{
		Registration: payload.Registration,
		DriverName:   strings.TrimSpace(payload.DriverName),
		DriverPhone:  strings.TrimSpace(payload.DriverPhone),
		Status:       payload.Status,
		Notes:        payload.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if err := payload.normalize(); err != nil {
		RespondDomainError(c, err)
		return
	}

	repo := repositories.VehicleRepository{}
	v, err := repo.Update(id, repositories.Vehicle{
		Registration: payload.Registration,
		DriverName:   strings.TrimSpace(payload.DriverName),
		DriverPhone:  strings.TrimSpace(payload.DriverPhone),
		Status:       payload.Status,
		Notes:        payload.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /api/vehicles/:id
// Ledger entries cascade with the vehicle.
func DeleteVehicle(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.VehicleRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
