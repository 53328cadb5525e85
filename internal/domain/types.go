package domain

// ID is used across domain entities.
type ID int64

// VehicleStatus is the lifecycle state of a fleet vehicle.
type VehicleStatus string

const (
	StatusActive      VehicleStatus = "active"
	StatusInactive    VehicleStatus = "inactive"
	StatusMaintenance VehicleStatus = "maintenance"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s string) bool {
	switch VehicleStatus(s) {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}
