package models

// BusType represents the service class of a bus
type BusType string

const (
	BusTypeAC      BusType = "AC"
	BusTypeNonAC   BusType = "Non-AC"
	BusTypeExpress BusType = "Express"
	BusTypeLocal   BusType = "Local"
)

// BusTypes lists the bus types in form display order
var BusTypes = []BusType{BusTypeAC, BusTypeNonAC, BusTypeExpress, BusTypeLocal}

// IsValid checks if the bus type is one of the known values
func (t BusType) IsValid() bool {
	for _, known := range BusTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Bus represents the vehicle a schedule runs with
type Bus struct {
	BusNumber string  `json:"bus_number"`
	Name      string  `json:"name"`
	Type      BusType `json:"type"`
	Fare      float64 `json:"fare"`
}
