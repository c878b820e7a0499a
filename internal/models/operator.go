package models

// OperatorType represents who runs the service
type OperatorType string

const (
	OperatorTypePrivate OperatorType = "Private"
	OperatorTypeCTB     OperatorType = "CTB" // Ceylon Transport Board
)

// OperatorTypes lists the operator types in form display order
var OperatorTypes = []OperatorType{OperatorTypePrivate, OperatorTypeCTB}

// IsValid checks if the operator type is one of the known values
func (t OperatorType) IsValid() bool {
	for _, known := range OperatorTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Operator represents the company or authority operating a bus
type Operator struct {
	Name        string       `json:"name"`
	ContactInfo string       `json:"contact_info"`
	Type        OperatorType `json:"type"`
}
