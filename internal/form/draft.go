// Package form holds the schedule-creation draft and the pure operations
// that move it from one state to the next.
//
// A Draft is a value. Every mutator takes the current Draft and returns the
// next one, copying only the path from the root to the changed leaf; slices
// that are not on that path are shared with the previous Draft and are never
// written through.
package form

import (
	"errors"

	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/geo"
)

var (
	// ErrUnknownField indicates a section, subsection or field name the draft does not have
	ErrUnknownField = errors.New("unknown form field")

	// ErrInvalidValue indicates a value that cannot be stored in the target field
	ErrInvalidValue = errors.New("invalid value for form field")

	// ErrIndexOutOfRange indicates a journey or stop index that does not exist
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIndexRequired indicates an intermediate-stop location update without an index
	ErrIndexRequired = errors.New("index is required for intermediate stops")

	// ErrUnknownDay indicates a day token outside Mon..Sun
	ErrUnknownDay = errors.New("unknown day of week")
)

// Section names a top-level part of the draft record
type Section string

const (
	SectionOperator Section = "operator"
	SectionBus      Section = "bus"
	SectionRoute    Section = "route"
	SectionSchedule Section = "schedule"
)

// Subsection names a stop nested under the route
type Subsection string

const (
	SubsectionSourceStop      Subsection = "source_stop"
	SubsectionDestinationStop Subsection = "destination_stop"
)

// LocationKind selects which stop a coordinate update targets
type LocationKind string

const (
	LocationSource       LocationKind = "source"
	LocationDestination  LocationKind = "destination"
	LocationIntermediate LocationKind = "intermediate"
)

// FirstIntermediateSequence is the sequence of the first intermediate stop; the source is 1
const FirstIntermediateSequence = 2

// Draft is the state of one schedule-creation form
type Draft struct {
	Record            models.ScheduleCreateRequest `json:"record"`
	IntermediateStops []models.Stop                `json:"intermediate_stops"`
}

// New returns the draft a freshly mounted form starts with
func New() Draft {
	days := make([]string, len(models.Weekdays))
	copy(days, models.Weekdays)

	return Draft{
		Record: models.ScheduleCreateRequest{
			Operator: models.Operator{
				Type: models.OperatorTypePrivate,
			},
			Bus: models.Bus{
				Type: models.BusTypeNonAC,
			},
			Route: models.Route{
				SourceStop:      models.Stop{Location: geo.Default},
				DestinationStop: models.Stop{Location: geo.Default},
				Stops:           []models.Stop{},
			},
			Schedule: models.ScheduleInput{
				Journeys: []models.Journey{{
					DaysOfWeek: days,
					StopTimes:  []models.StopTime{},
				}},
			},
		},
		IntermediateStops: []models.Stop{newIntermediateStop(FirstIntermediateSequence)},
	}
}

func newIntermediateStop(sequence int) models.Stop {
	return models.Stop{Location: geo.Default, Sequence: sequence}
}
