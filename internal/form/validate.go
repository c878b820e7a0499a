package form

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smarttransit/schedule-admin/pkg/geo"
	"github.com/smarttransit/schedule-admin/pkg/validator"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// FieldError describes one invalid field of a draft
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every invalid field of a draft in form order
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, fe := range v {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// For returns the message for field, or "" when the field is valid
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var contactValidator = validator.NewContactValidator()

// Validate checks the draft the way the form's required/min constraints do.
// Only the locations of named intermediate stops are checked because blank
// ones are dropped on submit.
func Validate(d Draft) error {
	var errs ValidationErrors
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	r := d.Record

	if blank(r.Operator.Name) {
		add("operator.name", "operator name is required")
	}
	if !r.Operator.Type.IsValid() {
		add("operator.type", "operator type must be Private or CTB")
	}
	if _, _, err := contactValidator.Validate(r.Operator.ContactInfo); err != nil {
		add("operator.contact_info", "contact info: "+err.Error())
	}

	if blank(r.Bus.BusNumber) {
		add("bus.bus_number", "bus number is required")
	}
	if !r.Bus.Type.IsValid() {
		add("bus.type", "bus type must be AC, Non-AC, Express or Local")
	}
	if math.IsNaN(r.Bus.Fare) || math.IsInf(r.Bus.Fare, 0) || r.Bus.Fare < 0 {
		add("bus.fare", "fare must be zero or more")
	}

	if blank(r.Route.Name) {
		add("route.name", "route name is required")
	}
	if blank(r.Route.SourceStop.Name) {
		add("route.source_stop.name", "source stop name is required")
	}
	if blank(r.Route.SourceStop.City) {
		add("route.source_stop.city", "source stop city is required")
	}
	if blank(r.Route.DestinationStop.Name) {
		add("route.destination_stop.name", "destination stop name is required")
	}
	if blank(r.Route.DestinationStop.City) {
		add("route.destination_stop.city", "destination stop city is required")
	}
	checkLocation := func(field, point string) {
		if !geo.IsPoint(point) {
			add(field, "location must be POINT(<longitude> <latitude>)")
			return
		}
		if lng, lat := geo.Decode(point); !geo.InRange(lat, lng) {
			add(field, "latitude must be within ±90 and longitude within ±180")
		}
	}
	checkLocation("route.source_stop.location", r.Route.SourceStop.Location)
	checkLocation("route.destination_stop.location", r.Route.DestinationStop.Location)
	for i, stop := range d.IntermediateStops {
		if !blank(stop.Name) {
			checkLocation("route.stops["+strconv.Itoa(i)+"].location", stop.Location)
		}
	}

	if r.Route.TotalDistance < 0 {
		add("route.total_distance", "total distance must be zero or more")
	}
	if r.Route.TotalDuration < 0 {
		add("route.total_duration", "total duration must be zero or more")
	}

	validFrom, err := time.Parse(dateLayout, r.Schedule.ValidFrom)
	if err != nil {
		add("schedule.valid_from", "valid from must be a date (YYYY-MM-DD)")
	}
	if !blank(r.Schedule.ValidUntil) {
		validUntil, err := time.Parse(dateLayout, r.Schedule.ValidUntil)
		if err != nil {
			add("schedule.valid_until", "valid until must be a date (YYYY-MM-DD)")
		} else if !validFrom.IsZero() && validUntil.Before(validFrom) {
			add("schedule.valid_until", "valid until cannot be before valid from")
		}
	}

	if len(r.Schedule.Journeys) == 0 {
		add("schedule.journeys", "at least one journey is required")
	}
	for i, j := range r.Schedule.Journeys {
		if !isTimeOfDay(j.DepartureTime) {
			add(journeyField(i, JourneyFieldDepartureTime), "departure time must be HH:MM")
		}
		if !isTimeOfDay(j.ArrivalTime) {
			add(journeyField(i, JourneyFieldArrivalTime), "arrival time must be HH:MM")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isTimeOfDay(s string) bool {
	if _, err := time.Parse(timeLayout, s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

func journeyField(index int, field string) string {
	return "schedule.journeys[" + strconv.Itoa(index) + "]." + field
}
