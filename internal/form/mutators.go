package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/geo"
)

// Journey field names accepted by SetJourneyField
const (
	JourneyFieldDepartureTime = "departure_time"
	JourneyFieldArrivalTime   = "arrival_time"
	JourneyFieldDaysOfWeek    = "days_of_week"
	JourneyFieldStopTimes     = "stop_times"
)

// IsJourneyField reports whether field is one of the journey fields.
// Callers use it to reject unknown fields before reaching SetJourneyField.
func IsJourneyField(field string) bool {
	switch field {
	case JourneyFieldDepartureTime, JourneyFieldArrivalTime, JourneyFieldDaysOfWeek, JourneyFieldStopTimes:
		return true
	}
	return false
}

// SetField replaces one top-level field of the operator, bus, route or schedule section
func SetField(d Draft, section Section, field string, value any) (Draft, error) {
	switch section {
	case SectionOperator:
		op := d.Record.Operator
		s, err := toString(value)
		if err != nil {
			return d, fieldError(section, field, err)
		}
		switch field {
		case "name":
			op.Name = s
		case "contact_info":
			op.ContactInfo = s
		case "type":
			op.Type = models.OperatorType(s)
		default:
			return d, fieldError(section, field, ErrUnknownField)
		}
		d.Record.Operator = op

	case SectionBus:
		bus := d.Record.Bus
		switch field {
		case "bus_number", "name", "type":
			s, err := toString(value)
			if err != nil {
				return d, fieldError(section, field, err)
			}
			switch field {
			case "bus_number":
				bus.BusNumber = s
			case "name":
				bus.Name = s
			default:
				bus.Type = models.BusType(s)
			}
		case "fare":
			fare, err := toFloat(value)
			if err != nil {
				return d, fieldError(section, field, err)
			}
			bus.Fare = fare
		default:
			return d, fieldError(section, field, ErrUnknownField)
		}
		d.Record.Bus = bus

	case SectionRoute:
		route := d.Record.Route
		switch field {
		case "name":
			s, err := toString(value)
			if err != nil {
				return d, fieldError(section, field, err)
			}
			route.Name = s
		case "total_distance", "total_duration":
			n, err := toInt(value)
			if err != nil {
				return d, fieldError(section, field, err)
			}
			if field == "total_distance" {
				route.TotalDistance = n
			} else {
				route.TotalDuration = n
			}
		default:
			return d, fieldError(section, field, ErrUnknownField)
		}
		d.Record.Route = route

	case SectionSchedule:
		schedule := d.Record.Schedule
		s, err := toString(value)
		if err != nil {
			return d, fieldError(section, field, err)
		}
		switch field {
		case "valid_from":
			schedule.ValidFrom = strings.TrimSpace(s)
		case "valid_until":
			schedule.ValidUntil = strings.TrimSpace(s)
		default:
			return d, fieldError(section, field, ErrUnknownField)
		}
		d.Record.Schedule = schedule

	default:
		return d, fmt.Errorf("section %q: %w", section, ErrUnknownField)
	}

	return d, nil
}

// SetNestedField replaces one field of the source or destination stop under the route
func SetNestedField(d Draft, section Section, subsection Subsection, field string, value any) (Draft, error) {
	if section != SectionRoute {
		return d, fmt.Errorf("section %q has no subsection %q: %w", section, subsection, ErrUnknownField)
	}

	route := d.Record.Route
	switch subsection {
	case SubsectionSourceStop:
		stop, err := setStopField(route.SourceStop, field, value)
		if err != nil {
			return d, fieldError(section, string(subsection)+"."+field, err)
		}
		route.SourceStop = stop
	case SubsectionDestinationStop:
		stop, err := setStopField(route.DestinationStop, field, value)
		if err != nil {
			return d, fieldError(section, string(subsection)+"."+field, err)
		}
		route.DestinationStop = stop
	default:
		return d, fmt.Errorf("subsection %q: %w", subsection, ErrUnknownField)
	}

	d.Record.Route = route
	return d, nil
}

// SetJourneyField replaces one field of the journey at index.
// A field outside the journey fields leaves the draft unchanged.
func SetJourneyField(d Draft, index int, field string, value any) (Draft, error) {
	if !IsJourneyField(field) {
		return d, nil
	}

	journeys := d.Record.Schedule.Journeys
	if index < 0 || index >= len(journeys) {
		return d, fmt.Errorf("journey %d: %w", index, ErrIndexOutOfRange)
	}

	journey := journeys[index]
	switch field {
	case JourneyFieldDepartureTime, JourneyFieldArrivalTime:
		s, err := toString(value)
		if err != nil {
			return d, fmt.Errorf("journey %d %s: %w", index, field, err)
		}
		if field == JourneyFieldDepartureTime {
			journey.DepartureTime = s
		} else {
			journey.ArrivalTime = s
		}
	case JourneyFieldDaysOfWeek:
		days, ok := value.([]string)
		if !ok {
			return d, fmt.Errorf("journey %d %s: %w", index, field, ErrInvalidValue)
		}
		normalized, err := normalizeDays(days)
		if err != nil {
			return d, fmt.Errorf("journey %d %s: %w", index, field, err)
		}
		journey.DaysOfWeek = normalized
	case JourneyFieldStopTimes:
		stopTimes, ok := value.([]models.StopTime)
		if !ok {
			return d, fmt.Errorf("journey %d %s: %w", index, field, ErrInvalidValue)
		}
		journey.StopTimes = append([]models.StopTime{}, stopTimes...)
	}

	return d.withJourney(index, journey), nil
}

// ToggleDay adds day to the journey's days if absent and removes it if present
func ToggleDay(d Draft, index int, day string) (Draft, error) {
	if !IsWeekday(day) {
		return d, fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}

	journeys := d.Record.Schedule.Journeys
	if index < 0 || index >= len(journeys) {
		return d, fmt.Errorf("journey %d: %w", index, ErrIndexOutOfRange)
	}

	journey := journeys[index]
	journey.DaysOfWeek = toggle(journey.DaysOfWeek, day)
	return d.withJourney(index, journey), nil
}

// AddIntermediateStop appends a blank stop after the existing intermediate stops
func AddIntermediateStop(d Draft) Draft {
	stops := make([]models.Stop, len(d.IntermediateStops), len(d.IntermediateStops)+1)
	copy(stops, d.IntermediateStops)
	d.IntermediateStops = append(stops, newIntermediateStop(len(stops)+FirstIntermediateSequence))
	return d
}

// SetStopField replaces the name, city or location of one intermediate stop
func SetStopField(d Draft, index int, field string, value any) (Draft, error) {
	if index < 0 || index >= len(d.IntermediateStops) {
		return d, fmt.Errorf("stop %d: %w", index, ErrIndexOutOfRange)
	}

	stop, err := setStopField(d.IntermediateStops[index], field, value)
	if err != nil {
		return d, fmt.Errorf("stop %d %s: %w", index, field, err)
	}

	return d.withIntermediateStop(index, stop), nil
}

// RemoveStop removes one intermediate stop and re-packs the remaining sequences to 2, 3, ...
func RemoveStop(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.IntermediateStops) {
		return d, fmt.Errorf("stop %d: %w", index, ErrIndexOutOfRange)
	}

	stops := make([]models.Stop, 0, len(d.IntermediateStops)-1)
	stops = append(stops, d.IntermediateStops[:index]...)
	stops = append(stops, d.IntermediateStops[index+1:]...)
	d.IntermediateStops = resequence(stops)
	return d, nil
}

// SetLocation stores the encoded point for the source, destination or an intermediate stop
func SetLocation(d Draft, kind LocationKind, index *int, lat, lng float64) (Draft, error) {
	if !geo.IsFinite(lat) || !geo.IsFinite(lng) {
		return d, fmt.Errorf("location: %w", ErrInvalidValue)
	}
	point := geo.Encode(lat, lng)

	switch kind {
	case LocationSource:
		return SetNestedField(d, SectionRoute, SubsectionSourceStop, "location", point)
	case LocationDestination:
		return SetNestedField(d, SectionRoute, SubsectionDestinationStop, "location", point)
	case LocationIntermediate:
		if index == nil {
			return d, ErrIndexRequired
		}
		return SetStopField(d, *index, "location", point)
	default:
		return d, fmt.Errorf("location kind %q: %w", kind, ErrUnknownField)
	}
}

// Location returns the current point text of the targeted stop
func Location(d Draft, kind LocationKind, index *int) (string, error) {
	switch kind {
	case LocationSource:
		return d.Record.Route.SourceStop.Location, nil
	case LocationDestination:
		return d.Record.Route.DestinationStop.Location, nil
	case LocationIntermediate:
		if index == nil {
			return "", ErrIndexRequired
		}
		if *index < 0 || *index >= len(d.IntermediateStops) {
			return "", fmt.Errorf("stop %d: %w", *index, ErrIndexOutOfRange)
		}
		return d.IntermediateStops[*index].Location, nil
	default:
		return "", fmt.Errorf("location kind %q: %w", kind, ErrUnknownField)
	}
}

// SetLatitude updates the latitude of a stop and keeps its current longitude
func SetLatitude(d Draft, kind LocationKind, index *int, lat float64) (Draft, error) {
	current, err := Location(d, kind, index)
	if err != nil {
		return d, err
	}
	lng, _ := geo.Decode(current)
	return SetLocation(d, kind, index, lat, lng)
}

// SetLongitude updates the longitude of a stop and keeps its current latitude
func SetLongitude(d Draft, kind LocationKind, index *int, lng float64) (Draft, error) {
	current, err := Location(d, kind, index)
	if err != nil {
		return d, err
	}
	_, lat := geo.Decode(current)
	return SetLocation(d, kind, index, lat, lng)
}

func (d Draft) withJourney(index int, journey models.Journey) Draft {
	journeys := make([]models.Journey, len(d.Record.Schedule.Journeys))
	copy(journeys, d.Record.Schedule.Journeys)
	journeys[index] = journey

	schedule := d.Record.Schedule
	schedule.Journeys = journeys
	d.Record.Schedule = schedule
	return d
}

func (d Draft) withIntermediateStop(index int, stop models.Stop) Draft {
	stops := make([]models.Stop, len(d.IntermediateStops))
	copy(stops, d.IntermediateStops)
	stops[index] = stop
	d.IntermediateStops = stops
	return d
}

func setStopField(stop models.Stop, field string, value any) (models.Stop, error) {
	s, err := toString(value)
	if err != nil {
		return stop, err
	}

	switch field {
	case "name":
		stop.Name = s
	case "city":
		stop.City = s
	case "location":
		if !geo.IsPoint(s) {
			return stop, ErrInvalidValue
		}
		stop.Location = s
	default:
		return stop, ErrUnknownField
	}
	return stop, nil
}

// resequence numbers stops 2, 3, 4, ... in list order; it writes into stops
func resequence(stops []models.Stop) []models.Stop {
	for i := range stops {
		stops[i].Sequence = i + FirstIntermediateSequence
	}
	return stops
}

func fieldError(section Section, field string, err error) error {
	return fmt.Errorf("%s.%s: %w", section, field, err)
}

func toString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", ErrInvalidValue
	}
	return s, nil
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, ErrInvalidValue
		}
		return n, nil
	}
	return 0, ErrInvalidValue
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, ErrInvalidValue
		}
		return f, nil
	}
	return 0, ErrInvalidValue
}
