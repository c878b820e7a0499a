package models

import "encoding/json"

// Weekday tokens used in days_of_week, in display order
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// StopTime is the arrival/departure of one journey at one route stop
type StopTime struct {
	RouteStopID   string  `json:"route_stop_id"`
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
}

// Journey is one departure of a schedule
type Journey struct {
	DepartureTime string     `json:"departure_time"` // HH:MM
	ArrivalTime   string     `json:"arrival_time"`   // HH:MM
	DaysOfWeek    []string   `json:"days_of_week"`
	StopTimes     []StopTime `json:"stop_times"`
}

// ScheduleInput holds the validity window and journeys of a new schedule
type ScheduleInput struct {
	ValidFrom  string    `json:"valid_from"`            // YYYY-MM-DD
	ValidUntil string    `json:"valid_until,omitempty"` // blank means open-ended
	Journeys   []Journey `json:"journeys"`
}

// ScheduleCreateRequest is the composite record posted to the bulk endpoint
type ScheduleCreateRequest struct {
	Operator Operator      `json:"operator"`
	Bus      Bus           `json:"bus"`
	Route    Route         `json:"route"`
	Schedule ScheduleInput `json:"schedule"`
}

// CreatedSchedule is one entry of the bulk create response
type CreatedSchedule struct {
	ScheduleID string `json:"schedule_id"`
}

// BulkCreateResponse is returned by POST /schedule/bulk
type BulkCreateResponse struct {
	Schedules []CreatedSchedule `json:"schedules"`
}

// StopTimeView is a per-stop timing as returned by the backend
type StopTimeView struct {
	ID            string  `json:"id"`
	RouteStopID   string  `json:"route_stop_id"`
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
}

// JourneyView is a journey as returned by the backend
type JourneyView struct {
	ID            string         `json:"id"`
	DepartureTime string         `json:"departure_time"`
	ArrivalTime   string         `json:"arrival_time"`
	DaysOfWeek    []string       `json:"days_of_week"`
	StopTimes     []StopTimeView `json:"stop_times"`
}

// Schedule is the denormalized read model of GET /schedule
type Schedule struct {
	ScheduleID    string        `json:"schedule_id"`
	ValidFrom     string        `json:"valid_from"`
	ValidUntil    *string       `json:"valid_until"`
	BusID         string        `json:"bus_id"`
	BusNumber     string        `json:"bus_number"`
	BusName       string        `json:"bus_name"`
	BusType       string        `json:"bus_type"`
	Fare          json.Number   `json:"fare"` // numeric column, may arrive quoted
	IsActive      bool          `json:"is_active"`
	OperatorID    string        `json:"operator_id"`
	OperatorName  string        `json:"operator_name"`
	ContactInfo   string        `json:"contact_info"`
	RouteID       string        `json:"route_id"`
	RouteName     string        `json:"route_name"`
	TotalDistance int           `json:"total_distance"`
	TotalDuration int           `json:"total_duration"`
	Stops         []RouteStop   `json:"stops"`
	Journeys      []JourneyView `json:"journeys"`
}

// FirstStop returns the source stop, or nil when the schedule carries no stops
func (s Schedule) FirstStop() *RouteStop {
	if len(s.Stops) == 0 {
		return nil
	}
	return &s.Stops[0]
}

// LastStop returns the destination stop, or nil when the schedule carries no stops
func (s Schedule) LastStop() *RouteStop {
	if len(s.Stops) == 0 {
		return nil
	}
	return &s.Stops[len(s.Stops)-1]
}

// ScheduleListResponse is one page of GET /schedule
type ScheduleListResponse struct {
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	Schedules []Schedule `json:"schedules"`
}
