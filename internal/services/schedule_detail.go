package services

import (
	"sort"

	"github.com/smarttransit/schedule-admin/internal/form"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/geo"
)

// StopDetail is one row of the route stop list in the detail panel
type StopDetail struct {
	Sequence      int     `json:"sequence"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	HasTiming     bool    `json:"has_timing"`
	ArrivalTime   *string `json:"arrival_time,omitempty"`
	DepartureTime *string `json:"departure_time,omitempty"`
}

// JourneyDetail is one journey row of the detail panel
type JourneyDetail struct {
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Days          string `json:"days"`
}

// ScheduleDetail is everything the detail panel and PDF export show
type ScheduleDetail struct {
	Schedule models.Schedule `json:"schedule"`
	Stops    []StopDetail    `json:"stops"`
	Journeys []JourneyDetail `json:"journeys"`
}

// stopTimingKey scopes a stop timing to its schedule so that equal
// route_stop_ids in different schedules never match each other
type stopTimingKey struct {
	scheduleID  string
	routeStopID string
}

// BuildScheduleDetail sorts the schedule's stops by sequence and attaches
// the first journey's timing for each stop, when one exists. Timings match on
// route_stop_id only; the first timing listed for a route stop wins.
func BuildScheduleDetail(s models.Schedule) ScheduleDetail {
	timings := make(map[stopTimingKey]models.StopTimeView)
	if len(s.Journeys) > 0 {
		for _, st := range s.Journeys[0].StopTimes {
			if st.RouteStopID == "" {
				continue
			}
			key := stopTimingKey{s.ScheduleID, st.RouteStopID}
			if _, seen := timings[key]; !seen {
				timings[key] = st
			}
		}
	}

	stops := make([]models.RouteStop, len(s.Stops))
	copy(stops, s.Stops)
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Sequence < stops[j].Sequence
	})

	detail := ScheduleDetail{
		Schedule: s,
		Stops:    make([]StopDetail, 0, len(stops)),
		Journeys: make([]JourneyDetail, 0, len(s.Journeys)),
	}

	for _, stop := range stops {
		lng, lat := geo.Decode(stop.Location)
		row := StopDetail{
			Sequence:  stop.Sequence,
			Name:      stop.Name,
			City:      stop.City,
			Latitude:  lat,
			Longitude: lng,
		}

		if st, ok := timings[stopTimingKey{s.ScheduleID, stop.RouteStopID}]; ok {
			row.HasTiming = true
			row.ArrivalTime = st.ArrivalTime
			row.DepartureTime = st.DepartureTime
		}

		detail.Stops = append(detail.Stops, row)
	}

	for _, j := range s.Journeys {
		detail.Journeys = append(detail.Journeys, JourneyDetail{
			DepartureTime: j.DepartureTime,
			ArrivalTime:   j.ArrivalTime,
			Days:          form.FormatDays(j.DaysOfWeek),
		})
	}

	return detail
}
