package form

import (
	"strings"

	"github.com/smarttransit/schedule-admin/internal/models"
)

// Compose builds the record sent to the backend from a draft.
// Intermediate stops with a blank name are placeholders and are dropped; the
// kept stops are renumbered from 2 so the submitted route has no sequence gaps.
func Compose(d Draft) models.ScheduleCreateRequest {
	stops := make([]models.Stop, 0, len(d.IntermediateStops))
	for _, stop := range d.IntermediateStops {
		if strings.TrimSpace(stop.Name) == "" {
			continue
		}
		stops = append(stops, stop)
	}

	record := d.Record
	route := record.Route
	route.Stops = resequence(stops)
	record.Route = route
	return record
}
