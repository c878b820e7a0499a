package models

// Stop represents a stop entered on the schedule form.
// Sequence is 1 for the source stop; intermediate stops start at 2.
type Stop struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Location string `json:"location"` // POINT(<lng> <lat>)
	Sequence int    `json:"sequence,omitempty"`
}

// Route represents a route as submitted with a new schedule
type Route struct {
	Name            string `json:"name"`
	SourceStop      Stop   `json:"source_stop"`
	DestinationStop Stop   `json:"destination_stop"`
	TotalDistance   int    `json:"total_distance"` // km
	TotalDuration   int    `json:"total_duration"` // minutes
	Stops           []Stop `json:"stops"`
}

// RouteStop is a stop as returned by the backend with a schedule
type RouteStop struct {
	ID          string `json:"id"`
	RouteStopID string `json:"route_stop_id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Location    string `json:"location"`
	Sequence    int    `json:"sequence"`
}
