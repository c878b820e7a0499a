package scheduleapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	endpoint string
	outcome  string
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *[]observed) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	calls := &[]observed{}
	client := NewHTTPClient(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second},
		WithObserver(func(endpoint, outcome string, _ time.Duration) {
			*calls = append(*calls, observed{endpoint, outcome})
		}))
	return client, calls
}

func TestCreateSchedules_Success(t *testing.T) {
	var received []models.ScheduleCreateRequest

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/schedule/bulk", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"schedules":[{"schedule_id":"sch-42"}]}`))
	})

	record := models.ScheduleCreateRequest{
		Operator: models.Operator{Name: "Lanka Express", Type: models.OperatorTypePrivate},
		Route: models.Route{
			Name:  "Colombo - Kandy",
			Stops: []models.Stop{{Name: "Kandy", Location: "POINT(80.6 7.29)", Sequence: 2}},
		},
	}

	resp, err := client.CreateSchedules(context.Background(), []models.ScheduleCreateRequest{record})
	require.NoError(t, err)
	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, "sch-42", resp.Schedules[0].ScheduleID)

	require.Len(t, received, 1)
	assert.Equal(t, "Lanka Express", received[0].Operator.Name)
	require.Len(t, received[0].Route.Stops, 1)
	assert.Equal(t, 2, received[0].Route.Stops[0].Sequence)

	assert.Equal(t, []observed{{EndpointCreate, OutcomeSuccess}}, *calls)
}

func TestCreateSchedules_APIError(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"details":"bus_number already exists"}`))
	})

	_, err := client.CreateSchedules(context.Background(), []models.ScheduleCreateRequest{{}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "bus_number already exists", apiErr.Details)
	assert.Equal(t, "bus_number already exists", UserMessage(err))
	assert.Equal(t, []observed{{EndpointCreate, OutcomeAPIError}}, *calls)
}

func TestCreateSchedules_APIErrorWithoutDetails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.CreateSchedules(context.Background(), []models.ScheduleCreateRequest{{}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Details)
	assert.Equal(t, "schedule service returned 500 Internal Server Error", UserMessage(err))
}

func TestCreateSchedules_Transport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	var outcome string
	client := NewHTTPClient(Config{BaseURL: baseURL, Timeout: time.Second},
		WithObserver(func(_, o string, _ time.Duration) { outcome = o }))

	_, err := client.CreateSchedules(context.Background(), []models.ScheduleCreateRequest{{}})
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.NotEmpty(t, UserMessage(err))
	assert.Equal(t, OutcomeTransport, outcome)
}

func TestListSchedules(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))

		w.Write([]byte(`{
			"total": 25, "limit": 10, "offset": 20,
			"schedules": [{
				"schedule_id": "sch-1",
				"valid_from": "2025-01-01",
				"valid_until": null,
				"bus_number": "NB-1234",
				"fare": "450.00",
				"route_name": "Colombo - Kandy",
				"stops": [{"id": "s1", "route_stop_id": "rs1", "name": "Colombo Fort", "sequence": 1}],
				"journeys": [{"id": "j1", "departure_time": "06:00", "arrival_time": "09:15",
					"days_of_week": ["Mon"], "stop_times": []}]
			}]
		}`))
	})

	resp, err := client.ListSchedules(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Total)
	require.Len(t, resp.Schedules, 1)

	s := resp.Schedules[0]
	assert.Equal(t, "sch-1", s.ScheduleID)
	assert.Nil(t, s.ValidUntil)
	assert.Equal(t, "450.00", s.Fare.String())
	assert.Equal(t, "rs1", s.Stops[0].RouteStopID)
	assert.Equal(t, []observed{{EndpointList, OutcomeSuccess}}, *calls)
}

func TestListSchedules_Malformed(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": "many"`))
	})

	_, err := client.ListSchedules(context.Background(), 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, []observed{{EndpointList, OutcomeMalformed}}, *calls)
}

func TestListSchedules_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListSchedules(ctx, 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "route conflict", UserMessage(&APIError{StatusCode: 409, Details: "route conflict"}))
	assert.Equal(t, "dial tcp: refused", UserMessage(&TransportError{Err: errors.New("dial tcp: refused")}))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

type countingTransport struct {
	requests int
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.requests++
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0,"limit":10,"offset":0,"schedules":[]}`))
	}))
	t.Cleanup(server.Close)

	transport := &countingTransport{}
	client := NewHTTPClient(Config{BaseURL: server.URL},
		WithHTTPClient(&http.Client{Timeout: time.Second, Transport: transport}))

	_, err := client.ListSchedules(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, transport.requests)
}
