package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smarttransit/schedule-admin/internal/models"
)

// Endpoint labels passed to the Observer
const (
	EndpointCreate = "schedule_bulk"
	EndpointList   = "schedule_list"
)

// Outcome labels passed to the Observer
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed"
)

// Client is the scheduling backend as seen by the portal
type Client interface {
	CreateSchedules(ctx context.Context, records []models.ScheduleCreateRequest) (*models.BulkCreateResponse, error)
	ListSchedules(ctx context.Context, limit, offset int) (*models.ScheduleListResponse, error)
}

// Observer is notified once per backend call
type Observer func(endpoint, outcome string, elapsed time.Duration)

// Config holds configuration for the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPClient implements Client over the backend's JSON REST API
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	observer Observer
}

// Option customizes an HTTPClient
type Option func(*HTTPClient)

// WithObserver registers a callback invoked after every backend call
func WithObserver(observer Observer) Option {
	return func(c *HTTPClient) {
		c.observer = observer
	}
}

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new backend client
func NewHTTPClient(config Config, opts ...Option) *HTTPClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSchedules posts records to /schedule/bulk
func (c *HTTPClient) CreateSchedules(ctx context.Context, records []models.ScheduleCreateRequest) (*models.BulkCreateResponse, error) {
	jsonData, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedules: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/schedule/bulk", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.BulkCreateResponse
	if err := c.do(req, EndpointCreate, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSchedules fetches one page from /schedule
func (c *HTTPClient) ListSchedules(ctx context.Context, limit, offset int) (*models.ScheduleListResponse, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/schedule?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}

	var resp models.ScheduleListResponse
	if err := c.do(req, EndpointList, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("Accept", "application/json")
	start := time.Now()

	outcome, err := c.send(req, out)
	if c.observer != nil {
		c.observer(endpoint, outcome, time.Since(start))
	}
	return err
}

func (c *HTTPClient) send(req *http.Request, out any) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return OutcomeTransport, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OutcomeTransport, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OutcomeAPIError, newAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return OutcomeMalformed, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return OutcomeSuccess, nil
}

// ErrMalformedResponse indicates a 2xx response whose body could not be decoded
var ErrMalformedResponse = errors.New("malformed response from schedule service")
