package services

import (
	"errors"
	"testing"
	"time"

	"github.com/smarttransit/schedule-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimiter(now *time.Time) *RateLimitService {
	s := NewRateLimitService(config.RateLimitConfig{
		MaxEmailAttempts: 3,
		EmailWindow:      15 * time.Minute,
		MaxIPAttempts:    5,
		IPWindow:         time.Hour,
	})
	s.now = func() time.Time { return *now }
	return s
}

func TestRateLimit_EmailLimit(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestRateLimiter(&now)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CheckLoginRateLimit("staff@smarttransit.lk", "203.0.113.7"))
		s.RecordFailedLogin("staff@smarttransit.lk", "203.0.113.7")
	}

	err := s.CheckLoginRateLimit("Staff@SmartTransit.lk ", "198.51.100.1")
	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "email", rateErr.Type)
	assert.Equal(t, now.Add(15*time.Minute), rateErr.RetryAfter)
	assert.Contains(t, rateErr.Error(), "09:15:00")

	assert.NoError(t, s.CheckLoginRateLimit("other@smarttransit.lk", "203.0.113.7"))
}

func TestRateLimit_IPLimit(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestRateLimiter(&now)

	for i := 0; i < 5; i++ {
		s.RecordFailedLogin("", "203.0.113.7")
	}

	err := s.CheckLoginRateLimit("staff@smarttransit.lk", "203.0.113.7")
	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "ip", rateErr.Type)
	assert.Equal(t, now.Add(time.Hour), rateErr.RetryAfter)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestRateLimiter(&now)

	for i := 0; i < 3; i++ {
		s.RecordFailedLogin("staff@smarttransit.lk", "")
	}
	require.Error(t, s.CheckLoginRateLimit("staff@smarttransit.lk", ""))

	now = now.Add(15 * time.Minute)
	assert.NoError(t, s.CheckLoginRateLimit("staff@smarttransit.lk", ""))

	s.RecordFailedLogin("staff@smarttransit.lk", "")
	assert.NoError(t, s.CheckLoginRateLimit("staff@smarttransit.lk", ""))
}

func TestRateLimit_Reset(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestRateLimiter(&now)

	for i := 0; i < 3; i++ {
		s.RecordFailedLogin("staff@smarttransit.lk", "203.0.113.7")
	}
	s.ResetLogin("STAFF@smarttransit.lk")

	assert.NoError(t, s.CheckLoginRateLimit("staff@smarttransit.lk", "203.0.113.7"))
}
