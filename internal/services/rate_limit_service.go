package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/smarttransit/schedule-admin/internal/config"
)

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// attemptWindow counts failed sign-ins in a fixed window starting at the first failure
type attemptWindow struct {
	count int
	first time.Time
}

// RateLimitService throttles failed sign-ins per email and per client IP
type RateLimitService struct {
	mu       sync.Mutex
	attempts *cache.Cache
	config   config.RateLimitConfig
	now      func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(cfg config.RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		attempts: cache.New(max(cfg.EmailWindow, cfg.IPWindow), 10*time.Minute),
		config:   cfg,
		now:      time.Now,
	}
}

// CheckLoginRateLimit returns a *RateLimitError when email or ip has used up its attempts
func (s *RateLimitService) CheckLoginRateLimit(email, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email != "" {
		if w, ok := s.window(emailKey(email)); ok && w.count >= s.config.MaxEmailAttempts {
			retryAfter := w.first.Add(s.config.EmailWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many sign-in attempts for this account. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "email",
			}
		}
	}

	if ip != "" {
		if w, ok := s.window(ipKey(ip)); ok && w.count >= s.config.MaxIPAttempts {
			retryAfter := w.first.Add(s.config.IPWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many sign-in attempts from this address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

// RecordFailedLogin counts one failed sign-in against email and ip
func (s *RateLimitService) RecordFailedLogin(email, ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email != "" {
		s.increment(emailKey(email), s.config.EmailWindow)
	}
	if ip != "" {
		s.increment(ipKey(ip), s.config.IPWindow)
	}
}

// ResetLogin clears the email's failures after a successful sign-in
func (s *RateLimitService) ResetLogin(email string) {
	s.attempts.Delete(emailKey(email))
}

func (s *RateLimitService) window(key string) (*attemptWindow, bool) {
	v, ok := s.attempts.Get(key)
	if !ok {
		return nil, false
	}
	w := v.(*attemptWindow)
	if s.now().Sub(w.first) >= s.windowFor(key) {
		s.attempts.Delete(key)
		return nil, false
	}
	return w, true
}

func (s *RateLimitService) increment(key string, window time.Duration) {
	if w, ok := s.window(key); ok {
		w.count++
		return
	}
	s.attempts.Set(key, &attemptWindow{count: 1, first: s.now()}, window)
}

func (s *RateLimitService) windowFor(key string) time.Duration {
	if strings.HasPrefix(key, "ip:") {
		return s.config.IPWindow
	}
	return s.config.EmailWindow
}

func emailKey(email string) string {
	return "email:" + strings.ToLower(strings.TrimSpace(email))
}

func ipKey(ip string) string {
	return "ip:" + ip
}
