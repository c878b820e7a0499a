package services

import (
	"sync"

	"github.com/smarttransit/schedule-admin/internal/form"
)

// FeedbackType is the kind of message shown above the schedule form
type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackError   FeedbackType = "error"
)

// Feedback is the outcome message of the last submission
type Feedback struct {
	Type FeedbackType `json:"type"`
	Text string       `json:"text"`
}

// FormSession holds one staff member's schedule draft and submission state
type FormSession struct {
	mu          sync.Mutex
	draft       form.Draft
	submitting  bool
	feedback    *Feedback
	fieldErrors form.ValidationErrors
}

// FormSnapshot is a consistent copy of a FormSession for rendering
type FormSnapshot struct {
	Draft       form.Draft            `json:"draft"`
	Submitting  bool                  `json:"submitting"`
	Feedback    *Feedback             `json:"feedback,omitempty"`
	FieldErrors form.ValidationErrors `json:"field_errors,omitempty"`
}

// NewFormSession creates a session holding a fresh draft
func NewFormSession() *FormSession {
	return &FormSession{draft: form.New()}
}

// Snapshot returns the current state
func (s *FormSession) Snapshot() FormSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return FormSnapshot{
		Draft:       s.draft,
		Submitting:  s.submitting,
		Feedback:    s.feedback,
		FieldErrors: s.fieldErrors,
	}
}

// Apply replaces the draft with the result of mutate. The draft is unchanged
// when mutate fails.
func (s *FormSession) Apply(mutate func(form.Draft) (form.Draft, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(s.draft)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// Reset discards the draft and any feedback
func (s *FormSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = form.New()
	s.feedback = nil
	s.fieldErrors = nil
}

// begin enters the submitting state and returns the draft to submit.
// It reports false when a submission is already in flight.
func (s *FormSession) begin() (form.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return form.Draft{}, false
	}
	s.submitting = true
	s.feedback = nil
	s.fieldErrors = nil
	return s.draft, true
}

// finish leaves the submitting state; a successful submission also resets the draft
func (s *FormSession) finish(feedback Feedback, fieldErrors form.ValidationErrors, reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	s.feedback = &feedback
	s.fieldErrors = fieldErrors
	if reset {
		s.draft = form.New()
	}
}
