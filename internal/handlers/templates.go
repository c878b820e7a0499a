package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/smarttransit/schedule-admin/internal/form"
	"github.com/smarttransit/schedule-admin/internal/models"
	"github.com/smarttransit/schedule-admin/pkg/geo"
	"github.com/smarttransit/schedule-admin/pkg/validator"
)

var contactFormatter = validator.NewContactValidator()

//go:embed templates/*.tmpl
var templateFS embed.FS

// LoadTemplates parses the portal pages with their display helpers
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl")
}

// TemplateFuncs are the helpers available to every page
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":    formatDate,
		"formatTime":    formatTime,
		"formatDays":    form.FormatDays,
		"formatContact": formatContact,
		"hasDay":        form.HasDay,
		"latitude": func(point string) float64 {
			_, lat := geo.Decode(point)
			return lat
		},
		"longitude": func(point string) float64 {
			lng, _ := geo.Decode(point)
			return lng
		},
		"field":         newFieldInput,
		"stopField":     newStopFieldInput,
		"journeyField":  newJourneyFieldInput,
		"location":      newLocationInput,
		"add":           func(a, b int) int { return a + b },
		"weekdays":      func() []string { return models.Weekdays },
		"operatorTypes": func() []models.OperatorType { return models.OperatorTypes },
		"busTypes":      func() []models.BusType { return models.BusTypes },
	}
}

// fieldInput is one single-field form of the schedule page
type fieldInput struct {
	Action     string
	Section    string
	Subsection string
	Field      string
	Label      string
	Type       string
	Value      any
	Error      string
	Min        bool
}

func newFieldInput(section, subsection, field, label, inputType string, value any, errText string) fieldInput {
	return fieldInput{
		Action:     "/schedules/new/field",
		Section:    section,
		Subsection: subsection,
		Field:      field,
		Label:      label,
		Type:       inputType,
		Value:      value,
		Error:      errText,
		Min:        inputType == "number",
	}
}

func newStopFieldInput(index int, field, label, value string) fieldInput {
	return fieldInput{
		Action: fmt.Sprintf("/schedules/new/stops/%d/field", index),
		Field:  field,
		Label:  label,
		Type:   "text",
		Value:  value,
	}
}

func newJourneyFieldInput(index int, field, label, value, errText string) fieldInput {
	return fieldInput{
		Action: fmt.Sprintf("/schedules/new/journeys/%d/field", index),
		Field:  field,
		Label:  label,
		Type:   "time",
		Value:  value,
		Error:  errText,
	}
}

// locationInput is the coordinate form of one stop; Index is -1 for route endpoints
type locationInput struct {
	Kind  string
	Index int
	Point string
}

func newLocationInput(kind string, index int, point string) locationInput {
	return locationInput{Kind: kind, Index: index, Point: point}
}

// formatDate renders a YYYY-MM-DD (or RFC 3339) date as "02 Jan 2006".
// A missing date is an open-ended validity.
func formatDate(v any) string {
	s, ok := optionalString(v)
	if !ok || s == "" {
		return "No Expiry"
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}

// formatContact prints mobile numbers as 0XX XXX XXXX and other contact info as given
func formatContact(contact string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return "-"
	}
	if formatted, err := contactFormatter.Format(contact); err == nil {
		return formatted
	}
	return contact
}

// formatTime renders HH:MM[:SS] as HH:MM, "-" when absent
func formatTime(v any) string {
	s, ok := optionalString(v)
	if !ok || strings.TrimSpace(s) == "" {
		return "-"
	}
	if len(s) >= 5 && s[2] == ':' {
		return s[:5]
	}
	return s
}

func optionalString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	}
	return "", false
}
