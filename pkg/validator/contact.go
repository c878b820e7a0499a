package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates a phone number that is not 10 digits once sanitized
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidPrefix indicates a phone number that does not start with a Sri Lankan trunk prefix
	ErrInvalidPrefix = errors.New("phone number must start with 0 followed by an area or mobile code")

	// ErrInvalidEmail indicates contact info that contains @ but is not an email address
	ErrInvalidEmail = errors.New("email address is not valid")
)

// ContactKind classifies operator contact information
type ContactKind string

const (
	ContactNone     ContactKind = "none"
	ContactMobile   ContactKind = "mobile"
	ContactLandline ContactKind = "landline"
	ContactEmail    ContactKind = "email"
	ContactText     ContactKind = "text"
)

// mobilePrefixes contains the Sri Lankan mobile operator prefixes
var mobilePrefixes = []string{
	"070", // Mobitel
	"071", // Mobitel
	"072", // Hutch
	"074", // Dialog
	"075", // Airtel
	"076", // Dialog
	"077", // Dialog
	"078", // Hutch
}

var (
	digitsRegex = regexp.MustCompile(`^\d+$`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// phoneLikeRegex matches input made only of digits and common separators
	phoneLikeRegex = regexp.MustCompile(`^[\d\s\-().+]+$`)
)

// ContactValidator validates the free-form contact info of an operator.
// Phone numbers and email addresses are checked; anything else is kept as text.
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// Validate classifies contact and returns its normalized form.
// Empty input is allowed because contact info is optional.
func (v *ContactValidator) Validate(contact string) (ContactKind, string, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ContactNone, "", nil
	}

	if strings.Contains(contact, "@") {
		if !emailRegex.MatchString(contact) {
			return ContactEmail, "", ErrInvalidEmail
		}
		return ContactEmail, strings.ToLower(contact), nil
	}

	if !phoneLikeRegex.MatchString(contact) {
		return ContactText, contact, nil
	}

	phone, err := v.ValidatePhone(contact)
	if err != nil {
		return ContactMobile, "", err
	}
	if v.IsMobile(phone) {
		return ContactMobile, phone, nil
	}
	return ContactLandline, phone, nil
}

// ValidatePhone validates a Sri Lankan mobile or landline number.
// Accepts 0771234567, 077 123 4567, 011-234-5678 or +94112345678.
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	sanitized := v.Sanitize(phone)

	if !digitsRegex.MatchString(sanitized) || len(sanitized) != 10 {
		return "", ErrInvalidLength
	}

	if sanitized[0] != '0' || sanitized[1] == '0' {
		return "", ErrInvalidPrefix
	}

	return sanitized, nil
}

// Sanitize removes all separators and rewrites the 94 country code to a leading 0
func (v *ContactValidator) Sanitize(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, ".", "")

	if strings.HasPrefix(phone, "94") && len(phone) == 11 {
		phone = "0" + phone[2:]
	}

	return phone
}

// IsMobile checks if a sanitized number has a mobile operator prefix
func (v *ContactValidator) IsMobile(phone string) bool {
	if len(phone) < 3 {
		return false
	}

	prefix := phone[:3]
	for _, mobilePrefix := range mobilePrefixes {
		if prefix == mobilePrefix {
			return true
		}
	}

	return false
}

// Format formats a phone number in the display format 0XX XXX XXXX
func (v *ContactValidator) Format(phone string) (string, error) {
	sanitized, err := v.ValidatePhone(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s %s",
		sanitized[0:3],
		sanitized[3:6],
		sanitized[6:10],
	), nil
}
