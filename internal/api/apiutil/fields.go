package apiutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

func ParseNonNegativeInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, FieldError{Field: field, Reason: "must be 0 or greater"}
	}
	return value, nil
}

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// ParseDateField validates a calendar date in YYYY-MM-DD form. The value is
// stored as text; only its shape is checked here.
func ParseDateField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", FieldError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return raw, nil
}

// ParseTimeField validates a 24-hour clock time in HH:MM form.
func ParseTimeField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	if _, err := time.Parse("15:04", raw); err != nil {
		return "", FieldError{Field: field, Reason: "must be a time in HH:MM form"}
	}
	return raw, nil
}

// ParseContactField accepts an email address or a phone number. Phone numbers
// are normalized to E.164.
func ParseContactField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	if strings.Contains(raw, "@") {
		return raw, nil
	}
	parsed, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", FieldError{Field: field, Reason: "must be an email address or phone number"}
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

func RequireField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	return raw, nil
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
