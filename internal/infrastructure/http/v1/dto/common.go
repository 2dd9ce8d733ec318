// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"pharmacy/internal/core/apperror"
	"pharmacy/internal/core/id"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ErrorResponse documents the body rendered by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// UTC midnight of that date.
func ParseDate(field, s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseOptionalID parses a nullable id field.
func ParseOptionalID(field string, s *string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := id.Parse(*s)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", field).
			WithDetail("value", *s)
	}
	return &v, nil
}

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
