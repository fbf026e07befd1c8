package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/examtrack/internal/entity"
)

// ParseDate reads YYYY-MM-DD or RFC 3339 input; blank yields the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", entity.ErrInvalidPayload, raw)
	}
	return entity.DateOf(t), nil
}

// ParseOptDate is ParseDate returning nil for blank input.
func ParseOptDate(raw string) (*time.Time, error) {
	t, err := ParseDate(raw)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func formatOptDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}
