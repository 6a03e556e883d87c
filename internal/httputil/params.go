package httputil

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseID parses a required positive integer id.
func ParseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest("invalid %s", name)
	}
	return id, nil
}

// OptionalID returns nil when the parameter is absent or empty.
func OptionalID(q url.Values, name string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Accepted date layouts; zone-less values are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// OptionalTime parses a date filter such as the value of an HTML
// datetime-local input.
func OptionalTime(q url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, BadRequest("invalid %s", name)
}
