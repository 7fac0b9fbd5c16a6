package fields

import (
	"strings"

	"player-analytics/internal/records"

	"github.com/mileusna/useragent"
)

// NormalizeUserAgent reduces a user agent string to its browser family, or
// returns the trimmed original when the family cannot be parsed.
func NormalizeUserAgent(v records.Value) string {
	s, ok := v.Str()
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parsed := useragent.Parse(s)
	if parsed.Name != "" {
		return parsed.Name
	}
	return s
}
