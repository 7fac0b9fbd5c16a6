package fields

import (
	"net/netip"

	"player-analytics/internal/records"
)

// IPVersion classifies a textual IP address.
type IPVersion string

const (
	IPv4      IPVersion = "v4"
	IPv6      IPVersion = "v6"
	IPInvalid IPVersion = "invalid"
)

// ClassifyIP reports the version of a textual IP address. Empty strings,
// non-text values and unparsable addresses are IPInvalid. Canonical and
// compressed IPv6 forms are both accepted; IPv4-mapped IPv6 addresses count as
// IPv6 because that is how they are written.
func ClassifyIP(v records.Value) IPVersion {
	s, ok := v.Str()
	if !ok || s == "" {
		return IPInvalid
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPInvalid
	}
	if addr.Is4() {
		return IPv4
	}
	return IPv6
}

// IPVersionCounts is the number of records per IP version.
type IPVersionCounts struct {
	V4      int `json:"v4"`
	V6      int `json:"v6"`
	Invalid int `json:"invalid"`
}

func (c IPVersionCounts) Total() int { return c.V4 + c.V6 + c.Invalid }

// CountIPVersions classifies field on every record.
func CountIPVersions(rs records.RecordSet, field string) IPVersionCounts {
	var c IPVersionCounts
	for _, r := range rs {
		switch ClassifyIP(r.Get(field)) {
		case IPv4:
			c.V4++
		case IPv6:
			c.V6++
		default:
			c.Invalid++
		}
	}
	return c
}
