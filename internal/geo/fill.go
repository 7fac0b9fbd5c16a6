package geo

import (
	"player-analytics/internal/fields"
	"player-analytics/internal/records"
)

// FillMissingGeo returns rs with empty geoField values filled from the country
// of ipField. Records that change are copies; rs itself is never modified.
func FillMissingGeo(rs records.RecordSet, ipField, geoField string, resolver Resolver) records.RecordSet {
	out := make(records.RecordSet, len(rs))
	for i, r := range rs {
		out[i] = r
		if fields.NormalizeGeo(r.Get(geoField)) != "" {
			continue
		}
		if fields.ClassifyIP(r.Get(ipField)) == fields.IPInvalid {
			continue
		}
		code := resolver.CountryCode(r.Get(ipField).String())
		if code == "" {
			continue
		}
		filled := r.Clone()
		filled[geoField] = records.Text(code)
		out[i] = filled
	}
	return out
}
