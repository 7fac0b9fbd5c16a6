package fields

import (
	"strings"

	"player-analytics/internal/records"
)

// NormalizeGeo returns the trimmed, upper-cased geo code, "" when absent.
func NormalizeGeo(v records.Value) string {
	if v.IsAbsent() {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(v.String()))
}

// PartitionGeo splits records into those whose normalized geo equals target and
// the others. Records with an empty normalized geo are unknown and land in
// neither partition.
func PartitionGeo(rs records.RecordSet, field, target string) (inTarget, other records.RecordSet) {
	want := strings.ToUpper(strings.TrimSpace(target))
	inTarget, other = records.RecordSet{}, records.RecordSet{}
	for _, r := range rs {
		geo := NormalizeGeo(r.Get(field))
		switch {
		case geo == "":
		case geo == want:
			inTarget = append(inTarget, r)
		default:
			other = append(other, r)
		}
	}
	return inTarget, other
}
