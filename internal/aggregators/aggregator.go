package aggregators

import (
	"fmt"
	"strings"

	"player-analytics/internal/records"
)

// Summary is the mean and maximum of a numeric field together with the
// identity of the first record holding the maximum.
type Summary struct {
	Mean      float64       `json:"mean"`
	Max       float64       `json:"max"`
	ArgmaxKey records.Value `json:"argmaxKey"`
}

func Count(rs records.RecordSet) int {
	return len(rs)
}

// SumNumeric adds field over the set; values that are not numbers count as 0.
func SumNumeric(rs records.RecordSet, field string) float64 {
	var sum float64
	for _, r := range rs {
		sum += r.Get(field).Float()
	}
	return sum
}

// MeanAndArgmax computes the mean and maximum of field and returns the
// identityField value of the first record attaining the maximum. It fails with
// records.ErrEmptyInput when the set is empty or no record carries field.
func MeanAndArgmax(rs records.RecordSet, field, identityField string) (Summary, error) {
	if len(rs) == 0 {
		return Summary{}, fmt.Errorf("%w: no records", records.ErrEmptyInput)
	}
	if !rs.HasField(field) {
		return Summary{}, fmt.Errorf("%w: field %q not in schema", records.ErrEmptyInput, field)
	}

	var sum float64
	best := 0
	maxVal := rs[0].Get(field).Float()
	for i, r := range rs {
		v := r.Get(field).Float()
		sum += v
		if v > maxVal {
			maxVal = v
			best = i
		}
	}
	return Summary{
		Mean:      sum / float64(len(rs)),
		Max:       maxVal,
		ArgmaxKey: rs[best].Get(identityField),
	}, nil
}

// PartitionByFieldCI groups records whose text field equals one of expected,
// ignoring case. Every expected value gets an entry, possibly empty. Absent or
// non-text values fall in no partition.
func PartitionByFieldCI(rs records.RecordSet, field string, expected ...string) map[string]records.RecordSet {
	out := make(map[string]records.RecordSet, len(expected))
	for _, e := range expected {
		out[e] = records.RecordSet{}
	}
	for _, r := range rs {
		s, ok := r.Get(field).Str()
		if !ok {
			continue
		}
		for _, e := range expected {
			if strings.EqualFold(s, e) {
				out[e] = append(out[e], r)
				break
			}
		}
	}
	return out
}

// GroupDuplicates keeps the records whose field value occurs more than once in
// the set, in their original order. Absent values never count as duplicates.
func GroupDuplicates(rs records.RecordSet, field string) records.RecordSet {
	counts := make(map[records.Value]int, len(rs))
	for _, r := range rs {
		v := r.Get(field)
		if v.IsAbsent() {
			continue
		}
		counts[v]++
	}

	out := records.RecordSet{}
	for _, r := range rs {
		v := r.Get(field)
		if !v.IsAbsent() && counts[v] > 1 {
			out = append(out, r)
		}
	}
	return out
}

// CountBy counts records per normalized field value. Records normalizing to ""
// are counted under the empty key so totals still add up.
func CountBy(rs records.RecordSet, field string, normalize func(records.Value) string) map[string]int {
	if normalize == nil {
		normalize = func(v records.Value) string { return v.String() }
	}
	out := make(map[string]int)
	for _, r := range rs {
		out[normalize(r.Get(field))]++
	}
	return out
}
