package aggregators

import "player-analytics/internal/records"

const (
	suffixLeft  = "_left"
	suffixRight = "_right"
)

// InnerJoin pairs every left record with every right record whose key values
// are equal. Keys compare exactly, without coercion, and absent keys never
// match. Output records hold the fields of both sides; a non-key field present
// on both sides is kept twice as <field>_left and <field>_right. When both key
// fields share a name the key is kept once.
//
// Output order follows the left set, then the right set within each match.
func InnerJoin(left, right records.RecordSet, leftKey, rightKey string) records.RecordSet {
	out := records.RecordSet{}
	if len(left) == 0 || len(right) == 0 {
		return out
	}

	index := make(map[records.Value][]records.Record)
	for _, r := range right {
		k := r.Get(rightKey)
		if k.IsAbsent() {
			continue
		}
		index[k] = append(index[k], r)
	}

	for _, l := range left {
		k := l.Get(leftKey)
		if k.IsAbsent() {
			continue
		}
		for _, r := range index[k] {
			out = append(out, merge(l, r, leftKey, rightKey))
		}
	}
	return out
}

func merge(l, r records.Record, leftKey, rightKey string) records.Record {
	sharedKey := leftKey == rightKey
	out := make(records.Record, len(l)+len(r))
	for f, v := range l {
		if r.Has(f) && !(sharedKey && f == leftKey) {
			out[f+suffixLeft] = v
			continue
		}
		out[f] = v
	}
	for f, v := range r {
		if sharedKey && f == rightKey {
			continue
		}
		if l.Has(f) {
			out[f+suffixRight] = v
			continue
		}
		out[f] = v
	}
	return out
}
