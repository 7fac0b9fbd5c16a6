package records

import "sort"

// Record is one flattened document: field name to scalar value.
type Record map[string]Value

// Get returns the value of field, Absent when the record does not carry it.
func (r Record) Get(field string) Value {
	return r[field]
}

// Has reports whether the record carries field at all, even as Absent.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RecordSet is an ordered sequence of records.
type RecordSet []Record

// Fields returns the schema of the set: every field name carried by at least
// one record, sorted.
func (rs RecordSet) Fields() []string {
	seen := make(map[string]struct{})
	for _, r := range rs {
		for f := range r {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// HasField reports whether any record in the set carries field.
func (rs RecordSet) HasField(field string) bool {
	for _, r := range rs {
		if r.Has(field) {
			return true
		}
	}
	return false
}
