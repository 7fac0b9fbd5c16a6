package records

import (
	"fmt"
	"sort"
)

// Field is one named value of a Document. When the value is itself a mapping
// Doc holds it decoded and Value holds its raw JSON text.
type Field struct {
	Name  string
	Value Value
	Doc   *Document
}

// Document is a mapping-valued node of a snapshot with its fields in source order.
type Document struct {
	Fields []Field
}

// Get returns the named field of the document.
func (d *Document) Get(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Record copies the document's fields into a new Record. Duplicate names keep
// the last occurrence.
func (d *Document) Record() Record {
	r := make(Record, len(d.Fields)+1)
	for _, f := range d.Fields {
		r[f.Name] = f.Value
	}
	return r
}

// Entry is one top-level key of a snapshot. Doc is nil when the stored value is
// not a mapping (a partially written key); Raw then holds the scalar.
type Entry struct {
	Key string
	Doc *Document
	Raw Value
}

// Document returns the entry's mapping or ErrMalformedEntry.
func (e Entry) Document() (*Document, error) {
	if e.Doc == nil {
		return nil, fmt.Errorf("%w: key %q holds %s", ErrMalformedEntry, e.Key, e.Raw.Kind())
	}
	return e.Doc, nil
}

// Snapshot is a point-in-time read of a keyed collection, in source key order.
type Snapshot struct {
	Entries []Entry
}

func (s Snapshot) Len() int { return len(s.Entries) }

func (s Snapshot) IsEmpty() bool { return len(s.Entries) == 0 }

// Keys returns the top-level keys in snapshot order.
func (s Snapshot) Keys() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Key
	}
	return out
}

// MalformedKeys returns the keys whose values are not mappings.
func (s Snapshot) MalformedKeys() []string {
	var out []string
	for _, e := range s.Entries {
		if e.Doc == nil {
			out = append(out, e.Key)
		}
	}
	return out
}

// SnapshotFromMap builds a snapshot from decoded Go values. Keys are ordered
// lexicographically at every level, which is how the database orders them.
func SnapshotFromMap(m map[string]any) Snapshot {
	keys := sortedKeys(m)
	snap := Snapshot{Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		entry := Entry{Key: k}
		if doc, ok := m[k].(map[string]any); ok {
			entry.Doc = documentFromMap(doc)
		} else {
			entry.Raw = ValueOf(m[k])
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return snap
}

func documentFromMap(m map[string]any) *Document {
	keys := sortedKeys(m)
	doc := &Document{Fields: make([]Field, 0, len(keys))}
	for _, k := range keys {
		f := Field{Name: k, Value: ValueOf(m[k])}
		if nested, ok := m[k].(map[string]any); ok {
			f.Doc = documentFromMap(nested)
		}
		doc.Fields = append(doc.Fields, f)
	}
	return doc
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
