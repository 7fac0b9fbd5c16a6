package stores

import (
	"fmt"
	"sort"
	"strings"

	"player-analytics/internal/records"
)

// orderedTail emulates the database's orderBy child + limitToLast query on an
// already loaded snapshot: children without the field first, then numbers
// ascending, then text ascending, ties broken by key. The last limit children
// are kept in that order.
func orderedTail(snap records.Snapshot, field string, limit int) records.Snapshot {
	if limit <= 0 {
		return records.Snapshot{}
	}
	entries := make([]records.Entry, len(snap.Entries))
	copy(entries, snap.Entries)

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := childValue(entries[i], field), childValue(entries[j], field)
		if c := compareValues(a, b); c != 0 {
			return c < 0
		}
		return entries[i].Key < entries[j].Key
	})

	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return records.Snapshot{Entries: entries}
}

func childValue(e records.Entry, field string) records.Value {
	if e.Doc == nil {
		return records.Absent()
	}
	f, ok := e.Doc.Get(field)
	if !ok || f.Doc != nil {
		return records.Absent()
	}
	return f.Value
}

func kindRank(v records.Value) int {
	switch v.Kind() {
	case records.KindNumber:
		return 1
	case records.KindText:
		return 2
	default:
		return 0
	}
}

func compareValues(a, b records.Value) int {
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return ra - rb
	}
	if x, ok := a.Num(); ok {
		y, _ := b.Num()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	sa, _ := a.Str()
	sb, _ := b.Str()
	return strings.Compare(sa, sb)
}

// splitPath validates a slash-separated store path.
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "#$[]") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// descend walks a loaded collection down to the node named by segments. A
// missing node or a scalar node reads as an empty snapshot, matching a read of
// a missing path on the database.
func descend(snap records.Snapshot, segments []string) records.Snapshot {
	if len(segments) == 0 {
		return snap
	}
	var doc *records.Document
	for _, e := range snap.Entries {
		if e.Key == segments[0] {
			doc = e.Doc
			break
		}
	}
	for _, seg := range segments[1:] {
		if doc == nil {
			break
		}
		f, ok := doc.Get(seg)
		if !ok {
			doc = nil
			break
		}
		doc = f.Doc
	}
	if doc == nil {
		return records.Snapshot{}
	}
	return documentSnapshot(doc)
}

func documentSnapshot(doc *records.Document) records.Snapshot {
	out := records.Snapshot{Entries: make([]records.Entry, 0, len(doc.Fields))}
	for _, f := range doc.Fields {
		e := records.Entry{Key: f.Name, Doc: f.Doc}
		if f.Doc == nil {
			e.Raw = f.Value
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}
