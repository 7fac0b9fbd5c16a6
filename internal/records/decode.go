package records

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeSnapshot decodes a JSON object into a Snapshot, keeping keys in the
// order they appear in the payload. A null or empty payload is an empty
// snapshot; any other non-object payload yields an empty snapshot and
// ErrNotMapping.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}
	if !gjson.ValidBytes(data) {
		return Snapshot{}, fmt.Errorf("%w: invalid json", ErrNotMapping)
	}

	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return Snapshot{}, nil
	}
	if !root.IsObject() {
		return Snapshot{}, fmt.Errorf("%w: got %s", ErrNotMapping, describe(root))
	}

	var snap Snapshot
	root.ForEach(func(key, value gjson.Result) bool {
		entry := Entry{Key: key.String()}
		if value.IsObject() {
			entry.Doc = decodeDocument(value)
		} else {
			entry.Raw = decodeScalar(value)
		}
		snap.Entries = append(snap.Entries, entry)
		return true
	})
	return snap, nil
}

// DecodeKeys decodes a shallow response ({"key": true, ...}) into its keys.
func DecodeKeys(data []byte) ([]string, error) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return snap.Keys(), nil
}

func decodeDocument(obj gjson.Result) *Document {
	doc := &Document{}
	obj.ForEach(func(key, value gjson.Result) bool {
		f := Field{Name: key.String(), Value: decodeScalar(value)}
		if value.IsObject() {
			f.Doc = decodeDocument(value)
		}
		doc.Fields = append(doc.Fields, f)
		return true
	})
	return doc
}

func decodeScalar(v gjson.Result) Value {
	switch v.Type {
	case gjson.Null:
		return Absent()
	case gjson.Number:
		return Number(v.Num)
	case gjson.String:
		return Text(v.Str)
	case gjson.True:
		return Text("true")
	case gjson.False:
		return Text("false")
	default:
		// objects and arrays keep their raw JSON
		return Text(v.Raw)
	}
}

func describe(r gjson.Result) string {
	if r.IsArray() {
		return "array"
	}
	return r.Type.String()
}
