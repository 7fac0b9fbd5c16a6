package stores

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"player-analytics/internal/records"

	"github.com/alitto/pond/v2"
)

// GetNestedSnapshot reads a two-level collection one child at a time: the
// child keys come from a shallow read of path, then every child is fetched on
// a bounded pool. The result has the same shape as GetSnapshot(path) but
// never loads the whole collection in one reply.
func GetNestedSnapshot(ctx context.Context, reader SnapshotReader, path string, poolSize int) (records.Snapshot, error) {
	keys, err := reader.GetShallowKeys(ctx, path)
	if err != nil {
		return records.Snapshot{}, err
	}
	if len(keys) == 0 {
		return records.Snapshot{}, nil
	}
	if poolSize < 1 {
		poolSize = 1
	}

	pool := pond.NewResultPool[records.Entry](poolSize)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for _, key := range keys {
		group.SubmitErr(func() (records.Entry, error) {
			child, err := reader.GetSnapshot(ctx, path+"/"+key)
			if errors.Is(err, records.ErrNotMapping) {
				// scalar child node: kept as a non-mapping entry
				return records.Entry{Key: key}, nil
			}
			if err != nil {
				return records.Entry{}, err
			}
			return records.Entry{Key: key, Doc: snapshotDocument(child)}, nil
		})
	}

	entries, err := group.Wait()
	if err != nil {
		return records.Snapshot{}, fmt.Errorf("failed to read children of %q: %w", path, err)
	}
	return records.Snapshot{Entries: entries}, nil
}

// snapshotDocument is the inverse of documentSnapshot.
func snapshotDocument(snap records.Snapshot) *records.Document {
	doc := &records.Document{Fields: make([]records.Field, 0, len(snap.Entries))}
	for _, e := range snap.Entries {
		f := records.Field{Name: e.Key, Doc: e.Doc, Value: e.Raw}
		if e.Doc != nil {
			var buf bytes.Buffer
			if err := encodeDocument(&buf, e.Doc); err == nil {
				f.Value = records.Text(buf.String())
			}
		}
		doc.Fields = append(doc.Fields, f)
	}
	return doc
}
