package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/shared/filestorages"
)

const storeFile = "file"

// FileStore serves snapshots from JSON exports laid out as {collection}.json
// below a root directory, and writes such exports.
type FileStore interface {
	SnapshotReader
	// ExportSnapshot writes snap as the export of a top-level collection.
	ExportSnapshot(ctx context.Context, collection string, snap records.Snapshot, overwrite bool) error
	// HasExport reports whether an export of the collection exists.
	HasExport(ctx context.Context, collection string) (bool, error)
}

type fileStore struct {
	fileStorage filestorages.FileStorage
}

func NewFileStore(fileStorage filestorages.FileStorage) FileStore {
	return &fileStore{fileStorage: fileStorage}
}

func (s *fileStore) GetSnapshot(ctx context.Context, path string) (records.Snapshot, error) {
	start := time.Now()
	snap, err := s.read(ctx, opSnapshot, path)
	observeRead(storeFile, opSnapshot, start, err)
	return snap, err
}

func (s *fileStore) GetOrderedTail(ctx context.Context, path, field string, limit int) (records.Snapshot, error) {
	start := time.Now()
	snap, err := s.read(ctx, opOrderedTail, path)
	observeRead(storeFile, opOrderedTail, start, err)
	if err != nil {
		return records.Snapshot{}, err
	}
	return orderedTail(snap, field, limit), nil
}

func (s *fileStore) GetShallowKeys(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	snap, err := s.read(ctx, opShallowKeys, path)
	observeRead(storeFile, opShallowKeys, start, err)
	if err != nil {
		return nil, err
	}
	return snap.Keys(), nil
}

func (s *fileStore) read(ctx context.Context, op, path string) (records.Snapshot, error) {
	segments, err := splitPath(path)
	if err != nil {
		return records.Snapshot{}, errUnavailable(storeFile, op, path, err)
	}

	rc, err := s.fileStorage.Get(ctx, s.getKey(segments[0]))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return records.Snapshot{}, nil
		}
		return records.Snapshot{}, errUnavailable(storeFile, op, path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return records.Snapshot{}, errUnavailable(storeFile, op, path, err)
	}
	snap, err := records.DecodeSnapshot(data)
	if err != nil {
		return records.Snapshot{}, errUnavailable(storeFile, op, path, err)
	}
	return descend(snap, segments[1:]), nil
}

func (s *fileStore) ExportSnapshot(ctx context.Context, collection string, snap records.Snapshot, overwrite bool) error {
	if _, err := splitPath(collection); err != nil {
		return err
	}
	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %q: %w", collection, err)
	}
	_, err = s.fileStorage.Put(ctx, s.getKey(collection), bytes.NewReader(data), filestorages.PutOptions{AllowOverwrite: overwrite})
	if err != nil {
		return fmt.Errorf("failed to put snapshot %q: %w", collection, err)
	}
	return nil
}

func (s *fileStore) HasExport(ctx context.Context, collection string) (bool, error) {
	if _, err := splitPath(collection); err != nil {
		return false, err
	}
	return s.fileStorage.Exists(ctx, s.getKey(collection))
}

func (s *fileStore) getKey(collection string) string {
	return collection + ".json"
}

// encodeSnapshot renders a snapshot back to a JSON object, keeping key order.
func encodeSnapshot(snap records.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range snap.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.Key); err != nil {
			return nil, err
		}
		if e.Doc != nil {
			if err := encodeDocument(&buf, e.Doc); err != nil {
				return nil, err
			}
			continue
		}
		if err := writeValue(&buf, e.Raw); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeDocument(buf *bytes.Buffer, doc *records.Document) error {
	buf.WriteByte('{')
	for i, f := range doc.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, f.Name); err != nil {
			return err
		}
		if f.Doc != nil {
			if err := encodeDocument(buf, f.Doc); err != nil {
				return err
			}
			continue
		}
		if err := writeValue(buf, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v records.Value) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
