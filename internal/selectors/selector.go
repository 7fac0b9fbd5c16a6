package selectors

import (
	"context"
	"sort"

	"player-analytics/internal/records"
)

// Query names a keyed collection and how to pick its most recent records.
type Query struct {
	Path          string
	SortField     string
	IdentityField string
	Limit         int
}

// LatestSelector returns the Limit records of a collection with the greatest
// SortField, greatest first. Records without a numeric SortField sort as 0.
//
//go:generate mockgen -source=selector.go -destination=./mocks/selector_mock.go -package=mocks
type LatestSelector interface {
	Latest(ctx context.Context, q Query) (records.RecordSet, error)
}

// SortLatest orders rs by field descending and keeps the first n. The sort is
// stable, so equal keys keep their input order. rs is not modified.
func SortLatest(rs records.RecordSet, field string, n int) records.RecordSet {
	if n <= 0 || len(rs) == 0 {
		return records.RecordSet{}
	}
	out := make(records.RecordSet, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Get(field).Float() > out[j].Get(field).Float()
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
