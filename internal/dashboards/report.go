package dashboards

import (
	"sort"
	"time"

	"player-analytics/internal/aggregators"
	"player-analytics/internal/fields"
	"player-analytics/internal/records"
)

const (
	ScopeCollection = "collection"
	ScopeWindow     = "window"
	ScopeSample     = "sample"
)

const unknownBrowser = "Unknown"

// Table is a record set with the columns to display, in order.
type Table struct {
	Columns []string          `json:"columns"`
	Rows    records.RecordSet `json:"rows"`
}

func newTable(columns []string, rows records.RecordSet) Table {
	if rows == nil {
		rows = records.RecordSet{}
	}
	return Table{Columns: columns, Rows: rows}
}

type Totals struct {
	Players  int `json:"players"`
	Tracking int `json:"tracking"`
}

type GeoSplit struct {
	Target   string `json:"target"`
	InTarget int    `json:"inTarget"`
	Other    int    `json:"other"`
	Unknown  int    `json:"unknown"`
}

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WinsPanel holds the wins summary, or why it is unavailable.
type WinsPanel struct {
	Summary     *aggregators.Summary `json:"summary,omitempty"`
	Unavailable string               `json:"unavailable,omitempty"`
}

// Report is the output of one render cycle.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Strategy    Strategy  `json:"strategy"`
	// Scope is what the statistics panels cover: the whole collection, the
	// latest window or a recent sample.
	Scope string `json:"scope"`

	LatestPlayers     Table `json:"latestPlayers"`
	LatestConversions Table `json:"latestConversions"`

	Totals      Totals                 `json:"totals"`
	IPVersions  fields.IPVersionCounts `json:"ipVersions"`
	Geo         GeoSplit               `json:"geo"`
	Sources     []Count                `json:"sources"`
	Wins        WinsPanel              `json:"wins"`
	Impressions aggregators.Estimate   `json:"impressions"`
	Revenue     aggregators.Estimate   `json:"revenue"`

	SharedIPPlayers  Table   `json:"sharedIpPlayers"`
	PlayersByIP      Table   `json:"playersByIp"`
	TrackingBrowsers []Count `json:"trackingBrowsers"`

	// Warnings lists the sections that could not be read this cycle.
	Warnings []string `json:"warnings"`
}

// HasWarnings reports whether any section fell back to "no data".
func (r *Report) HasWarnings() bool { return len(r.Warnings) > 0 }

func geoSplit(rs records.RecordSet, target string) GeoSplit {
	in, other := fields.PartitionGeo(rs, FieldGeo, target)
	return GeoSplit{
		Target:   fields.NormalizeGeo(records.Text(target)),
		InTarget: len(in),
		Other:    len(other),
		Unknown:  len(rs) - len(in) - len(other),
	}
}

func sourceCounts(rs records.RecordSet, expected []string) []Count {
	parts := aggregators.PartitionByFieldCI(rs, FieldSource, expected...)
	out := make([]Count, 0, len(expected))
	for _, e := range expected {
		out = append(out, Count{Name: e, Count: len(parts[e])})
	}
	return out
}

func winsPanel(rs records.RecordSet) WinsPanel {
	summary, err := aggregators.MeanAndArgmax(rs, FieldWins, FieldUID)
	if err != nil {
		return WinsPanel{Unavailable: err.Error()}
	}
	return WinsPanel{Summary: &summary}
}

// browserCounts is sorted by count descending, then name.
func browserCounts(rs records.RecordSet) []Count {
	counts := aggregators.CountBy(rs, FieldUserAgent, func(v records.Value) string {
		if name := fields.NormalizeUserAgent(v); name != "" {
			return name
		}
		return unknownBrowser
	})
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
