package aggregators

import (
	"testing"

	"player-analytics/internal/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func players() records.RecordSet {
	return records.RecordSet{
		{"uid": records.Text("p1"), "Wins": records.Number(3), "IP": records.Text("1.1.1.1"), "Source": records.Text("Organic")},
		{"uid": records.Text("p2"), "Wins": records.Text("7"), "IP": records.Text("2.2.2.2"), "Source": records.Text("facebook")},
		{"uid": records.Text("p3"), "Wins": records.Number(7), "IP": records.Text("1.1.1.1"), "Source": records.Text("ORGANIC")},
		{"uid": records.Text("p4"), "Wins": records.Text("n/a"), "Source": records.Text("organics")},
		{"uid": records.Text("p5"), "IP": records.Text("1.1.1.1"), "Source": records.Number(1)},
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, Count(players()))
	assert.Equal(t, 0, Count(nil))
}

func TestSumNumeric_CoercesLeniently(t *testing.T) {
	t.Parallel()

	assert.Equal(t, float64(17), SumNumeric(players(), "Wins"))
	assert.Equal(t, float64(0), SumNumeric(players(), "Missing"))
	assert.Equal(t, float64(0), SumNumeric(nil, "Wins"))
}

func TestMeanAndArgmax(t *testing.T) {
	t.Parallel()

	got, err := MeanAndArgmax(players(), "Wins", "uid")

	require.NoError(t, err)
	assert.InDelta(t, 17.0/5.0, got.Mean, 1e-9)
	assert.Equal(t, float64(7), got.Max)
	// p2 and p3 tie on 7; the first occurrence wins.
	assert.Equal(t, records.Text("p2"), got.ArgmaxKey)
}

func TestMeanAndArgmax_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := MeanAndArgmax(records.RecordSet{}, "Wins", "uid")
	assert.ErrorIs(t, err, records.ErrEmptyInput)

	_, err = MeanAndArgmax(players(), "Goal", "uid")
	assert.ErrorIs(t, err, records.ErrEmptyInput)
}

func TestMeanAndArgmax_AllNegative(t *testing.T) {
	t.Parallel()

	rs := records.RecordSet{
		{"k": records.Text("a"), "v": records.Number(-5)},
		{"k": records.Text("b"), "v": records.Number(-2)},
	}

	got, err := MeanAndArgmax(rs, "v", "k")

	require.NoError(t, err)
	assert.Equal(t, float64(-2), got.Max)
	assert.Equal(t, records.Text("b"), got.ArgmaxKey)
}

func TestPartitionByFieldCI(t *testing.T) {
	t.Parallel()

	got := PartitionByFieldCI(players(), "Source", "organic", "facebook", "google")

	require.Contains(t, got, "organic")
	require.Len(t, got["organic"], 2)
	assert.Equal(t, records.Text("p1"), got["organic"][0].Get("uid"))
	assert.Equal(t, records.Text("p3"), got["organic"][1].Get("uid"))
	assert.Len(t, got["facebook"], 1)
	assert.NotNil(t, got["google"])
	assert.Empty(t, got["google"])
}

func TestPartitionByFieldCI_MatchesCaseVariantsOnly(t *testing.T) {
	t.Parallel()

	rs := records.RecordSet{
		{"s": records.Text("Organic")},
		{"s": records.Text("ORGANIC")},
		{"s": records.Text("organic")},
		{"s": records.Text("organics")},
		{"s": records.Text(" organic")},
		{},
	}

	got := PartitionByFieldCI(rs, "s", "organic")

	assert.Len(t, got["organic"], 3)
}

func TestGroupDuplicates(t *testing.T) {
	t.Parallel()

	got := GroupDuplicates(players(), "IP")

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, records.Text("1.1.1.1"), r.Get("IP"))
	}
	assert.Equal(t, records.Text("p1"), got[0].Get("uid"))
	assert.Equal(t, records.Text("p3"), got[1].Get("uid"))
	assert.Equal(t, records.Text("p5"), got[2].Get("uid"))
}

func TestGroupDuplicates_NoFalsePositivesOrNegatives(t *testing.T) {
	t.Parallel()

	rs := records.RecordSet{
		{"f": records.Text("a")},
		{"f": records.Number(1)},
		{"f": records.Text("1")},
		{"f": records.Text("a")},
		{},
		{},
		{"f": records.Number(1)},
		{"f": records.Text("b")},
	}

	got := GroupDuplicates(rs, "f")

	counts := map[records.Value]int{}
	for _, r := range rs {
		if v := r.Get("f"); !v.IsAbsent() {
			counts[v]++
		}
	}
	expected := 0
	for _, r := range rs {
		if v := r.Get("f"); !v.IsAbsent() && counts[v] >= 2 {
			expected++
		}
	}
	assert.Len(t, got, expected)
	for _, r := range got {
		assert.GreaterOrEqual(t, counts[r.Get("f")], 2)
	}
}

func TestCountBy(t *testing.T) {
	t.Parallel()

	got := CountBy(players(), "IP", nil)

	assert.Equal(t, map[string]int{"1.1.1.1": 3, "2.2.2.2": 1, "": 1}, got)
}
