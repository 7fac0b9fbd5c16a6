package aggregators

import (
	"sort"
	"testing"

	"player-analytics/internal/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracking() records.RecordSet {
	return records.RecordSet{
		{"key": records.Text("t1"), "ip": records.Text("1.1.1.1"), "Source": records.Text("ads")},
		{"key": records.Text("t2"), "ip": records.Text("9.9.9.9")},
		{"key": records.Text("t3"), "ip": records.Text("1.1.1.1"), "campaign": records.Text("c7")},
		{"key": records.Text("t4")},
	}
}

func TestInnerJoin_MatchesOnExactKey(t *testing.T) {
	t.Parallel()

	got := InnerJoin(players(), tracking(), "IP", "ip")

	// three players on 1.1.1.1 times two tracking rows on 1.1.1.1
	require.Len(t, got, 6)
	first := got[0]
	assert.Equal(t, records.Text("p1"), first.Get("uid"))
	assert.Equal(t, records.Text("t1"), first.Get("key"))
	assert.Equal(t, records.Text("1.1.1.1"), first.Get("IP"))
	assert.Equal(t, records.Text("1.1.1.1"), first.Get("ip"))
	assert.Equal(t, records.Text("Organic"), first.Get("Source_left"))
	assert.Equal(t, records.Text("ads"), first.Get("Source_right"))
	assert.False(t, first.Has("Source"))

	second := got[1]
	assert.Equal(t, records.Text("t3"), second.Get("key"))
	assert.Equal(t, records.Text("Organic"), second.Get("Source"))
	assert.Equal(t, records.Text("c7"), second.Get("campaign"))
}

func TestInnerJoin_SharedKeyNameKeptOnce(t *testing.T) {
	t.Parallel()

	left := records.RecordSet{{"ip": records.Text("x"), "a": records.Number(1)}}
	right := records.RecordSet{{"ip": records.Text("x"), "a": records.Number(2)}}

	got := InnerJoin(left, right, "ip", "ip")

	require.Len(t, got, 1)
	assert.Equal(t, records.Record{
		"ip":      records.Text("x"),
		"a_left":  records.Number(1),
		"a_right": records.Number(2),
	}, got[0])
}

func TestInnerJoin_NoTypeCoercion(t *testing.T) {
	t.Parallel()

	left := records.RecordSet{{"k": records.Text("1")}}
	right := records.RecordSet{{"k": records.Number(1)}}

	assert.Empty(t, InnerJoin(left, right, "k", "k"))
}

func TestInnerJoin_EmptyOrMissingKey(t *testing.T) {
	t.Parallel()

	assert.Empty(t, InnerJoin(nil, tracking(), "IP", "ip"))
	assert.Empty(t, InnerJoin(players(), records.RecordSet{}, "IP", "ip"))
	assert.Empty(t, InnerJoin(players(), tracking(), "Nope", "ip"))
	assert.Empty(t, InnerJoin(players(), tracking(), "IP", "nope"))
	assert.NotNil(t, InnerJoin(nil, nil, "a", "b"))
}

func TestInnerJoin_CommutativeOnKeyPairs(t *testing.T) {
	t.Parallel()

	ab := InnerJoin(players(), tracking(), "IP", "ip")
	ba := InnerJoin(tracking(), players(), "ip", "IP")

	pairs := func(rs records.RecordSet) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Get("uid").String()+"|"+r.Get("key").String())
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, pairs(ab), pairs(ba))
}
