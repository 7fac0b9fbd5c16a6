package geo

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"player-analytics/internal/records"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMMDB(t *testing.T) string {
	t.Helper()
	w, err := mmdbwriter.New(mmdbwriter.Options{DatabaseType: "GeoLite2-City", RecordSize: 24})
	require.NoError(t, err)

	for cidr, iso := range map[string]string{
		"1.1.1.0/24":     "AU",
		"8.8.8.0/24":     "US",
		"2a00:1450::/32": "VN",
	} {
		_, network, err := net.ParseCIDR(cidr)
		require.NoError(t, err)
		require.NoError(t, w.Insert(network, mmdbtype.Map{
			"country": mmdbtype.Map{"iso_code": mmdbtype.String(iso)},
		}))
	}

	path := filepath.Join(t.TempDir(), "city.mmdb")
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	_, err = w.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func newTestResolver(t *testing.T) Resolver {
	t.Helper()
	r, err := NewResolver(writeMMDB(t), 100)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestResolver_CountryCode(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	tests := []struct {
		ip   string
		want string
	}{
		{ip: "8.8.8.8", want: "US"},
		{ip: " 1.1.1.1 ", want: "AU"},
		{ip: "2a00:1450::1", want: "VN"},
		{ip: "9.9.9.9", want: ""},
		{ip: "not-an-ip", want: ""},
		{ip: "", want: ""},
	}

	for _, tt := range tests {
		// twice, so the second call may be served from the cache
		assert.Equal(t, tt.want, r.CountryCode(tt.ip), tt.ip)
		assert.Equal(t, tt.want, r.CountryCode(tt.ip), tt.ip)
	}
}

func TestNewResolver_MissingDatabase(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(filepath.Join(t.TempDir(), "missing.mmdb"), 10)

	assert.Error(t, err)
}

func TestFillMissingGeo(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)
	rs := records.RecordSet{
		{"uid": records.Text("p1"), "IP": records.Text("8.8.8.8"), "Geo": records.Text("vn")},
		{"uid": records.Text("p2"), "IP": records.Text("8.8.8.8")},
		{"uid": records.Text("p3"), "IP": records.Text("1.1.1.1"), "Geo": records.Text("  ")},
		{"uid": records.Text("p4"), "IP": records.Text("garbage")},
		{"uid": records.Text("p5"), "IP": records.Text("9.9.9.9")},
	}

	got := FillMissingGeo(rs, "IP", "Geo", r)

	require.Len(t, got, 5)
	assert.Equal(t, records.Text("vn"), got[0].Get("Geo"))
	assert.Equal(t, records.Text("US"), got[1].Get("Geo"))
	assert.Equal(t, records.Text("AU"), got[2].Get("Geo"))
	assert.True(t, got[3].Get("Geo").IsAbsent())
	assert.True(t, got[4].Get("Geo").IsAbsent())

	// inputs untouched
	assert.False(t, rs[1].Has("Geo"))
	assert.Equal(t, records.Text("  "), rs[2].Get("Geo"))
}

func TestFillMissingGeo_NopResolver(t *testing.T) {
	t.Parallel()

	rs := records.RecordSet{{"IP": records.Text("8.8.8.8")}}

	got := FillMissingGeo(rs, "IP", "Geo", NewNopResolver())

	assert.Equal(t, rs, got)
}
