package geo

import (
	"fmt"
	"net"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/oschwald/geoip2-golang"
)

// Resolver maps an IP address to an ISO country code, "" when unknown.
type Resolver interface {
	CountryCode(ip string) string
	Close() error
}

type mmdbResolver struct {
	db    *geoip2.Reader
	cache *ristretto.Cache
}

// NewResolver opens a GeoIP2/GeoLite2 City or Country database. Lookups are
// cached for up to cacheSize addresses.
func NewResolver(path string, cacheSize int) (Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %q: %w", path, err)
	}
	if cacheSize <= 0 {
		cacheSize = 10_000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cacheSize) * 10,
		MaxCost:     int64(cacheSize),
		BufferItems: 64,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create geo cache: %w", err)
	}
	return &mmdbResolver{db: db, cache: cache}, nil
}

func (r *mmdbResolver) CountryCode(ip string) string {
	ip = strings.TrimSpace(ip)
	if v, ok := r.cache.Get(ip); ok {
		metricLookupsTotal.WithLabelValues(resultCached).Inc()
		return v.(string)
	}

	code := r.lookup(ip)
	r.cache.Set(ip, code, 1)
	if code == "" {
		metricLookupsTotal.WithLabelValues(resultUnknown).Inc()
	} else {
		metricLookupsTotal.WithLabelValues(resultResolved).Inc()
	}
	return code
}

func (r *mmdbResolver) lookup(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	rec, err := r.db.City(parsed)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

func (r *mmdbResolver) Close() error {
	r.cache.Close()
	return r.db.Close()
}

type nopResolver struct{}

// NewNopResolver returns a Resolver that knows no addresses.
func NewNopResolver() Resolver { return nopResolver{} }

func (nopResolver) CountryCode(string) string { return "" }

func (nopResolver) Close() error { return nil }
