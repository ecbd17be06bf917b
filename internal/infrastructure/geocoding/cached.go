package geocoding

import (
	"context"
	"errors"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/logging"

	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix = "geo:"
	maxNegativeTTL = time.Hour
)

// JSONStore is the subset of the Redis cache the geocoder needs.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type cachedEntry struct {
	Found     bool    `json:"found"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lon,omitempty"`
}

// CachedGeocoder memoizes lookups in a JSONStore, including misses, and
// collapses concurrent lookups of the same address into one upstream call.
type CachedGeocoder struct {
	next   matching.Geocoder
	store  JSONStore
	ttl    time.Duration
	group  singleflight.Group
	logger *logging.Logger
}

func NewCachedGeocoder(next matching.Geocoder, store JSONStore, ttl time.Duration, logger *logging.Logger) *CachedGeocoder {
	if logger == nil {
		logger = logging.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedGeocoder{next: next, store: store, ttl: ttl, logger: logger.Named("geocache")}
}

func CacheKey(address string) string {
	return cacheKeyPrefix + normalizeAddress(address)
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (matching.Coordinates, error) {
	norm := normalizeAddress(address)
	if norm == "" {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}
	key := cacheKeyPrefix + norm

	if g.store != nil {
		var e cachedEntry
		found, err := g.store.GetJSON(ctx, key, &e)
		if err != nil {
			g.logger.Debug("geocode cache read failed", "key", key, "err", err)
		}
		if found {
			if !e.Found {
				return matching.Coordinates{}, matching.ErrLocationNotFound
			}
			return matching.Coordinates{Latitude: e.Latitude, Longitude: e.Longitude}, nil
		}
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		return g.lookup(ctx, key, norm)
	})
	if err != nil {
		return matching.Coordinates{}, err
	}
	return v.(matching.Coordinates), nil
}

func (g *CachedGeocoder) lookup(ctx context.Context, key, address string) (matching.Coordinates, error) {
	if g.next == nil {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}

	c, err := g.next.Geocode(ctx, address)
	switch {
	case err == nil:
		g.put(ctx, key, cachedEntry{Found: true, Latitude: c.Latitude, Longitude: c.Longitude}, g.ttl)
		return c, nil
	case errors.Is(err, matching.ErrLocationNotFound):
		g.put(ctx, key, cachedEntry{}, min(g.ttl, maxNegativeTTL))
		return matching.Coordinates{}, err
	default:
		return matching.Coordinates{}, err
	}
}

func (g *CachedGeocoder) put(ctx context.Context, key string, e cachedEntry, ttl time.Duration) {
	if g.store == nil {
		return
	}
	if err := g.store.SetJSON(ctx, key, e, ttl); err != nil {
		g.logger.Debug("geocode cache write failed", "key", key, "err", err)
	}
}

var _ matching.Geocoder = (*CachedGeocoder)(nil)
