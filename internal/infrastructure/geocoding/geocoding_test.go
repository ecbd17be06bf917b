package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/domain/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticGeocoder(t *testing.T) {
	g := NewStaticGeocoder()
	ctx := context.Background()

	tests := []struct {
		name    string
		address string
		want    matching.Coordinates
		miss    bool
	}{
		{name: "exact", address: "London", want: defaultLocations["london"]},
		{name: "case and spacing", address: "  NEW   york ", want: defaultLocations["new york"]},
		{name: "address contains name", address: "Central London, UK", want: defaultLocations["london"]},
		{name: "name contains address", address: "manch", want: defaultLocations["manchester"]},
		{name: "too short for partial", address: "ma", miss: true},
		{name: "unknown", address: "Atlantis", miss: true},
		{name: "blank", address: "   ", miss: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Geocode(ctx, tt.address)
			if tt.miss {
				assert.ErrorIs(t, err, matching.ErrLocationNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticGeocoder_ExtraLocations(t *testing.T) {
	springfield := matching.Coordinates{Latitude: 39.7817, Longitude: -89.6501}
	g := NewStaticGeocoder(
		Location{Name: "Springfield", Aliases: []string{"Springfield IL"}, Coordinates: springfield},
		Location{Name: "London", Coordinates: matching.Coordinates{Latitude: 42.9849, Longitude: -81.2453}},
	)

	got, err := g.Geocode(context.Background(), "springfield il")
	require.NoError(t, err)
	assert.Equal(t, springfield, got)

	got, err = g.Geocode(context.Background(), "london")
	require.NoError(t, err)
	assert.InDelta(t, 42.9849, got.Latitude, 1e-9)

	assert.Equal(t, len(defaultLocations)+2, g.Len())
}

func TestStaticGeocoder_PrefersLongestContainedName(t *testing.T) {
	g := NewStaticGeocoder(Location{Name: "Reading Station", Coordinates: matching.Coordinates{Latitude: 51.4589, Longitude: -0.9717}})

	got, err := g.Geocode(context.Background(), "Office near Reading Station")
	require.NoError(t, err)
	assert.InDelta(t, 51.4589, got.Latitude, 1e-9)
}

func newTestHTTPGeocoder(t *testing.T, h http.HandlerFunc) *HTTPGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g := NewHTTPGeocoder(config.GeocodingConfig{
		BaseURL:    srv.URL + "/",
		UserAgent:  "talent-match-test",
		MaxRetries: 2,
		Timeout:    time.Second,
	}, nil)
	require.NotNil(t, g)
	g.backoff = time.Millisecond
	return g
}

func TestHTTPGeocoder_Success(t *testing.T) {
	g := newTestHTTPGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Leeds, UK", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "talent-match-test", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode([]searchResult{{Lat: "53.8008", Lon: "-1.5491", DisplayName: "Leeds"}})
	})

	got, err := g.Geocode(context.Background(), " Leeds, UK ")
	require.NoError(t, err)
	assert.Equal(t, matching.Coordinates{Latitude: 53.8008, Longitude: -1.5491}, got)
}

func TestHTTPGeocoder_EmptyResultIsMiss(t *testing.T) {
	g := newTestHTTPGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	_, err := g.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, matching.ErrLocationNotFound)
}

func TestHTTPGeocoder_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestHTTPGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"51.4545","lon":"-2.5879"}]`))
	})

	got, err := g.Geocode(context.Background(), "Bristol")
	require.NoError(t, err)
	assert.InDelta(t, 51.4545, got.Latitude, 1e-9)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGeocoder_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	g := newTestHTTPGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := g.Geocode(context.Background(), "Bristol")
	require.Error(t, err)
	assert.False(t, errors.Is(err, matching.ErrLocationNotFound))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGeocoder_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	g := newTestHTTPGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad query", http.StatusBadRequest)
	})

	_, err := g.Geocode(context.Background(), "Bristol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewHTTPGeocoder_Unconfigured(t *testing.T) {
	assert.Nil(t, NewHTTPGeocoder(config.GeocodingConfig{}, nil))
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

type countingGeocoder struct {
	calls atomic.Int32
	fn    func(address string) (matching.Coordinates, error)
}

func (c *countingGeocoder) Geocode(_ context.Context, address string) (matching.Coordinates, error) {
	c.calls.Add(1)
	return c.fn(address)
}

func TestCachedGeocoder_MemoizesHitsAndMisses(t *testing.T) {
	static := NewStaticGeocoder()
	upstream := &countingGeocoder{fn: func(a string) (matching.Coordinates, error) {
		return static.Geocode(context.Background(), a)
	}}
	store := newMemoryStore()
	g := NewCachedGeocoder(upstream, store, 2*time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := g.Geocode(ctx, "Glasgow")
		require.NoError(t, err)
		assert.Equal(t, defaultLocations["glasgow"], got)
	}
	_, err := g.Geocode(ctx, "  GLASGOW ")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := g.Geocode(ctx, "Atlantis")
		assert.ErrorIs(t, err, matching.ErrLocationNotFound)
	}

	assert.Equal(t, int32(2), upstream.calls.Load())
	assert.Equal(t, 2*time.Hour, store.ttls[CacheKey("glasgow")])
	assert.Equal(t, time.Hour, store.ttls[CacheKey("atlantis")])
}

func TestCachedGeocoder_DoesNotCacheFailures(t *testing.T) {
	upstream := &countingGeocoder{fn: func(string) (matching.Coordinates, error) {
		return matching.Coordinates{}, errors.New("upstream down")
	}}
	store := newMemoryStore()
	g := NewCachedGeocoder(upstream, store, time.Hour, nil)

	for i := 0; i < 2; i++ {
		_, err := g.Geocode(context.Background(), "Leeds")
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), upstream.calls.Load())
	assert.Empty(t, store.data)
}

func TestCachedGeocoder_NilStore(t *testing.T) {
	g := NewCachedGeocoder(NewStaticGeocoder(), nil, 0, nil)
	got, err := g.Geocode(context.Background(), "Cardiff")
	require.NoError(t, err)
	assert.Equal(t, defaultLocations["cardiff"], got)
}

func TestChain(t *testing.T) {
	failing := matching.GeocoderFunc(func(context.Context, string) (matching.Coordinates, error) {
		return matching.Coordinates{}, errors.New("boom")
	})
	var unconfigured *HTTPGeocoder

	c := NewChain(unconfigured, failing, NewStaticGeocoder())
	require.Len(t, c, 2)

	got, err := c.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, defaultLocations["paris"], got)

	_, err = c.Geocode(context.Background(), "Atlantis")
	assert.EqualError(t, err, "boom")

	_, err = NewChain(NewStaticGeocoder()).Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, matching.ErrLocationNotFound)

	_, err = NewChain().Geocode(context.Background(), "Paris")
	assert.ErrorIs(t, err, matching.ErrLocationNotFound)
}
