package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/logging"

	"golang.org/x/time/rate"
)

var errRetryable = errors.New("retryable geocoder response")

// HTTPGeocoder queries a Nominatim-compatible search endpoint.
type HTTPGeocoder struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewHTTPGeocoder returns nil when no base URL is configured.
func NewHTTPGeocoder(cfg config.GeocodingConfig, logger *logging.Logger) *HTTPGeocoder {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &HTTPGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: retries,
		backoff:    250 * time.Millisecond,
		logger:     logger.Named("geocoder"),
	}
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (matching.Coordinates, error) {
	if g == nil {
		return matching.Coordinates{}, errors.New("nil http geocoder")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			wait := g.backoff << (attempt - 1)
			g.logger.Debug("retrying geocode", "address", address, "attempt", attempt, "wait", wait, "err", lastErr)
			select {
			case <-ctx.Done():
				return matching.Coordinates{}, ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return matching.Coordinates{}, err
		}

		c, err := g.search(ctx, address)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, errRetryable) {
			return matching.Coordinates{}, err
		}
		lastErr = err
	}

	g.logger.Warn("geocode failed", "address", address, "attempts", g.maxRetries+1, "err", lastErr)
	return matching.Coordinates{}, lastErr
}

func (g *HTTPGeocoder) search(ctx context.Context, address string) (matching.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := g.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return matching.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return matching.Coordinates{}, ctx.Err()
		}
		return matching.Coordinates{}, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return matching.Coordinates{}, fmt.Errorf("%w: status=%d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return matching.Coordinates{}, fmt.Errorf("geocode failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return matching.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return matching.Coordinates{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return matching.Coordinates{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	c := matching.Coordinates{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}
	return c, nil
}

var _ matching.Geocoder = (*HTTPGeocoder)(nil)
