package geocoding

import (
	"context"
	"errors"

	"talent-match/internal/domain/matching"
)

// Chain tries each geocoder in order and returns the first hit. Errors other
// than a miss are remembered and returned only if no geocoder answers.
type Chain []matching.Geocoder

func NewChain(geocoders ...matching.Geocoder) Chain {
	out := make(Chain, 0, len(geocoders))
	for _, g := range geocoders {
		if g == nil || isNilPointer(g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (c Chain) Geocode(ctx context.Context, address string) (matching.Coordinates, error) {
	var firstErr error
	for _, g := range c {
		coords, err := g.Geocode(ctx, address)
		if err == nil {
			return coords, nil
		}
		if ctx.Err() != nil {
			return matching.Coordinates{}, ctx.Err()
		}
		if !errors.Is(err, matching.ErrLocationNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return matching.Coordinates{}, firstErr
	}
	return matching.Coordinates{}, matching.ErrLocationNotFound
}

// isNilPointer catches typed nils such as a (*HTTPGeocoder)(nil) returned by
// NewHTTPGeocoder when no endpoint is configured.
func isNilPointer(g matching.Geocoder) bool {
	switch v := g.(type) {
	case *HTTPGeocoder:
		return v == nil
	case *StaticGeocoder:
		return v == nil
	case *CachedGeocoder:
		return v == nil
	}
	return false
}

var _ matching.Geocoder = Chain(nil)
