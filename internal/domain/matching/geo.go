package matching

import (
	"context"
	"errors"
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

var ErrLocationNotFound = errors.New("location not found")

// Geocoder resolves free-text addresses to coordinates. Implementations must be
// idempotent and case-insensitive, and return ErrLocationNotFound on a miss.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

type GeocoderFunc func(ctx context.Context, address string) (Coordinates, error)

func (f GeocoderFunc) Geocode(ctx context.Context, address string) (Coordinates, error) {
	return f(ctx, address)
}

type GeoResolver struct {
	geocoder Geocoder
}

func NewGeoResolver(g Geocoder) *GeoResolver {
	return &GeoResolver{geocoder: g}
}

// Resolve never fails: geocoder errors are reported as not found so callers
// can fall back to textual comparison.
func (r *GeoResolver) Resolve(ctx context.Context, text string) (Coordinates, bool) {
	if r == nil || r.geocoder == nil {
		return Coordinates{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Coordinates{}, false
	}
	c, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		return Coordinates{}, false
	}
	if !c.Valid() {
		return Coordinates{}, false
	}
	return c, true
}

func (r *GeoResolver) resolvePoint(ctx context.Context, existing *Coordinates, text string) (Coordinates, bool) {
	if existing != nil && existing.Valid() {
		return *existing, true
	}
	return r.Resolve(ctx, text)
}

func (r *GeoResolver) ResolveJob(ctx context.Context, job JobPosting) (Coordinates, bool) {
	return r.resolvePoint(ctx, job.Coordinates, job.Location)
}

func (r *GeoResolver) ResolveCandidate(ctx context.Context, c CandidateProfile) (Coordinates, bool) {
	return r.resolvePoint(ctx, c.Coordinates, c.Location)
}

// DistanceKm is the Haversine great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// LocationScore decays linearly from 1 at zero distance to 0 at maxDistanceKm.
func LocationScore(distanceKm, maxDistanceKm float64) float64 {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	if distanceKm <= 0 {
		return 1
	}
	if distanceKm >= maxDistanceKm {
		return 0
	}
	return 1 - distanceKm/maxDistanceKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
