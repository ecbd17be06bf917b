package geocoding

import (
	"context"
	"sort"
	"strings"

	"talent-match/internal/domain/matching"
)

// minSubstringQuery keeps very short inputs such as "uk" from matching the
// first table entry that happens to contain them.
const minSubstringQuery = 3

var defaultLocations = map[string]matching.Coordinates{
	"london":        {Latitude: 51.5074, Longitude: -0.1278},
	"manchester":    {Latitude: 53.4808, Longitude: -2.2426},
	"birmingham":    {Latitude: 52.4862, Longitude: -1.8904},
	"leeds":         {Latitude: 53.8008, Longitude: -1.5491},
	"liverpool":     {Latitude: 53.4084, Longitude: -2.9916},
	"sheffield":     {Latitude: 53.3811, Longitude: -1.4701},
	"bristol":       {Latitude: 51.4545, Longitude: -2.5879},
	"newcastle":     {Latitude: 54.9783, Longitude: -1.6178},
	"nottingham":    {Latitude: 52.9548, Longitude: -1.1581},
	"leicester":     {Latitude: 52.6369, Longitude: -1.1398},
	"cambridge":     {Latitude: 52.2053, Longitude: 0.1218},
	"oxford":        {Latitude: 51.7520, Longitude: -1.2577},
	"reading":       {Latitude: 51.4543, Longitude: -0.9781},
	"brighton":      {Latitude: 50.8225, Longitude: -0.1372},
	"southampton":   {Latitude: 50.9097, Longitude: -1.4044},
	"cardiff":       {Latitude: 51.4816, Longitude: -3.1791},
	"edinburgh":     {Latitude: 55.9533, Longitude: -3.1883},
	"glasgow":       {Latitude: 55.8642, Longitude: -4.2518},
	"belfast":       {Latitude: 54.5973, Longitude: -5.9301},
	"dublin":        {Latitude: 53.3498, Longitude: -6.2603},
	"paris":         {Latitude: 48.8566, Longitude: 2.3522},
	"berlin":        {Latitude: 52.5200, Longitude: 13.4050},
	"amsterdam":     {Latitude: 52.3676, Longitude: 4.9041},
	"madrid":        {Latitude: 40.4168, Longitude: -3.7038},
	"new york":      {Latitude: 40.7128, Longitude: -74.0060},
	"san francisco": {Latitude: 37.7749, Longitude: -122.4194},
	"toronto":       {Latitude: 43.6532, Longitude: -79.3832},
	"singapore":     {Latitude: 1.3521, Longitude: 103.8198},
	"jakarta":       {Latitude: -6.2088, Longitude: 106.8456},
	"bandung":       {Latitude: -6.9175, Longitude: 107.6191},
	"surabaya":      {Latitude: -7.2575, Longitude: 112.7521},
	"sydney":        {Latitude: -33.8688, Longitude: 151.2093},
}

type Location struct {
	Name        string
	Aliases     []string
	Coordinates matching.Coordinates
}

// StaticGeocoder resolves addresses against an in-memory table: exact name
// first, then the longest name contained in the address, then the first name
// (alphabetically) containing the address.
type StaticGeocoder struct {
	exact map[string]matching.Coordinates
	names []string
}

// NewStaticGeocoder builds a table from the built-in locations plus extra,
// which override built-ins with the same name.
func NewStaticGeocoder(extra ...Location) *StaticGeocoder {
	exact := make(map[string]matching.Coordinates, len(defaultLocations)+len(extra))
	for k, v := range defaultLocations {
		exact[k] = v
	}
	for _, loc := range extra {
		for _, n := range append([]string{loc.Name}, loc.Aliases...) {
			n = normalizeAddress(n)
			if n == "" {
				continue
			}
			exact[n] = loc.Coordinates
		}
	}

	names := make([]string, 0, len(exact))
	for k := range exact {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	return &StaticGeocoder{exact: exact, names: names}
}

func (g *StaticGeocoder) Geocode(_ context.Context, address string) (matching.Coordinates, error) {
	q := normalizeAddress(address)
	if q == "" {
		return matching.Coordinates{}, matching.ErrLocationNotFound
	}
	if c, ok := g.exact[q]; ok {
		return c, nil
	}

	for _, n := range g.names {
		if strings.Contains(q, n) {
			return g.exact[n], nil
		}
	}

	if len(q) >= minSubstringQuery {
		for _, n := range g.sortedAlpha() {
			if strings.Contains(n, q) {
				return g.exact[n], nil
			}
		}
	}

	return matching.Coordinates{}, matching.ErrLocationNotFound
}

func (g *StaticGeocoder) Len() int {
	return len(g.exact)
}

func (g *StaticGeocoder) sortedAlpha() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	sort.Strings(out)
	return out
}

// normalizeAddress lowercases and collapses whitespace.
func normalizeAddress(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var _ matching.Geocoder = (*StaticGeocoder)(nil)
