package config

import (
	"fmt"
	"os"
	"strings"

	"talent-match/internal/domain/matching"

	"gopkg.in/yaml.v3"
)

// MatchingFile is the optional YAML file tuning the scorer and extending the
// known-location table.
type MatchingFile struct {
	Weights   WeightOverrides `yaml:"weights"`
	Locations []KnownLocation `yaml:"locations"`
}

// WeightOverrides leaves a criterion at its default when the key is absent.
type WeightOverrides struct {
	Skills      *float64 `yaml:"skills"`
	Location    *float64 `yaml:"location"`
	Description *float64 `yaml:"description"`
	Experience  *float64 `yaml:"experience"`
}

type KnownLocation struct {
	Name      string   `yaml:"name"`
	Aliases   []string `yaml:"aliases"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
}

func (o WeightOverrides) Apply(w matching.Weights) matching.Weights {
	if o.Skills != nil {
		w.Skills = *o.Skills
	}
	if o.Location != nil {
		w.Location = *o.Location
	}
	if o.Description != nil {
		w.Description = *o.Description
	}
	if o.Experience != nil {
		w.Experience = *o.Experience
	}
	return w
}

// LoadMatchingFile reads path. An empty path yields an empty file.
func LoadMatchingFile(path string) (MatchingFile, error) {
	var f MatchingFile
	path = strings.TrimSpace(path)
	if path == "" {
		return f, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return MatchingFile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := f.Weights.Apply(matching.DefaultWeights()).Validate(); err != nil {
		return MatchingFile{}, fmt.Errorf("%s: %w", path, err)
	}
	for i, loc := range f.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return MatchingFile{}, fmt.Errorf("%s: location #%d has no name", path, i+1)
		}
		c := matching.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
		if !c.Valid() {
			return MatchingFile{}, fmt.Errorf("%s: location %q has out of range coordinates", path, loc.Name)
		}
	}
	return f, nil
}
