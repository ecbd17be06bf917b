package matching

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// textualLocationScore is used when coordinates are unavailable but one
// location string contains the other.
const textualLocationScore = 0.7

type Weights struct {
	Skills      float64 `yaml:"skills" json:"skills"`
	Location    float64 `yaml:"location" json:"location"`
	Description float64 `yaml:"description" json:"description"`
	Experience  float64 `yaml:"experience" json:"experience"`
}

func DefaultWeights() Weights {
	return Weights{
		Skills:      0.5,
		Location:    0.2,
		Description: 0.2,
		Experience:  0.1,
	}
}

func (w Weights) Validate() error {
	if w.Skills < 0 || w.Location < 0 || w.Description < 0 || w.Experience < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidInput)
	}
	if w.Skills+w.Location+w.Description+w.Experience == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidInput)
	}
	return nil
}

type Scorer struct {
	weights Weights
	geo     *GeoResolver
}

func NewScorer(weights Weights, geo *GeoResolver) *Scorer {
	return &Scorer{weights: weights, geo: geo}
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

type accumulator struct {
	total       float64
	maxPossible float64
}

func (a *accumulator) add(score, weight float64) {
	a.total += score * weight
	a.maxPossible += weight
}

func (a accumulator) score() float64 {
	if a.maxPossible <= 0 {
		return 0
	}
	return clamp01(a.total / a.maxPossible)
}

// Score compares one job with one candidate. Criteria lacking data on either
// side are left out of the weighted average entirely.
func (s *Scorer) Score(ctx context.Context, job JobPosting, cand CandidateProfile) MatchResult {
	var acc accumulator
	var details MatchDetails
	var distance *float64

	if len(lowerNonBlank(job.Requirements)) > 0 && len(lowerNonBlank(cand.Skills)) > 0 {
		_, details.SkillsMatch = SkillsOverlap(job.Requirements, cand.Skills)
		acc.add(details.SkillsMatch, s.weights.Skills)
	}

	if hasLocation(job.Location, job.Coordinates) && hasLocation(cand.Location, cand.Coordinates) {
		details.LocationMatch, distance = s.locationMatch(ctx, job, cand)
		acc.add(details.LocationMatch, s.weights.Location)
	}

	if hasText(job.Description) {
		jobKeywords := ExtractKeywords(job.Description)
		if hasText(cand.Bio) {
			details.DescriptionMatch = KeywordOverlap(jobKeywords, ExtractKeywords(cand.Bio))
			acc.add(details.DescriptionMatch, s.weights.Description)
		}
		if hasText(cand.Experience) {
			details.ExperienceMatch = KeywordOverlap(jobKeywords, ExtractKeywords(cand.Experience))
			acc.add(details.ExperienceMatch, s.weights.Experience)
		}
	}

	score := acc.score()
	return MatchResult{
		Score:           score,
		MatchPercentage: int(math.Round(score * 100)),
		MatchDetails:    details,
		DistanceKm:      distance,
	}
}

func (s *Scorer) locationMatch(ctx context.Context, job JobPosting, cand CandidateProfile) (float64, *float64) {
	jobPoint, jobOK := s.geo.ResolveJob(ctx, job)
	if jobOK {
		candPoint, candOK := s.geo.ResolveCandidate(ctx, cand)
		if candOK {
			d := DistanceKm(jobPoint, candPoint)
			return LocationScore(d, cand.travelLimitKm()), &d
		}
	}
	return textualLocationMatch(job.Location, cand.Location), nil
}

func textualLocationMatch(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return textualLocationScore
	}
	return 0
}

func hasLocation(text string, c *Coordinates) bool {
	return hasText(text) || (c != nil && c.Valid())
}
