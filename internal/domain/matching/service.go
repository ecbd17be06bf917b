package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service is the entry point for pairwise scoring, reciprocal top-K ranking
// and proximity filtering.
type Service struct {
	scorer *Scorer
	engine *Engine
}

type ServiceConfig struct {
	Weights Weights
	Workers int
}

func NewService(cfg ServiceConfig, geocoder Geocoder) (*Service, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	geo := NewGeoResolver(geocoder)
	scorer := NewScorer(cfg.Weights, geo)
	return &Service{
		scorer: scorer,
		engine: NewEngine(scorer, geo, cfg.Workers),
	}, nil
}

func (s *Service) ScoreDirect(ctx context.Context, job JobPosting, cand CandidateProfile) (MatchResult, error) {
	if job.ID == uuid.Nil {
		return MatchResult{}, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if cand.ID == uuid.Nil {
		return MatchResult{}, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	return s.scorer.Score(ctx, job, cand), nil
}

func (s *Service) RankCandidatesForJob(ctx context.Context, job JobPosting, candidates []CandidateProfile, opts RankOptions) ([]CandidateMatch, error) {
	if job.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	return s.engine.RankCandidates(ctx, job, candidates, opts)
}

func (s *Service) RankJobsForCandidate(ctx context.Context, cand CandidateProfile, jobs []JobPosting, opts RankOptions) ([]JobMatch, error) {
	if cand.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	return s.engine.RankJobs(ctx, cand, jobs, opts)
}

func (s *Service) FilterByProximity(ctx context.Context, jobs []JobPosting, ref Coordinates, maxDistanceKm float64) ([]JobDistance, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: reference coordinates out of range", ErrInvalidInput)
	}
	if maxDistanceKm <= 0 {
		return nil, fmt.Errorf("%w: max distance must be positive", ErrInvalidInput)
	}
	return s.engine.NearbyJobs(ctx, jobs, ref, maxDistanceKm)
}
