package usecase

import (
	"context"
	"errors"
	"fmt"

	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/logging"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
)

// Matcher is the subset of matching.Service the usecase drives.
type Matcher interface {
	ScoreDirect(ctx context.Context, job matching.JobPosting, cand matching.CandidateProfile) (matching.MatchResult, error)
	RankCandidatesForJob(ctx context.Context, job matching.JobPosting, candidates []matching.CandidateProfile, opts matching.RankOptions) ([]matching.CandidateMatch, error)
	RankJobsForCandidate(ctx context.Context, cand matching.CandidateProfile, jobs []matching.JobPosting, opts matching.RankOptions) ([]matching.JobMatch, error)
	FilterByProximity(ctx context.Context, jobs []matching.JobPosting, ref matching.Coordinates, maxDistanceKm float64) ([]matching.JobDistance, error)
}

type MatchingUsecase interface {
	Score(ctx context.Context, jobID, candidateID uuid.UUID) (matching.MatchResult, error)
	RankCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts matching.RankOptions) ([]matching.CandidateMatch, error)
	RankJobsForCandidate(ctx context.Context, candidateID uuid.UUID, opts matching.RankOptions) ([]matching.JobMatch, error)
	NearbyJobs(ctx context.Context, ref matching.Coordinates, maxDistanceKm float64) ([]matching.JobDistance, error)
}

type MatchingOptions struct {
	DefaultK  int
	MaxK      int
	PoolLimit int
}

// Matching loads postings and profiles from storage and hands them to the
// matching service.
type Matching struct {
	jobs       repository.JobPostingRepository
	candidates repository.CandidateProfileRepository
	matcher    Matcher
	opts       MatchingOptions
	logger     *logging.Logger
}

func NewMatchingUsecase(
	jobs repository.JobPostingRepository,
	candidates repository.CandidateProfileRepository,
	matcher Matcher,
	opts MatchingOptions,
	logger *logging.Logger,
) *Matching {
	if opts.DefaultK <= 0 {
		opts.DefaultK = matching.DefaultK
	}
	if opts.MaxK > 0 && opts.DefaultK > opts.MaxK {
		opts.DefaultK = opts.MaxK
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matching{
		jobs:       jobs,
		candidates: candidates,
		matcher:    matcher,
		opts:       opts,
		logger:     logger.Named("matching"),
	}
}

func (u *Matching) Score(ctx context.Context, jobID, candidateID uuid.UUID) (matching.MatchResult, error) {
	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	cand, err := u.loadCandidate(ctx, candidateID)
	if err != nil {
		return matching.MatchResult{}, err
	}

	res, err := u.matcher.ScoreDirect(ctx, job, cand)
	if err != nil {
		return matching.MatchResult{}, u.mapErr("score", err)
	}
	return res, nil
}

func (u *Matching) RankCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts matching.RankOptions) ([]matching.CandidateMatch, error) {
	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	pool, err := u.candidates.List(ctx, u.opts.PoolLimit)
	if err != nil {
		return nil, u.mapErr("list candidates", err)
	}

	out, err := u.matcher.RankCandidatesForJob(ctx, job, pool, u.rankOptions(opts))
	if err != nil {
		return nil, u.mapErr("rank candidates", err)
	}
	u.logger.Debug("ranked candidates", "job_id", jobID, "pool", len(pool), "returned", len(out))
	return out, nil
}

func (u *Matching) RankJobsForCandidate(ctx context.Context, candidateID uuid.UUID, opts matching.RankOptions) ([]matching.JobMatch, error) {
	cand, err := u.loadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	pool, err := u.jobs.List(ctx, u.opts.PoolLimit)
	if err != nil {
		return nil, u.mapErr("list jobs", err)
	}

	out, err := u.matcher.RankJobsForCandidate(ctx, cand, pool, u.rankOptions(opts))
	if err != nil {
		return nil, u.mapErr("rank jobs", err)
	}
	u.logger.Debug("ranked jobs", "candidate_id", candidateID, "pool", len(pool), "returned", len(out))
	return out, nil
}

func (u *Matching) NearbyJobs(ctx context.Context, ref matching.Coordinates, maxDistanceKm float64) ([]matching.JobDistance, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = matching.DefaultMaxDistanceKm
	}
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: reference coordinates out of range", ErrInvalidInput)
	}
	pool, err := u.jobs.List(ctx, u.opts.PoolLimit)
	if err != nil {
		return nil, u.mapErr("list jobs", err)
	}

	out, err := u.matcher.FilterByProximity(ctx, pool, ref, maxDistanceKm)
	if err != nil {
		return nil, u.mapErr("filter by proximity", err)
	}
	return out, nil
}

func (u *Matching) rankOptions(opts matching.RankOptions) matching.RankOptions {
	if opts.K <= 0 {
		opts.K = u.opts.DefaultK
	}
	if u.opts.MaxK > 0 && opts.K > u.opts.MaxK {
		opts.K = u.opts.MaxK
	}
	return opts
}

func (u *Matching) loadJob(ctx context.Context, id uuid.UUID) (matching.JobPosting, error) {
	if id == uuid.Nil {
		return matching.JobPosting{}, ErrJobNotFound
	}
	job, err := u.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.JobPosting{}, ErrJobNotFound
		}
		return matching.JobPosting{}, u.mapErr("find job", err)
	}
	return job, nil
}

func (u *Matching) loadCandidate(ctx context.Context, id uuid.UUID) (matching.CandidateProfile, error) {
	if id == uuid.Nil {
		return matching.CandidateProfile{}, ErrCandidateNotFound
	}
	cand, err := u.candidates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.CandidateProfile{}, ErrCandidateNotFound
		}
		return matching.CandidateProfile{}, u.mapErr("find candidate", err)
	}
	return cand, nil
}

// mapErr keeps cancellation and invalid input visible to the caller and
// collapses everything else into ErrInternal after logging it.
func (u *Matching) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, matching.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		u.logger.Error("matching usecase failed", "op", op, "err", err)
		return ErrInternal
	}
}

var _ MatchingUsecase = (*Matching)(nil)
