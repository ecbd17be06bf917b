package matching

import (
	"context"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	scorer  *Scorer
	geo     *GeoResolver
	workers int
}

// NewEngine returns a ranking engine scoring at most workers pool members at
// once. workers <= 0 uses GOMAXPROCS.
func NewEngine(scorer *Scorer, geo *GeoResolver, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{scorer: scorer, geo: geo, workers: workers}
}

type ranked[T any] struct {
	item  T
	id    string
	index int
	res   MatchResult
}

func (e *Engine) RankCandidates(ctx context.Context, job JobPosting, pool []CandidateProfile, opts RankOptions) ([]CandidateMatch, error) {
	if p, ok := e.geo.ResolveJob(ctx, job); ok {
		job.Coordinates = &p
	}

	scored, err := rankPool(ctx, e.workers, pool, opts,
		func(c CandidateProfile) uuid.UUID { return c.ID },
		func(ctx context.Context, c CandidateProfile) MatchResult { return e.scorer.Score(ctx, job, c) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]CandidateMatch, 0, len(scored))
	for _, it := range scored {
		out = append(out, CandidateMatch{Candidate: it.item, MatchResult: it.res})
	}
	return out, nil
}

func (e *Engine) RankJobs(ctx context.Context, cand CandidateProfile, pool []JobPosting, opts RankOptions) ([]JobMatch, error) {
	if p, ok := e.geo.ResolveCandidate(ctx, cand); ok {
		cand.Coordinates = &p
	}

	scored, err := rankPool(ctx, e.workers, pool, opts,
		func(j JobPosting) uuid.UUID { return j.ID },
		func(ctx context.Context, j JobPosting) MatchResult { return e.scorer.Score(ctx, j, cand) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]JobMatch, 0, len(scored))
	for _, it := range scored {
		out = append(out, JobMatch{Job: it.item, MatchResult: it.res})
	}
	return out, nil
}

// rankPool scores every member concurrently, applies the distance cutoff and
// returns the best opts.K members ordered by score, then ID, then pool order.
func rankPool[T any](
	ctx context.Context,
	workers int,
	pool []T,
	opts RankOptions,
	idOf func(T) uuid.UUID,
	score func(context.Context, T) MatchResult,
) ([]ranked[T], error) {
	if len(pool) == 0 {
		return []ranked[T]{}, nil
	}

	all := make([]ranked[T], len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pool {
		g.Go(func() error {
			all[i] = ranked[T]{
				item:  pool[i],
				id:    idOf(pool[i]).String(),
				index: i,
				res:   score(gctx, pool[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept := all[:0]
	for _, it := range all {
		if tooFar(it.res.DistanceKm, opts.MaxDistanceKm) {
			continue
		}
		kept = append(kept, it)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].res.Score != kept[j].res.Score {
			return kept[i].res.Score > kept[j].res.Score
		}
		return kept[i].id < kept[j].id
	})

	if k := opts.limit(); len(kept) > k {
		kept = kept[:k]
	}
	return kept, nil
}

func tooFar(distanceKm *float64, maxDistanceKm float64) bool {
	if maxDistanceKm <= 0 || distanceKm == nil {
		return false
	}
	return *distanceKm > maxDistanceKm
}

// NearbyJobs keeps jobs that resolve to coordinates within maxDistanceKm of
// ref, in their original order.
func (e *Engine) NearbyJobs(ctx context.Context, jobs []JobPosting, ref Coordinates, maxDistanceKm float64) ([]JobDistance, error) {
	if len(jobs) == 0 {
		return []JobDistance{}, nil
	}

	type slot struct {
		ok       bool
		distance float64
	}
	slots := make([]slot, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range jobs {
		g.Go(func() error {
			p, ok := e.geo.ResolveJob(gctx, jobs[i])
			if !ok {
				return nil
			}
			slots[i] = slot{ok: true, distance: DistanceKm(ref, p)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]JobDistance, 0, len(jobs))
	for i, s := range slots {
		if !s.ok || s.distance > maxDistanceKm {
			continue
		}
		out = append(out, JobDistance{Job: jobs[i], DistanceKm: s.distance})
	}
	return out, nil
}
