package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// MatchHandler scores and ranks postings and profiles supplied in the
// request body.
type MatchHandler struct {
	matcher usecase.Matcher
	maxK    int
}

func NewMatchHandler(matcher usecase.Matcher, maxK int) *MatchHandler {
	return &MatchHandler{matcher: matcher, maxK: maxK}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/match")
	grp.Post("/score", h.Score)
	grp.Post("/candidates", h.RankCandidates)
	grp.Post("/jobs", h.RankJobs)
	grp.Post("/nearby", h.Nearby)
}

func (h *MatchHandler) Score(c fiber.Ctx) error {
	var req dto.ScoreRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	res, err := h.matcher.ScoreDirect(c.Context(), req.Job.ToDomain(), req.Candidate.ToDomain())
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewMatchResult(res))
}

func (h *MatchHandler) RankCandidates(c fiber.Ctx) error {
	var req dto.RankCandidatesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	out, err := h.matcher.RankCandidatesForJob(c.Context(),
		req.Job.ToDomain(),
		dto.CandidatesToDomain(req.Candidates),
		h.rankOptions(req.K, req.MaxDistanceKm),
	)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewCandidateMatches(out))
}

func (h *MatchHandler) RankJobs(c fiber.Ctx) error {
	var req dto.RankJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	out, err := h.matcher.RankJobsForCandidate(c.Context(),
		req.Candidate.ToDomain(),
		dto.JobsToDomain(req.Jobs),
		h.rankOptions(req.K, req.MaxDistanceKm),
	)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewJobMatches(out))
}

func (h *MatchHandler) Nearby(c fiber.Ctx) error {
	var req dto.NearbyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	ref := matching.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude}
	out, err := h.matcher.FilterByProximity(c.Context(), dto.JobsToDomain(req.Jobs), ref, req.MaxDistanceKm)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewJobDistances(out))
}

func (h *MatchHandler) rankOptions(k int, maxDistanceKm float64) matching.RankOptions {
	if h.maxK > 0 && k > h.maxK {
		k = h.maxK
	}
	return matching.RankOptions{K: k, MaxDistanceKm: maxDistanceKm}
}
