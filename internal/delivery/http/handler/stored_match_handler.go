package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// StoredMatchHandler serves matches between postings and profiles already
// held in storage.
type StoredMatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewStoredMatchHandler(uc usecase.MatchingUsecase) *StoredMatchHandler {
	return &StoredMatchHandler{uc: uc}
}

func (h *StoredMatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/nearby", h.NearbyJobs)
	r.Get("/jobs/:job_id/candidates", h.CandidatesForJob)
	r.Get("/jobs/:job_id/candidates/:candidate_id/score", h.Score)
	r.Get("/candidates/:candidate_id/jobs", h.JobsForCandidate)
}

func (h *StoredMatchHandler) CandidatesForJob(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}
	opts, err := rankOptionsFromQuery(c)
	if err != nil {
		return err
	}

	out, err := h.uc.RankCandidatesForJob(c.Context(), jobID, opts)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewCandidateMatches(out))
}

func (h *StoredMatchHandler) JobsForCandidate(c fiber.Ctx) error {
	candidateID, err := parseUUIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	opts, err := rankOptionsFromQuery(c)
	if err != nil {
		return err
	}

	out, err := h.uc.RankJobsForCandidate(c.Context(), candidateID, opts)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewJobMatches(out))
}

func (h *StoredMatchHandler) Score(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}
	candidateID, err := parseUUIDParam(c, "candidate_id")
	if err != nil {
		return err
	}

	res, err := h.uc.Score(c.Context(), jobID, candidateID)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewMatchResult(res))
}

func (h *StoredMatchHandler) NearbyJobs(c fiber.Ctx) error {
	lat, err := parseQueryFloat(c, "lat", 0, true)
	if err != nil {
		return err
	}
	lon, err := parseQueryFloat(c, "lon", 0, true)
	if err != nil {
		return err
	}
	maxKm, err := parseQueryFloat(c, "max_distance_km", matching.DefaultMaxDistanceKm, false)
	if err != nil {
		return err
	}

	out, err := h.uc.NearbyJobs(c.Context(), matching.Coordinates{Latitude: lat, Longitude: lon}, maxKm)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.OK(c, dto.NewJobDistances(out))
}

func rankOptionsFromQuery(c fiber.Ctx) (matching.RankOptions, error) {
	k, err := parseQueryInt(c, "k", 0)
	if err != nil {
		return matching.RankOptions{}, err
	}
	maxKm, err := parseQueryFloat(c, "max_distance_km", 0, false)
	if err != nil {
		return matching.RankOptions{}, err
	}
	return matching.RankOptions{K: k, MaxDistanceKm: maxKm}, nil
}
