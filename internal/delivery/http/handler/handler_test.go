package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cities = map[string]matching.Coordinates{
	"London":     {Latitude: 51.5074, Longitude: -0.1278},
	"Reading":    {Latitude: 51.4543, Longitude: -0.9781},
	"Manchester": {Latitude: 53.4808, Longitude: -2.2426},
}

func newService(t *testing.T) *matching.Service {
	t.Helper()
	svc, err := matching.NewService(matching.ServiceConfig{Weights: matching.DefaultWeights(), Workers: 2},
		matching.GeocoderFunc(func(_ context.Context, address string) (matching.Coordinates, error) {
			if c, ok := cities[address]; ok {
				return c, nil
			}
			return matching.Coordinates{}, matching.ErrLocationNotFound
		}))
	require.NoError(t, err)
	return svc
}

func newTestApp(register func(fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	register(app.Group("/api/v1"))
	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func n(b byte) string {
	var u uuid.UUID
	u[15] = b
	return u.String()
}

func TestMatchHandler_Score(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 0).RegisterRoutes)

	status, env := call(t, app, http.MethodPost, "/api/v1/match/score", map[string]any{
		"job": map[string]any{
			"id": n(1), "title": "Go Engineer", "location": "London",
			"requirements": []string{"Go", "PostgreSQL"}, "description": "Build backend services",
		},
		"candidate": map[string]any{
			"id": n(2), "skills": []string{"go", "postgresql"}, "bio": "I build backend services", "location": "London",
		},
	})
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		Score           float64            `json:"score"`
		MatchPercentage int                `json:"match_percentage"`
		MatchDetails    map[string]float64 `json:"match_details"`
		DistanceKm      *float64           `json:"distance_km"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1.0, res.MatchDetails["skills_match"])
	assert.Equal(t, 1.0, res.MatchDetails["location_match"])
	require.NotNil(t, res.DistanceKm)
	assert.InDelta(t, 0, *res.DistanceKm, 1e-9)
	assert.Equal(t, 100, res.MatchPercentage)
}

func TestMatchHandler_ScoreRejectsMissingIDs(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 0).RegisterRoutes)

	status, env := call(t, app, http.MethodPost, "/api/v1/match/score", map[string]any{
		"job":       map[string]any{"title": "Go Engineer"},
		"candidate": map[string]any{"id": n(2)},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid input: job id is required", env.Message)
}

func TestMatchHandler_BadJSON(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 0).RegisterRoutes)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/score", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMatchHandler_RankCandidates(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 2).RegisterRoutes)

	candidates := []map[string]any{
		{"id": n(13), "skills": []string{"go"}, "location": "Manchester"},
		{"id": n(11), "skills": []string{"go", "sql"}, "location": "London"},
		{"id": n(12), "skills": []string{"java"}, "location": "Reading"},
	}
	status, env := call(t, app, http.MethodPost, "/api/v1/match/candidates", map[string]any{
		"job":        map[string]any{"id": n(1), "location": "London", "requirements": []string{"go", "sql"}},
		"candidates": candidates,
		"k":          10,
	})
	require.Equal(t, fiber.StatusOK, status)

	var out []struct {
		Candidate struct {
			ID string `json:"id"`
		} `json:"candidate"`
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, n(11), out[0].Candidate.ID)
}

func TestMatchHandler_RankJobsWithCutoff(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 0).RegisterRoutes)

	status, env := call(t, app, http.MethodPost, "/api/v1/match/jobs", map[string]any{
		"candidate": map[string]any{"id": n(1), "skills": []string{"go"}, "location": "London"},
		"jobs": []map[string]any{
			{"id": n(2), "requirements": []string{"go"}, "location": "Manchester"},
			{"id": n(3), "requirements": []string{"go"}, "location": "Reading"},
		},
		"max_distance_km": 100,
	})
	require.Equal(t, fiber.StatusOK, status)

	var out []struct {
		Job struct {
			ID string `json:"id"`
		} `json:"job"`
		DistanceKm *float64 `json:"distance_km"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, n(3), out[0].Job.ID)
	require.NotNil(t, out[0].DistanceKm)
	assert.InDelta(t, 59.2, *out[0].DistanceKm, 0.5)
}

func TestMatchHandler_Nearby(t *testing.T) {
	app := newTestApp(NewMatchHandler(newService(t), 0).RegisterRoutes)

	body := map[string]any{
		"jobs": []map[string]any{
			{"id": n(2), "location": "Manchester"},
			{"id": n(3), "location": "Reading"},
			{"id": n(4), "location": "Atlantis"},
			{"id": n(5), "coordinates": map[string]float64{"latitude": 51.51, "longitude": -0.13}},
		},
		"latitude":        51.5074,
		"longitude":       -0.1278,
		"max_distance_km": 70,
	}
	status, env := call(t, app, http.MethodPost, "/api/v1/match/nearby", body)
	require.Equal(t, fiber.StatusOK, status)

	var out []struct {
		Job struct {
			ID string `json:"id"`
		} `json:"job"`
		DistanceKm float64 `json:"distance_km"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, n(3), out[0].Job.ID)
	assert.Equal(t, n(5), out[1].Job.ID)

	body["max_distance_km"] = 0
	status, _ = call(t, app, http.MethodPost, "/api/v1/match/nearby", body)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

type stubUsecase struct {
	score     matching.MatchResult
	cands     []matching.CandidateMatch
	jobs      []matching.JobMatch
	nearby    []matching.JobDistance
	err       error
	gotOpts   matching.RankOptions
	gotRef    matching.Coordinates
	gotMaxKm  float64
	gotJobID  uuid.UUID
	gotCandID uuid.UUID
}

func (s *stubUsecase) Score(_ context.Context, jobID, candidateID uuid.UUID) (matching.MatchResult, error) {
	s.gotJobID, s.gotCandID = jobID, candidateID
	return s.score, s.err
}

func (s *stubUsecase) RankCandidatesForJob(_ context.Context, jobID uuid.UUID, opts matching.RankOptions) ([]matching.CandidateMatch, error) {
	s.gotJobID, s.gotOpts = jobID, opts
	return s.cands, s.err
}

func (s *stubUsecase) RankJobsForCandidate(_ context.Context, candidateID uuid.UUID, opts matching.RankOptions) ([]matching.JobMatch, error) {
	s.gotCandID, s.gotOpts = candidateID, opts
	return s.jobs, s.err
}

func (s *stubUsecase) NearbyJobs(_ context.Context, ref matching.Coordinates, maxKm float64) ([]matching.JobDistance, error) {
	s.gotRef, s.gotMaxKm = ref, maxKm
	return s.nearby, s.err
}

func TestStoredMatchHandler_CandidatesForJob(t *testing.T) {
	uc := &stubUsecase{cands: []matching.CandidateMatch{{
		Candidate:   matching.CandidateProfile{ID: uuid.MustParse(n(7))},
		MatchResult: matching.MatchResult{Score: 0.5, MatchPercentage: 50},
	}}}
	app := newTestApp(NewStoredMatchHandler(uc).RegisterRoutes)

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs/"+n(1)+"/candidates?k=3&max_distance_km=25", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, matching.RankOptions{K: 3, MaxDistanceKm: 25}, uc.gotOpts)
	assert.Equal(t, n(1), uc.gotJobID.String())
	assert.Contains(t, string(env.Data), `"match_percentage":50`)
	assert.Contains(t, string(env.Data), `"skills":[]`)
}

func TestStoredMatchHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{name: "bad uuid", path: "/api/v1/jobs/not-a-uuid/candidates", status: fiber.StatusBadRequest},
		{name: "bad k", path: "/api/v1/candidates/" + n(1) + "/jobs?k=abc", status: fiber.StatusBadRequest},
		{name: "job missing", path: "/api/v1/jobs/" + n(1) + "/candidates", err: usecase.ErrJobNotFound, status: fiber.StatusNotFound},
		{name: "candidate missing", path: "/api/v1/candidates/" + n(1) + "/jobs", err: usecase.ErrCandidateNotFound, status: fiber.StatusNotFound},
		{name: "internal", path: "/api/v1/jobs/" + n(1) + "/candidates/" + n(2) + "/score", err: usecase.ErrInternal, status: fiber.StatusInternalServerError},
		{name: "unexpected", path: "/api/v1/jobs/" + n(1) + "/candidates/" + n(2) + "/score", err: errors.New("boom"), status: fiber.StatusInternalServerError},
		{name: "nearby missing lat", path: "/api/v1/jobs/nearby?lon=1", status: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(NewStoredMatchHandler(&stubUsecase{err: tt.err}).RegisterRoutes)
			status, env := call(t, app, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, env.Status)
		})
	}
}

func TestStoredMatchHandler_NearbyDefaults(t *testing.T) {
	uc := &stubUsecase{nearby: []matching.JobDistance{}}
	app := newTestApp(NewStoredMatchHandler(uc).RegisterRoutes)

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs/nearby?lat=51.5&lon=-0.12", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, matching.DefaultMaxDistanceKm, uc.gotMaxKm)
	assert.Equal(t, matching.Coordinates{Latitude: 51.5, Longitude: -0.12}, uc.gotRef)
	assert.JSONEq(t, `[]`, string(env.Data))
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	app := fiber.New()
	NewHealthHandler().With("postgres", up).With("redis", nil).RegisterRoutes(app)
	status, env := call(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"postgres":"up","redis":"disabled"}`, string(env.Data))

	app = fiber.New()
	NewHealthHandler().With("postgres", down).RegisterRoutes(app)
	status, env = call(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"postgres":"down"}`, string(env.Data))
}
