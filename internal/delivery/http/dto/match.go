package dto

import (
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type JobPosting struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Location     string       `json:"location"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Requirements []string     `json:"requirements"`
	Description  string       `json:"description"`
	EmployerID   uuid.UUID    `json:"employer_id"`
	EmployerName string       `json:"employer_name"`
}

type CandidateProfile struct {
	ID            uuid.UUID    `json:"id"`
	DisplayName   string       `json:"display_name"`
	Skills        []string     `json:"skills"`
	Bio           string       `json:"bio"`
	Experience    string       `json:"experience"`
	Location      string       `json:"location"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	MaxDistanceKm *float64     `json:"max_distance_km,omitempty"`
}

type ScoreRequest struct {
	Job       JobPosting       `json:"job"`
	Candidate CandidateProfile `json:"candidate"`
}

type RankCandidatesRequest struct {
	Job           JobPosting         `json:"job"`
	Candidates    []CandidateProfile `json:"candidates"`
	K             int                `json:"k"`
	MaxDistanceKm float64            `json:"max_distance_km"`
}

type RankJobsRequest struct {
	Candidate     CandidateProfile `json:"candidate"`
	Jobs          []JobPosting     `json:"jobs"`
	K             int              `json:"k"`
	MaxDistanceKm float64          `json:"max_distance_km"`
}

type NearbyRequest struct {
	Jobs          []JobPosting `json:"jobs"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	MaxDistanceKm float64      `json:"max_distance_km"`
}

type MatchDetails struct {
	SkillsMatch      float64 `json:"skills_match"`
	LocationMatch    float64 `json:"location_match"`
	ExperienceMatch  float64 `json:"experience_match"`
	DescriptionMatch float64 `json:"description_match"`
}

type MatchResult struct {
	Score           float64      `json:"score"`
	MatchPercentage int          `json:"match_percentage"`
	MatchDetails    MatchDetails `json:"match_details"`
	DistanceKm      *float64     `json:"distance_km"`
}

type CandidateMatch struct {
	Candidate CandidateProfile `json:"candidate"`
	MatchResult
}

type JobMatch struct {
	Job JobPosting `json:"job"`
	MatchResult
}

type JobDistance struct {
	Job        JobPosting `json:"job"`
	DistanceKm float64    `json:"distance_km"`
}

func (c *Coordinates) toDomain() *matching.Coordinates {
	if c == nil {
		return nil
	}
	return &matching.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func coordinatesFrom(c *matching.Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	return &Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func (j JobPosting) ToDomain() matching.JobPosting {
	return matching.JobPosting{
		ID:           j.ID,
		Title:        j.Title,
		Location:     j.Location,
		Coordinates:  j.Coordinates.toDomain(),
		Requirements: j.Requirements,
		Description:  j.Description,
		EmployerID:   j.EmployerID,
		EmployerName: j.EmployerName,
	}
}

func (c CandidateProfile) ToDomain() matching.CandidateProfile {
	return matching.CandidateProfile{
		ID:            c.ID,
		DisplayName:   c.DisplayName,
		Skills:        c.Skills,
		Bio:           c.Bio,
		Experience:    c.Experience,
		Location:      c.Location,
		Coordinates:   c.Coordinates.toDomain(),
		MaxDistanceKm: c.MaxDistanceKm,
	}
}

func JobsToDomain(in []JobPosting) []matching.JobPosting {
	out := make([]matching.JobPosting, len(in))
	for i, j := range in {
		out[i] = j.ToDomain()
	}
	return out
}

func CandidatesToDomain(in []CandidateProfile) []matching.CandidateProfile {
	out := make([]matching.CandidateProfile, len(in))
	for i, c := range in {
		out[i] = c.ToDomain()
	}
	return out
}

func NewJobPosting(j matching.JobPosting) JobPosting {
	reqs := j.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return JobPosting{
		ID:           j.ID,
		Title:        j.Title,
		Location:     j.Location,
		Coordinates:  coordinatesFrom(j.Coordinates),
		Requirements: reqs,
		Description:  j.Description,
		EmployerID:   j.EmployerID,
		EmployerName: j.EmployerName,
	}
}

func NewCandidateProfile(c matching.CandidateProfile) CandidateProfile {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return CandidateProfile{
		ID:            c.ID,
		DisplayName:   c.DisplayName,
		Skills:        skills,
		Bio:           c.Bio,
		Experience:    c.Experience,
		Location:      c.Location,
		Coordinates:   coordinatesFrom(c.Coordinates),
		MaxDistanceKm: c.MaxDistanceKm,
	}
}

func NewMatchResult(r matching.MatchResult) MatchResult {
	return MatchResult{
		Score:           r.Score,
		MatchPercentage: r.MatchPercentage,
		MatchDetails: MatchDetails{
			SkillsMatch:      r.MatchDetails.SkillsMatch,
			LocationMatch:    r.MatchDetails.LocationMatch,
			ExperienceMatch:  r.MatchDetails.ExperienceMatch,
			DescriptionMatch: r.MatchDetails.DescriptionMatch,
		},
		DistanceKm: r.DistanceKm,
	}
}

func NewCandidateMatches(in []matching.CandidateMatch) []CandidateMatch {
	out := make([]CandidateMatch, 0, len(in))
	for _, m := range in {
		out = append(out, CandidateMatch{Candidate: NewCandidateProfile(m.Candidate), MatchResult: NewMatchResult(m.MatchResult)})
	}
	return out
}

func NewJobMatches(in []matching.JobMatch) []JobMatch {
	out := make([]JobMatch, 0, len(in))
	for _, m := range in {
		out = append(out, JobMatch{Job: NewJobPosting(m.Job), MatchResult: NewMatchResult(m.MatchResult)})
	}
	return out
}

func NewJobDistances(in []matching.JobDistance) []JobDistance {
	out := make([]JobDistance, 0, len(in))
	for _, d := range in {
		out = append(out, JobDistance{Job: NewJobPosting(d.Job), DistanceKm: d.DistanceKm})
	}
	return out
}
