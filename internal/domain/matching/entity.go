package matching

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

// DefaultMaxDistanceKm applies when a candidate has no travel limit.
const DefaultMaxDistanceKm = 50.0

const DefaultK = 5

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

type JobPosting struct {
	ID           uuid.UUID
	Title        string
	Location     string
	Coordinates  *Coordinates
	Requirements []string
	Description  string
	EmployerID   uuid.UUID
	EmployerName string
}

type CandidateProfile struct {
	ID            uuid.UUID
	DisplayName   string
	Skills        []string
	Bio           string
	Experience    string
	Location      string
	Coordinates   *Coordinates
	MaxDistanceKm *float64
}

func (c CandidateProfile) travelLimitKm() float64 {
	if c.MaxDistanceKm == nil || *c.MaxDistanceKm <= 0 {
		return DefaultMaxDistanceKm
	}
	return *c.MaxDistanceKm
}

type MatchDetails struct {
	SkillsMatch      float64
	LocationMatch    float64
	ExperienceMatch  float64
	DescriptionMatch float64
}

type MatchResult struct {
	Score           float64
	MatchPercentage int
	MatchDetails    MatchDetails
	// DistanceKm is nil unless both sides resolved to coordinates.
	DistanceKm *float64
}

type JobMatch struct {
	Job JobPosting
	MatchResult
}

type CandidateMatch struct {
	Candidate CandidateProfile
	MatchResult
}

type JobDistance struct {
	Job        JobPosting
	DistanceKm float64
}

type RankOptions struct {
	K int
	// MaxDistanceKm <= 0 disables the distance cutoff.
	MaxDistanceKm float64
}

func (o RankOptions) limit() int {
	if o.K <= 0 {
		return DefaultK
	}
	return o.K
}
