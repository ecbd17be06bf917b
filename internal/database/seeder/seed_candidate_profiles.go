package seeder

import (
	"context"

	"talent-match/internal/database"
)

type CandidateProfilesSeeder struct{}

func (CandidateProfilesSeeder) Name() string { return "candidate_profiles" }

var demoCandidates = []struct {
	ID            string
	DisplayName   string
	Skills        []string
	Bio           string
	Experience    string
	Location      string
	Lat, Lon      *float64
	MaxDistanceKm *float64
}{
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000201", DisplayName: "Ada",
		Skills:     []string{"Go", "PostgreSQL", "Kubernetes"},
		Bio:        "Backend engineer who enjoys building services",
		Experience: "Five years running data pipelines and backend services",
		Location:   "Reading", MaxDistanceKm: ptr(80),
	},
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000202", DisplayName: "Grace",
		Skills:   []string{"TypeScript", "React"},
		Bio:      "Frontend developer focused on accessible web interfaces",
		Location: "Manchester", Lat: ptr(53.4808), Lon: ptr(-2.2426),
	},
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000203", DisplayName: "Linus",
		Skills:   []string{"python", "sql"},
		Location: "Leeds",
	},
}

func (CandidateProfilesSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := EnsureTableColumns(ctx, db, "candidate_profiles",
		"id", "display_name", "skills", "bio", "experience", "location", "latitude", "longitude", "max_distance_km",
	); err != nil {
		return 0, err
	}

	var inserted int64
	for _, c := range demoCandidates {
		n, err := db.Exec(ctx, `
INSERT INTO candidate_profiles (id, display_name, skills, bio, experience, location, latitude, longitude, max_distance_km)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`,
			c.ID, c.DisplayName, c.Skills, c.Bio, c.Experience, c.Location, c.Lat, c.Lon, c.MaxDistanceKm,
		)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}
