package seeder

import (
	"context"

	"talent-match/internal/database"

	"github.com/google/uuid"
)

type JobPostingsSeeder struct{}

func (JobPostingsSeeder) Name() string { return "job_postings" }

type demoJob struct {
	ID           string
	Title        string
	Location     string
	Lat, Lon     *float64
	Requirements []string
	Description  string
	EmployerName string
}

var demoEmployer = uuid.MustParse("6f1d2c3a-0000-4000-8000-000000000001")

var demoJobs = []demoJob{
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000101", Title: "Backend Engineer (Go)", Location: "London",
		Lat: ptr(51.5074), Lon: ptr(-0.1278),
		Requirements: []string{"go", "postgresql", "docker"},
		Description:  "Build backend services and data pipelines for a hiring marketplace",
		EmployerName: "Demo Talent Ltd",
	},
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000102", Title: "Frontend Developer", Location: "Manchester",
		Requirements: []string{"typescript", "react", "css"},
		Description:  "Design accessible web interfaces and component libraries",
		EmployerName: "Demo Talent Ltd",
	},
	{
		ID: "6f1d2c3a-0000-4000-8000-000000000103", Title: "Data Engineer", Location: "Remote",
		Requirements: []string{"python", "sql", "airflow"},
		Description:  "Own batch pipelines, warehouse models and data quality checks",
		EmployerName: "Demo Talent Ltd",
	},
}

func (JobPostingsSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := EnsureTableColumns(ctx, db, "job_postings",
		"id", "title", "location", "latitude", "longitude", "requirements", "description", "employer_id", "employer_name",
	); err != nil {
		return 0, err
	}

	var inserted int64
	for _, j := range demoJobs {
		n, err := db.Exec(ctx, `
INSERT INTO job_postings (id, title, location, latitude, longitude, requirements, description, employer_id, employer_name)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`,
			j.ID, j.Title, j.Location, j.Lat, j.Lon, j.Requirements, j.Description, demoEmployer.String(), j.EmployerName,
		)
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}

func ptr(v float64) *float64 { return &v }
