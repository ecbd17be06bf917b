package repository

import (
	"context"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 200
	maxListLimit     = 5000
)

var ErrNotFound = errors.New("record not found")

type JobPostingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (matching.JobPosting, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]matching.JobPosting, error)
	List(ctx context.Context, limit int) ([]matching.JobPosting, error)
}

type PostgresJobPostingRepository struct {
	db database.DB
}

func NewPostgresJobPostingRepository(db database.DB) *PostgresJobPostingRepository {
	return &PostgresJobPostingRepository{db: db}
}

const jobPostingColumns = `id, title, location, latitude, longitude, requirements, description, employer_id, employer_name`

func (r *PostgresJobPostingRepository) FindByID(ctx context.Context, id uuid.UUID) (matching.JobPosting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`, id.String())
	j, err := scanJobPosting(row)
	if err != nil {
		if database.IsNoRows(err) {
			return matching.JobPosting{}, ErrNotFound
		}
		return matching.JobPosting{}, fmt.Errorf("find job posting %s: %w", id, err)
	}
	return j, nil
}

// FindByIDs returns the postings in the order of ids, skipping unknown ones.
func (r *PostgresJobPostingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]matching.JobPosting, error) {
	if len(ids) == 0 {
		return []matching.JobPosting{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("find job postings: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]matching.JobPosting, len(ids))
	for rows.Next() {
		j, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		byID[j.ID] = j
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderByIDs(ids, byID), nil
}

func (r *PostgresJobPostingRepository) List(ctx context.Context, limit int) ([]matching.JobPosting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings ORDER BY created_at DESC, id ASC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	defer rows.Close()

	out := make([]matching.JobPosting, 0)
	for rows.Next() {
		j, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJobPosting(row database.Row) (matching.JobPosting, error) {
	var (
		j          matching.JobPosting
		lat, lon   *float64
		employerID uuid.NullUUID
	)
	if err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Location,
		&lat,
		&lon,
		&j.Requirements,
		&j.Description,
		&employerID,
		&j.EmployerName,
	); err != nil {
		return matching.JobPosting{}, err
	}
	j.Coordinates = coordinates(lat, lon)
	if employerID.Valid {
		j.EmployerID = employerID.UUID
	}
	return j, nil
}

func coordinates(lat, lon *float64) *matching.Coordinates {
	if lat == nil || lon == nil {
		return nil
	}
	return &matching.Coordinates{Latitude: *lat, Longitude: *lon}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

type identified interface {
	matching.JobPosting | matching.CandidateProfile
}

func orderByIDs[T identified](ids []uuid.UUID, byID map[uuid.UUID]T) []T {
	out := make([]T, 0, len(byID))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

var _ JobPostingRepository = (*PostgresJobPostingRepository)(nil)
