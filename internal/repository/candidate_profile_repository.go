package repository

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type CandidateProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (matching.CandidateProfile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]matching.CandidateProfile, error)
	List(ctx context.Context, limit int) ([]matching.CandidateProfile, error)
}

type PostgresCandidateProfileRepository struct {
	db database.DB
}

func NewPostgresCandidateProfileRepository(db database.DB) *PostgresCandidateProfileRepository {
	return &PostgresCandidateProfileRepository{db: db}
}

const candidateProfileColumns = `id, display_name, skills, bio, experience, location, latitude, longitude, max_distance_km`

func (r *PostgresCandidateProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (matching.CandidateProfile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+candidateProfileColumns+` FROM candidate_profiles WHERE id = $1`, id.String())
	c, err := scanCandidateProfile(row)
	if err != nil {
		if database.IsNoRows(err) {
			return matching.CandidateProfile{}, ErrNotFound
		}
		return matching.CandidateProfile{}, fmt.Errorf("find candidate profile %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCandidateProfileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]matching.CandidateProfile, error) {
	if len(ids) == 0 {
		return []matching.CandidateProfile{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateProfileColumns+` FROM candidate_profiles WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("find candidate profiles: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]matching.CandidateProfile, len(ids))
	for rows.Next() {
		c, err := scanCandidateProfile(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderByIDs(ids, byID), nil
}

func (r *PostgresCandidateProfileRepository) List(ctx context.Context, limit int) ([]matching.CandidateProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateProfileColumns+` FROM candidate_profiles ORDER BY created_at DESC, id ASC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list candidate profiles: %w", err)
	}
	defer rows.Close()

	out := make([]matching.CandidateProfile, 0)
	for rows.Next() {
		c, err := scanCandidateProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCandidateProfile(row database.Row) (matching.CandidateProfile, error) {
	var (
		c        matching.CandidateProfile
		lat, lon *float64
	)
	if err := row.Scan(
		&c.ID,
		&c.DisplayName,
		&c.Skills,
		&c.Bio,
		&c.Experience,
		&c.Location,
		&lat,
		&lon,
		&c.MaxDistanceKm,
	); err != nil {
		return matching.CandidateProfile{}, err
	}
	c.Coordinates = coordinates(lat, lon)
	return c, nil
}

var _ CandidateProfileRepository = (*PostgresCandidateProfileRepository)(nil)
