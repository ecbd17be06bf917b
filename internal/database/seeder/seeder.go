package seeder

import (
	"context"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/pkg/logging"
)

// Seeder inserts demo rows. Implementations must be safe to re-run.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int64, error)
}

type Runner struct {
	Seeders []Seeder
	Logger  *logging.Logger
}

func Defaults() []Seeder {
	return []Seeder{
		JobPostingsSeeder{},
		CandidateProfilesSeeder{},
	}
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info("seeder finished", "seeder", s.Name(), "inserted", n)
	}
	return nil
}

var errEmptyIdentifier = errors.New("empty table or column name")
