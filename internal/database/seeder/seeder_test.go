package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"talent-match/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columnRows struct {
	cols []string
	i    int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Next() bool {
	r.i++
	return r.i <= len(r.cols)
}
func (r *columnRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.cols[r.i-1]
	return nil
}

// fakeDB knows the columns of each table and treats every row id as new once.
type fakeDB struct {
	columns map[string][]string
	seen    map[any]bool
	execErr error
	execs   int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		columns: map[string][]string{
			"job_postings": {"id", "title", "location", "latitude", "longitude", "requirements",
				"description", "employer_id", "employer_name", "created_at", "updated_at"},
			"candidate_profiles": {"id", "display_name", "skills", "bio", "experience", "location",
				"latitude", "longitude", "max_distance_km", "created_at", "updated_at"},
		},
		seen: map[any]bool{},
	}
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }
func (f *fakeDB) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	if !strings.Contains(query, "information_schema.columns") {
		return nil, errors.New("unexpected query")
	}
	return &columnRows{cols: f.columns[args[0].(string)]}, nil
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (int64, error) {
	f.execs++
	if f.execErr != nil {
		return 0, f.execErr
	}
	if f.seen[args[0]] {
		return 0, nil
	}
	f.seen[args[0]] = true
	return 1, nil
}

func TestRunner_SeedsOnce(t *testing.T) {
	db := newFakeDB()
	r := Runner{Seeders: Defaults()}

	require.NoError(t, r.Run(context.Background(), db))
	assert.Len(t, db.seen, len(demoJobs)+len(demoCandidates))

	n, err := JobPostingsSeeder{}.Run(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunner_NilDB(t *testing.T) {
	assert.ErrorIs(t, Runner{Seeders: Defaults()}.Run(context.Background(), nil), database.ErrNilDB)
}

func TestRunner_WrapsSeederError(t *testing.T) {
	db := newFakeDB()
	db.execErr = errors.New("insert failed")

	err := Runner{Seeders: Defaults()}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed job_postings")
	assert.Equal(t, 1, db.execs)
}

func TestEnsureTableColumns_ReportsMissing(t *testing.T) {
	db := newFakeDB()
	db.columns["candidate_profiles"] = []string{"id", "skills"}

	_, err := CandidateProfilesSeeder{}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate_profiles.bio")
	assert.Contains(t, err.Error(), "candidate_profiles.max_distance_km")
	assert.Zero(t, db.execs)

	assert.ErrorIs(t, EnsureTableColumns(context.Background(), db, ""), errEmptyIdentifier)
}
