package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V10__add_index.sql":     {Data: []byte("CREATE INDEX x ON t (a);")},
		"V2__create_table.sql":   {Data: []byte("  CREATE TABLE t (a INT);\n")},
		"README.md":              {Data: []byte("notes")},
		"v3__lowercase.sql":      {Data: []byte("SELECT 1;")},
		"nested/V1__ignored.sql": {Data: []byte("SELECT 1;")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(2), migs[0].Version)
	assert.Equal(t, "create_table", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a INT);", migs[0].SQL)
	assert.Equal(t, int64(10), migs[1].Version)
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoad_ChecksumIgnoresSurroundingWhitespace(t *testing.T) {
	a, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("SELECT 1;")}})
	require.NoError(t, err)
	b, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("\n\nSELECT 1;\n")}})
	require.NoError(t, err)
	assert.Equal(t, a[0].Checksum, b[0].Checksum)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")

	_, err = Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("   ")}})
	assert.ErrorContains(t, err, "empty migration file")
}

func TestEmbedded(t *testing.T) {
	migs, err := Load(Embedded())
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Contains(t, migs[0].SQL, "job_postings")
	assert.Contains(t, migs[1].SQL, "candidate_profiles")
}

func TestRun_NilDB(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), nil)
	assert.Error(t, err)
}
