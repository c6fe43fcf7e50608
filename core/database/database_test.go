package database

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDisabledSkipsValidation(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Normalize())
	assert.Empty(t, cfg.Port)
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	cfg := Config{Enabled: true, Host: "db", Name: "pager", User: "bot"}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 5, cfg.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.WaitTimeout())
}

func TestNormalizeRequiresHostAndName(t *testing.T) {
	assert.Error(t, (&Config{Enabled: true, Name: "x"}).Normalize())
	assert.Error(t, (&Config{Enabled: true, Host: "x"}).Normalize())
}

func TestConnectionStrings(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "bot", Password: "p@ss word", Name: "pager", SSLMode: "require"}
	assert.Equal(t, "user=bot password=p@ss word host=db port=5433 dbname=pager sslmode=require", cfg.DSN())
	assert.Equal(t, "postgres://bot:p%40ss%20word@db:5433/pager?sslmode=require", cfg.URL())
}

func TestMigrationFileHelpers(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_b.up.sql":   {Data: []byte("select 1")},
		"migrations/000001_a.up.sql":   {Data: []byte("select 1")},
		"migrations/000001_a.down.sql": {Data: []byte("select 1")},
	}
	files := listMigrationFiles(fsys, "migrations")
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, files)
	assert.Equal(t, uint64(2), parseVersion("000002_b.up.sql"))
	assert.Equal(t, []string{"000002_b.up.sql"}, selectApplied(files, 1, 2))
	assert.Empty(t, selectApplied(files, 2, 2))
	assert.Nil(t, listMigrationFiles(fsys, "missing"))
}
