package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add questions table", "add_questions_table"},
		{"Add-Representatives-Table", "add_representatives_table"},
		{"ADD_CHAT_ROOMS", "add_chat_rooms"},
		{"add__listing__images", "add_listing_images"},
		{"Add Constituency 123", "add_constituency_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add questions table", "Questions submitted to representatives")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// YYYYMMDDHHMMSS version prefix.
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_questions_table.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_questions_table.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add questions table")
	assert.Contains(t, string(up), "Questions submitted to representatives")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "init schema", "first cut")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsUnusableName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!@#$", "nothing survives sanitizing")
	require.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"000002_add_representatives.up.sql",
		"000002_add_representatives.down.sql",
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000003_add_listings.up.sql",
		"000003_add_listings.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_init_schema",
		"000002_add_representatives",
		"000003_add_listings",
	}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_SkipsUnrelatedEntries(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.up.sql"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.down.sql"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init"}, migrations)
}
