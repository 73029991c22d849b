package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// setupRepresentativeTestDB creates an in-memory SQLite database for testing
func setupRepresentativeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE representatives (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			constituency TEXT NOT NULL,
			email TEXT NOT NULL,
			questions_asked INTEGER NOT NULL DEFAULT 0,
			questions_answered INTEGER NOT NULL DEFAULT 0,
			outstanding_forms TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(name, constituency)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func seedRepresentative(t *testing.T, repo *GormRepresentativeRepository, name, constituency string) *civic.Representative {
	t.Helper()
	rep, err := civic.NewRepresentative(name, constituency, "rep@example.gov")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), rep))
	return rep
}

func TestGormRepresentativeRepository_FindByIdentity(t *testing.T) {
	db := setupRepresentativeTestDB(t)
	repo := NewGormRepresentativeRepository(db)
	ctx := context.Background()

	seedRepresentative(t, repo, "Jane Doe", "District 5")

	t.Run("found", func(t *testing.T) {
		rep, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", rep.Name)
		assert.Equal(t, 0, rep.QuestionsAsked)
	})

	t.Run("wrong constituency", func(t *testing.T) {
		_, err := repo.FindByIdentity(ctx, "Jane Doe", "District 6")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormRepresentativeRepository_SaveRoundTripsOutstandingForms(t *testing.T) {
	db := setupRepresentativeTestDB(t)
	repo := NewGormRepresentativeRepository(db)
	ctx := context.Background()

	rep := seedRepresentative(t, repo, "Jane Doe", "District 5")
	require.NoError(t, rep.RecordQuestionAsked("form-1"))
	require.NoError(t, repo.Save(ctx, rep))
	require.NoError(t, rep.RecordQuestionAsked("form-2"))
	require.NoError(t, repo.Save(ctx, rep))

	loaded, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.QuestionsAsked)
	assert.True(t, loaded.OutstandingForms.Contains("form-1"))
	assert.True(t, loaded.OutstandingForms.Contains("form-2"))
	assert.Equal(t, 3, loaded.GetVersion())
}

func TestGormRepresentativeRepository_OptimisticLocking(t *testing.T) {
	db := setupRepresentativeTestDB(t)
	repo := NewGormRepresentativeRepository(db)
	ctx := context.Background()

	seedRepresentative(t, repo, "Jane Doe", "District 5")

	// two sessions load the same row
	first, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
	require.NoError(t, err)
	second, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
	require.NoError(t, err)

	require.NoError(t, first.RecordQuestionAsked("form-a"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.RecordQuestionAsked("form-b"))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// the stale writer's counters were not applied
	loaded, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.QuestionsAsked)
	assert.True(t, loaded.OutstandingForms.Contains("form-a"))
	assert.False(t, loaded.OutstandingForms.Contains("form-b"))
}

func TestGormRepresentativeRepository_ReconciliationUpdate(t *testing.T) {
	db := setupRepresentativeTestDB(t)
	repo := NewGormRepresentativeRepository(db)
	ctx := context.Background()

	rep := seedRepresentative(t, repo, "Jane Doe", "District 5")
	require.NoError(t, rep.RecordQuestionAsked("form-1"))
	require.NoError(t, repo.Save(ctx, rep))

	applied := rep.ApplyReconciliation(map[string]int{"form-1": 1})
	require.Equal(t, 1, applied)
	require.NoError(t, repo.Save(ctx, rep))

	loaded, err := repo.FindByIdentity(ctx, "Jane Doe", "District 5")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.QuestionsAsked)
	assert.Equal(t, 1, loaded.QuestionsAnswered)
	assert.Equal(t, 0, loaded.OutstandingCount())
}

func TestGormRepresentativeRepository_FindAll(t *testing.T) {
	db := setupRepresentativeTestDB(t)
	repo := NewGormRepresentativeRepository(db)
	ctx := context.Background()

	seedRepresentative(t, repo, "Ravi Kumar", "District 1")
	seedRepresentative(t, repo, "Jane Doe", "District 5")

	reps, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reps, 2)
	assert.Equal(t, "Jane Doe", reps[0].Name)
	assert.Equal(t, "Ravi Kumar", reps[1].Name)
}
