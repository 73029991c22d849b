package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// GormRepresentativeRepository implements RepresentativeRepository using GORM
type GormRepresentativeRepository struct {
	db *gorm.DB
}

// NewGormRepresentativeRepository creates a new GormRepresentativeRepository
func NewGormRepresentativeRepository(db *gorm.DB) *GormRepresentativeRepository {
	return &GormRepresentativeRepository{db: db}
}

// FindByIdentity finds a representative by its (name, constituency) pair
func (r *GormRepresentativeRepository) FindByIdentity(ctx context.Context, name, constituency string) (*civic.Representative, error) {
	var rep civic.Representative
	if err := r.db.WithContext(ctx).
		Where("name = ? AND constituency = ?", name, constituency).
		First(&rep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindAll returns every representative in the directory
func (r *GormRepresentativeRepository) FindAll(ctx context.Context) ([]civic.Representative, error) {
	var reps []civic.Representative
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&reps).Error; err != nil {
		return nil, err
	}
	return reps, nil
}

// Save creates or updates a representative. Updates carry the aggregate
// version in the WHERE clause; a lost race surfaces as
// shared.ErrConcurrencyConflict rather than silently overwriting the
// concurrent writer's counters.
func (r *GormRepresentativeRepository) Save(ctx context.Context, rep *civic.Representative) error {
	if rep.GetVersion() == 1 {
		return r.db.WithContext(ctx).Create(rep).Error
	}

	result := r.db.WithContext(ctx).
		Model(&civic.Representative{}).
		Where("id = ? AND version = ?", rep.GetID(), rep.GetVersion()-1).
		Select("email", "questions_asked", "questions_answered", "outstanding_forms", "version", "updated_at").
		Updates(rep)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
