package profiles

import (
	"context"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByEmail retrieves the profile matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID loads a profile by its UUID. Zero rows surface as
// gorm.ErrRecordNotFound, never as an empty profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateFields applies a partial column update to the profile. Role is never
// written through this path.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "role")
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateRole sets the profile's role. Only the admin review flow calls this.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role enums.ProfileRole) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
}

// ListPending returns shops awaiting review, oldest application first.
func (r *Repository) ListPending(ctx context.Context) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Where("role = ?", enums.ProfileRolePending).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}
