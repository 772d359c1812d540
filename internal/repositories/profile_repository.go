package repositories

import (
	"errors"

	"circuithub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

type ProfileRepository interface {
	FindByID(id string) (*models.Profile, error)
	// Create inserts the profile. When another request won the creation race
	// it returns ErrProfileAlreadyExists so the caller can re-read.
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	UpdateRole(userID string, role models.Role) error
	CountByRole(role models.Role) (int64, error)
	CountAll() (int64, error)

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) ProfileRepository
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) WithTx(tx *gorm.DB) ProfileRepository {
	if tx == nil {
		return r
	}
	return &ProfileRepositoryImpl{db: tx}
}

func (r *ProfileRepositoryImpl) FindByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Create(profile *models.Profile) error {
	err := r.db.Create(profile).Error
	if err != nil {
		// Relies on TranslateError in the gorm.Config to map the unique
		// violation from the profiles pkey/username index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProfileAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProfileRepositoryImpl) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) UpdateRole(userID string, role models.Role) error {
	res := r.db.Model(&models.Profile{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *ProfileRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Count(&count).Error
	return count, err
}
