package repositories

import (
	"errors"

	"circuithub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleRequestNotFound = errors.New("role request not found")
	ErrPendingRequestRace  = errors.New("pending role request already exists")
)

// RoleRequestFilter narrows the admin review queue listing.
type RoleRequestFilter struct {
	Status   models.RoleRequestStatus
	Page     int
	PageSize int
}

type RoleRequestRepository interface {
	// Create inserts a pending request. The partial unique index on
	// (user_id) where status = 'pending' backstops the service-level
	// duplicate check; a violation surfaces as ErrPendingRequestRace.
	Create(request *models.RoleRequest) error
	FindByID(id string) (*models.RoleRequest, error)
	FindPendingByUserID(userID string) (*models.RoleRequest, error)
	FindByUserID(userID string) ([]models.RoleRequest, error)
	FindWithFilter(filter RoleRequestFilter) ([]models.RoleRequest, int64, error)
	Update(request *models.RoleRequest) error

	WithTx(tx *gorm.DB) RoleRequestRepository
}

type RoleRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRequestRepository(db *gorm.DB) RoleRequestRepository {
	return &RoleRequestRepositoryImpl{db: db}
}

func (r *RoleRequestRepositoryImpl) WithTx(tx *gorm.DB) RoleRequestRepository {
	if tx == nil {
		return r
	}
	return &RoleRequestRepositoryImpl{db: tx}
}

func (r *RoleRequestRepositoryImpl) Create(request *models.RoleRequest) error {
	err := r.db.Create(request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPendingRequestRace
		}
		return err
	}
	return nil
}

func (r *RoleRequestRepositoryImpl) FindByID(id string) (*models.RoleRequest, error) {
	var request models.RoleRequest
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RoleRequestRepositoryImpl) FindPendingByUserID(userID string) (*models.RoleRequest, error) {
	var request models.RoleRequest
	err := r.db.First(&request, "user_id = ? AND status = ?", userID, models.RoleRequestStatusPending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RoleRequestRepositoryImpl) FindByUserID(userID string) ([]models.RoleRequest, error) {
	var requests []models.RoleRequest
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *RoleRequestRepositoryImpl) FindWithFilter(filter RoleRequestFilter) ([]models.RoleRequest, int64, error) {
	var requests []models.RoleRequest
	query := r.db.Model(&models.RoleRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *RoleRequestRepositoryImpl) Update(request *models.RoleRequest) error {
	return r.db.Save(request).Error
}
