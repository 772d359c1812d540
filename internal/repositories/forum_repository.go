package repositories

import (
	"errors"

	"circuithub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrForumPostNotFound    = errors.New("forum post not found")
	ErrForumCommentNotFound = errors.New("forum comment not found")
)

type ForumRepository interface {
	CreatePost(post *models.ForumPost) error
	FindPostByID(id string) (*models.ForumPost, error)
	FindPosts(page, pageSize int) ([]models.ForumPost, int64, error)
	UpdatePost(post *models.ForumPost) error
	DeletePost(id string) error
	CountPosts() (int64, error)

	CreateComment(comment *models.ForumComment) error
	FindCommentByID(id string) (*models.ForumComment, error)
	FindCommentsByPost(postID string) ([]models.ForumComment, error)
	DeleteComment(id string) error
}

type ForumRepositoryImpl struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository {
	return &ForumRepositoryImpl{db: db}
}

func (r *ForumRepositoryImpl) CreatePost(post *models.ForumPost) error {
	return r.db.Create(post).Error
}

func (r *ForumRepositoryImpl) FindPostByID(id string) (*models.ForumPost, error) {
	var post models.ForumPost
	err := r.db.Preload("Comments").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForumPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *ForumRepositoryImpl) FindPosts(page, pageSize int) ([]models.ForumPost, int64, error) {
	var total int64
	if err := r.db.Model(&models.ForumPost{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var posts []models.ForumPost
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *ForumRepositoryImpl) UpdatePost(post *models.ForumPost) error {
	return r.db.Save(post).Error
}

func (r *ForumRepositoryImpl) DeletePost(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ForumComment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ForumPost{}, "id = ?", id).Error
	})
}

func (r *ForumRepositoryImpl) CountPosts() (int64, error) {
	var count int64
	err := r.db.Model(&models.ForumPost{}).Count(&count).Error
	return count, err
}

func (r *ForumRepositoryImpl) CreateComment(comment *models.ForumComment) error {
	return r.db.Create(comment).Error
}

func (r *ForumRepositoryImpl) FindCommentByID(id string) (*models.ForumComment, error) {
	var comment models.ForumComment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForumCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *ForumRepositoryImpl) FindCommentsByPost(postID string) ([]models.ForumComment, error) {
	var comments []models.ForumComment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *ForumRepositoryImpl) DeleteComment(id string) error {
	return r.db.Delete(&models.ForumComment{}, "id = ?", id).Error
}
