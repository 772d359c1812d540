package services

import (
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type ForumService interface {
	CreatePost(actorID string, req *dto.CreateForumPostRequest) (*dto.ForumPostResponse, error)
	GetPost(postID string) (*dto.ForumPostResponse, error)
	ListPosts(page, pageSize int) (*dto.ForumPostListResponse, error)
	UpdatePost(actorID, postID string, req *dto.UpdateForumPostRequest) (*dto.ForumPostResponse, error)
	DeletePost(actorID, postID string) error
	CreateComment(actorID, postID string, req *dto.CreateForumCommentRequest) (*dto.ForumCommentResponse, error)
	DeleteComment(actorID, commentID string) error
}

type forumService struct {
	forumRepo   repositories.ForumRepository
	profileRepo repositories.ProfileRepository
}

func NewForumService(forumRepo repositories.ForumRepository, profileRepo repositories.ProfileRepository) ForumService {
	return &forumService{forumRepo: forumRepo, profileRepo: profileRepo}
}

func (s *forumService) CreatePost(actorID string, req *dto.CreateForumPostRequest) (*dto.ForumPostResponse, error) {
	if actorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	post := &models.ForumPost{
		AuthorID: actorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.forumRepo.CreatePost(post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewForumPostResponse(post), nil
}

func (s *forumService) GetPost(postID string) (*dto.ForumPostResponse, error) {
	post, err := s.forumRepo.FindPostByID(postID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrForumPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewForumPostResponse(post), nil
}

func (s *forumService) ListPosts(page, pageSize int) (*dto.ForumPostListResponse, error) {
	posts, total, err := s.forumRepo.FindPosts(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ForumPostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, dto.NewForumPostResponse(&posts[i]))
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.ForumPostListResponse{
		Posts:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// UpdatePost is author-only. Admins moderate by deleting, not editing, so a
// post always reads as its author wrote it.
func (s *forumService) UpdatePost(actorID, postID string, req *dto.UpdateForumPostRequest) (*dto.ForumPostResponse, error) {
	post, err := s.loadPost(actorID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, apperrors.ErrUnauthorized
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}

	if err := s.forumRepo.UpdatePost(post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewForumPostResponse(post), nil
}

func (s *forumService) DeletePost(actorID, postID string) error {
	post, err := s.loadPost(actorID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		admin, err := s.actorIsAdmin(actorID)
		if err != nil {
			return err
		}
		if !admin {
			return apperrors.ErrUnauthorized
		}
	}
	if err := s.forumRepo.DeletePost(postID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *forumService) CreateComment(actorID, postID string, req *dto.CreateForumCommentRequest) (*dto.ForumCommentResponse, error) {
	if actorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	// Commenting on a missing post is a 404, not an orphan row.
	if _, err := s.forumRepo.FindPostByID(postID); err != nil {
		if apperrors.Is(err, repositories.ErrForumPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	comment := &models.ForumComment{
		PostID:   postID,
		AuthorID: actorID,
		Body:     req.Body,
	}
	if err := s.forumRepo.CreateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewForumCommentResponse(comment), nil
}

func (s *forumService) DeleteComment(actorID, commentID string) error {
	if actorID == "" {
		return apperrors.ErrNotAuthenticated
	}

	comment, err := s.forumRepo.FindCommentByID(commentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrForumCommentNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if comment.AuthorID != actorID {
		admin, err := s.actorIsAdmin(actorID)
		if err != nil {
			return err
		}
		if !admin {
			return apperrors.ErrUnauthorized
		}
	}

	if err := s.forumRepo.DeleteComment(commentID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *forumService) loadPost(actorID, postID string) (*models.ForumPost, error) {
	if actorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	post, err := s.forumRepo.FindPostByID(postID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrForumPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return post, nil
}

func (s *forumService) actorIsAdmin(actorID string) (bool, error) {
	actor, err := s.profileRepo.FindByID(actorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return false, nil
		}
		return false, apperrors.InternalError(err)
	}
	return actor.IsAdmin(), nil
}
