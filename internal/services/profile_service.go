package services

import (
	"fmt"
	"strings"
	"time"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type ProfileService interface {
	// GetOrCreateProfile returns the caller's profile, creating the default
	// one on first authenticated access. Losing the creation race to a
	// concurrent request is benign: the winner's row is re-read and
	// returned.
	GetOrCreateProfile(userID string) (*dto.ProfileResponse, error)
	GetProfile(profileID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository, userRepo repositories.UserRepository) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *profileService) GetOrCreateProfile(userID string) (*dto.ProfileResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	profile, err := s.profileRepo.FindByID(userID)
	if err == nil {
		return dto.NewProfileResponse(profile), nil
	}
	if !apperrors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// First authenticated access without a profile: build the default one
	// from the identity's metadata.
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, apperrors.InternalError(err)
	}

	profile = &models.Profile{
		Username: defaultUsername(user.Email),
		FullName: user.FullName,
		Role:     models.RoleMember,
	}
	profile.ID = userID

	err = s.profileRepo.Create(profile)
	if apperrors.Is(err, repositories.ErrProfileAlreadyExists) {
		// Either we lost the creation race for this user, or the defaulted
		// username is taken by someone else. Re-read decides which.
		existing, readErr := s.profileRepo.FindByID(userID)
		if readErr == nil {
			return dto.NewProfileResponse(existing), nil
		}
		if !apperrors.Is(readErr, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(readErr)
		}

		profile.Username = fallbackUsername()
		err = s.profileRepo.Create(profile)
		if apperrors.Is(err, repositories.ErrProfileAlreadyExists) {
			existing, readErr = s.profileRepo.FindByID(userID)
			if readErr != nil {
				return nil, apperrors.InternalError(readErr)
			}
			return dto.NewProfileResponse(existing), nil
		}
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) GetProfile(profileID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Username != nil {
		profile.Username = *req.Username
	}
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProfileResponse(profile), nil
}

// defaultUsername derives the username from the email local-part, matching
// what the sign-up page shows before the user edits it.
func defaultUsername(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return fallbackUsername()
}

func fallbackUsername() string {
	return fmt.Sprintf("member-%d", time.Now().UnixNano())
}
