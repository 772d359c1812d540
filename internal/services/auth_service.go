package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"circuithub_backend/internal/auth"
	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

// SSOExchanger abstracts the university identity provider so the callback
// flow can be tested without network calls.
type SSOExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.SSOUser, error)
}

// SSOCallbackResult tells the handler where to send the browser next.
type SSOCallbackResult struct {
	RedirectPath string
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error

	SSOAuthURL(state string) (string, error)
	// HandleSSOCallback exchanges the authorization code, upserts the
	// identity, and decides the post-login redirect: profile-setup when no
	// profile exists yet, otherwise the caller's return path.
	HandleSSOCallback(ctx context.Context, code, returnPath string) (*SSOCallbackResult, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	ssoProvider      SSOExchanger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	ssoProvider SSOExchanger,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		ssoProvider:      ssoProvider,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	username := req.Username
	if username == "" {
		username = defaultUsername(user.Email)
	}
	profile := &models.Profile{
		Username: username,
		FullName: req.FullName,
		Role:     models.RoleMember,
	}
	profile.ID = user.ID

	if err := s.profileRepo.Create(profile); err != nil && !apperrors.Is(err, repositories.ErrProfileAlreadyExists) {
		// Registration stands; the profile will be bootstrapped lazily on
		// the first authenticated request instead.
		logger.WithError(err).Warn("profile creation at registration failed", "user_id", user.ID)
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Rotation: the presented token is single-use.
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	return s.refreshTokenRepo.DeleteByToken(refreshToken)
}

func (s *AuthServiceImpl) SSOAuthURL(state string) (string, error) {
	if s.ssoProvider == nil {
		return "", apperrors.ErrInvalidOperation("auth", "SSO is not configured")
	}
	return s.ssoProvider.AuthURL(state), nil
}

func (s *AuthServiceImpl) HandleSSOCallback(ctx context.Context, code, returnPath string) (*SSOCallbackResult, error) {
	if s.ssoProvider == nil {
		return nil, apperrors.ErrInvalidOperation("auth", "SSO is not configured")
	}

	ssoUser, err := s.ssoProvider.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "auth", "SSO code exchange failed", 502)
	}

	user, err := s.upsertSSOUser(ssoUser)
	if err != nil {
		return nil, err
	}

	login, err := s.buildLoginResponse(user)
	if err != nil {
		return nil, err
	}

	redirect := returnPath
	if redirect == "" {
		redirect = "/dashboard"
	}
	if _, err := s.profileRepo.FindByID(user.ID); err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			redirect = "/profile-setup"
		} else {
			return nil, apperrors.InternalError(err)
		}
	}

	return &SSOCallbackResult{
		RedirectPath: redirect,
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}, nil
}

func (s *AuthServiceImpl) upsertSSOUser(ssoUser *auth.SSOUser) (*models.User, error) {
	user, err := s.userRepo.FindBySSOSubject(ssoUser.Subject)
	if err == nil {
		return user, nil
	}
	if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// Link by email when the account predates SSO.
	if ssoUser.Email != "" {
		user, err = s.userRepo.FindByEmail(strings.ToLower(ssoUser.Email))
		if err == nil {
			user.SSOSubject = ssoUser.Subject
			if err := s.userRepo.Update(user); err != nil {
				return nil, apperrors.InternalError(err)
			}
			return user, nil
		}
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	user = &models.User{
		Email:      strings.ToLower(ssoUser.Email),
		SSOSubject: ssoUser.Subject,
		FullName:   ssoUser.FullName,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	role := string(models.RoleMember)
	var profileResp *dto.ProfileResponse
	if profile, err := s.profileRepo.FindByID(user.ID); err == nil {
		role = string(profile.Role)
		profileResp = dto.NewProfileResponse(profile)
	}

	accessToken, err := auth.GenerateToken(user.ID, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.createRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: &dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
		Profile: profileResp,
	}, nil
}

func (s *AuthServiceImpl) createRefreshToken(userID string) (string, error) {
	refreshToken := generateRandomToken()

	refreshTokenModel := &models.RefreshToken{
		UserID:    userID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}

	if err := s.refreshTokenRepo.Create(refreshTokenModel); err != nil {
		return "", err
	}
	return refreshToken, nil
}

func generateRandomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in a bad state anyway
		panic(err)
	}
	return hex.EncodeToString(buf)
}
