package services

import (
	"encoding/json"
	"fmt"
	"time"

	"circuithub_backend/internal/email"
	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleRequestService owns the role-request lifecycle: pending -> approved or
// rejected, both terminal. It is the only writer of Profile.role after
// profile creation.
type RoleRequestService interface {
	Submit(userID string, req *dto.SubmitRoleRequestRequest) (*dto.RoleRequestResponse, error)
	Approve(actorID, requestID string) (*dto.RoleRequestResponse, error)
	Reject(actorID, requestID string, req *dto.ReviewRoleRequestRequest) (*dto.RoleRequestResponse, error)
	ListMine(userID string) ([]*dto.RoleRequestResponse, error)
	ListAll(actorID string, filter repositories.RoleRequestFilter) (*dto.RoleRequestListResponse, error)
}

type roleRequestService struct {
	requestRepo      repositories.RoleRequestRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	txManager        repositories.TxManager
	publisher        NotificationPublisher
	emailProvider    email.Provider
}

func NewRoleRequestService(
	requestRepo repositories.RoleRequestRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TxManager,
	publisher NotificationPublisher,
	emailProvider email.Provider,
) RoleRequestService {
	return &roleRequestService{
		requestRepo:      requestRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		txManager:        txManager,
		publisher:        publisher,
		emailProvider:    emailProvider,
	}
}

func (s *roleRequestService) Submit(userID string, req *dto.SubmitRoleRequestRequest) (*dto.RoleRequestResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if !models.SelfRequestableRole(req.Role) {
		return nil, apperrors.ErrInvalidRequestedRole
	}

	// Check-then-insert; the partial unique index catches the race where two
	// submissions pass this check concurrently.
	if _, err := s.requestRepo.FindPendingByUserID(userID); err == nil {
		return nil, apperrors.ErrPendingRequestExists
	} else if !apperrors.Is(err, repositories.ErrRoleRequestNotFound) {
		return nil, apperrors.InternalError(err)
	}

	request := &models.RoleRequest{
		UserID:        userID,
		RequestedRole: models.Role(req.Role),
		RequestReason: req.Reason,
		Status:        models.RoleRequestStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		if apperrors.Is(err, repositories.ErrPendingRequestRace) {
			return nil, apperrors.ErrPendingRequestExists
		}
		return nil, apperrors.InternalError(err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    repositories.NotificationTypeRoleRequestSubmitted,
		Title:   "Role request submitted",
		Message: fmt.Sprintf("Your request to become a %s is awaiting review.", request.RequestedRole),
		Data:    requestData(request),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		// The request itself went through; a missing confirmation line in
		// the inbox is not worth failing the submission.
		logger.WithError(err).Warn("failed to write submit notification", "request_id", request.ID)
	} else {
		s.publish(notification)
	}

	return dto.NewRoleRequestResponse(request), nil
}

func (s *roleRequestService) Approve(actorID, requestID string) (*dto.RoleRequestResponse, error) {
	request, err := s.loadForReview(actorID, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.RoleRequestStatusApproved
	request.ReviewedBy = &actorID
	request.ReviewedAt = &now

	notification := &models.Notification{
		UserID:  request.UserID,
		Type:    repositories.NotificationTypeRoleRequestApproved,
		Title:   "Role request approved",
		Message: fmt.Sprintf("Your request to become a %s has been approved.", request.RequestedRole),
		Data:    requestData(request),
	}

	// One transaction for all three writes: the request transition, the role
	// change and the inbox entry land together or not at all.
	err = s.txManager.Do(func(tx *gorm.DB) error {
		if err := s.requestRepo.WithTx(tx).Update(request); err != nil {
			return err
		}
		if err := s.profileRepo.WithTx(tx).UpdateRole(request.UserID, request.RequestedRole); err != nil {
			return err
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.publish(notification)
	s.sendDecisionEmail(request, "")

	return dto.NewRoleRequestResponse(request), nil
}

func (s *roleRequestService) Reject(actorID, requestID string, req *dto.ReviewRoleRequestRequest) (*dto.RoleRequestResponse, error) {
	request, err := s.loadForReview(actorID, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.RoleRequestStatusRejected
	request.ReviewedBy = &actorID
	request.ReviewedAt = &now
	// Stored as given, possibly empty; the fallback text below exists only
	// in the notification message.
	request.AdminNotes = req.Notes

	reason := req.Notes
	if reason == "" {
		reason = "No reason provided"
	}

	notification := &models.Notification{
		UserID:  request.UserID,
		Type:    repositories.NotificationTypeRoleRequestRejected,
		Title:   "Role request rejected",
		Message: fmt.Sprintf("Your request to become a %s has been rejected. Reason: %s", request.RequestedRole, reason),
		Data:    requestData(request),
	}

	// Rejection never touches Profile.role.
	err = s.txManager.Do(func(tx *gorm.DB) error {
		if err := s.requestRepo.WithTx(tx).Update(request); err != nil {
			return err
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.publish(notification)
	s.sendDecisionEmail(request, reason)

	return dto.NewRoleRequestResponse(request), nil
}

func (s *roleRequestService) ListMine(userID string) ([]*dto.RoleRequestResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	requests, err := s.requestRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.RoleRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.NewRoleRequestResponse(&requests[i]))
	}
	return responses, nil
}

func (s *roleRequestService) ListAll(actorID string, filter repositories.RoleRequestFilter) (*dto.RoleRequestListResponse, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	requests, total, err := s.requestRepo.FindWithFilter(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.RoleRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.NewRoleRequestResponse(&requests[i]))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.RoleRequestListResponse{
		Requests:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// loadForReview gates approve/reject: the actor's role is re-read from the
// profile store at call time rather than trusted from the token claim, and
// the request must still be pending.
func (s *roleRequestService) loadForReview(actorID, requestID string) (*models.RoleRequest, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoleRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !request.Pending() {
		return nil, apperrors.ErrRequestNotPending
	}
	return request, nil
}

func (s *roleRequestService) requireAdmin(actorID string) error {
	if actorID == "" {
		return apperrors.ErrNotAuthenticated
	}
	actor, err := s.profileRepo.FindByID(actorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrUnauthorized
		}
		return apperrors.InternalError(err)
	}
	if !actor.IsAdmin() {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (s *roleRequestService) publish(n *models.Notification) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishToUser(n.UserID, dto.NewNotificationResponse(n))
}

func (s *roleRequestService) sendDecisionEmail(request *models.RoleRequest, reason string) {
	if s.emailProvider == nil {
		return
	}

	user, err := s.userRepo.FindByID(request.UserID)
	if err != nil {
		logger.WithError(err).Warn("decision email skipped: user lookup failed", "request_id", request.ID)
		return
	}

	approved := request.Status == models.RoleRequestStatusApproved
	go func() {
		if err := s.emailProvider.SendRoleDecision(user.Email, string(request.RequestedRole), approved, reason); err != nil {
			logger.WithError(err).Warn("failed to send decision email", "request_id", request.ID)
		}
	}()
}

func requestData(request *models.RoleRequest) datatypes.JSON {
	payload, err := json.Marshal(map[string]string{
		"request_id": request.ID,
		"role":       string(request.RequestedRole),
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}
