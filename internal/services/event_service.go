package services

import (
	"fmt"

	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type EventService interface {
	Create(actorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(eventID string) (*dto.EventResponse, error)
	List(page, pageSize int) (*dto.EventListResponse, error)
	ListUpcoming(limit int) ([]*dto.EventResponse, error)
	Update(actorID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(actorID, eventID string) error
}

type eventService struct {
	eventRepo           repositories.EventRepository
	profileRepo         repositories.ProfileRepository
	notificationService NotificationService
}

func NewEventService(
	eventRepo repositories.EventRepository,
	profileRepo repositories.ProfileRepository,
	notificationService NotificationService,
) EventService {
	return &eventService{
		eventRepo:           eventRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
	}
}

// Create is admin-only. The announcement notification goes to the creating
// admin's inbox as a write receipt; broadcast to members happens on the
// dashboard via the upcoming-events list.
func (s *eventService) Create(actorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	event := &models.Event{
		CreatedBy:   actorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if s.notificationService != nil {
		if err := s.notificationService.Notify(
			actorID,
			repositories.NotificationTypeEventAnnounced,
			"Event published",
			fmt.Sprintf("%q is now visible to members.", event.Title),
		); err != nil {
			logger.WithError(err).Warn("event receipt notification failed", "event_id", event.ID)
		}
	}

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Get(eventID string) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewEventResponse(event), nil
}

func (s *eventService) List(page, pageSize int) (*dto.EventListResponse, error) {
	events, total, err := s.eventRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, dto.NewEventResponse(&events[i]))
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.EventListResponse{
		Events:     responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *eventService) ListUpcoming(limit int) ([]*dto.EventResponse, error) {
	events, err := s.eventRepo.FindUpcoming(limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, dto.NewEventResponse(&events[i]))
	}
	return responses, nil
}

func (s *eventService) Update(actorID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewEventResponse(event), nil
}

func (s *eventService) Delete(actorID, eventID string) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(eventID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *eventService) requireAdmin(actorID string) error {
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
