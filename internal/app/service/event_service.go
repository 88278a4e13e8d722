package service

import (
	"context"
	"fmt"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"

	"github.com/gosimple/slug"
)

type EventService struct {
	eventRepo    repository.EventRepository
	auditRepo    repository.AuditRepository
	locationRepo repository.LocationRepository
}

func NewEventService(
	eventRepo repository.EventRepository,
	auditRepo repository.AuditRepository,
	locationRepo repository.LocationRepository,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		auditRepo:    auditRepo,
		locationRepo: locationRepo,
	}
}

type EventRequest struct {
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	RegistrationOpens  time.Time `json:"registration_opens"`
	RegistrationCloses time.Time `json:"registration_closes"`
}

func (r EventRequest) validate() common.FieldErrors {
	fields := common.FieldErrors{}
	if r.Name == "" {
		fields["name"] = "This field is required."
	}
	if r.RegistrationOpens.IsZero() {
		fields["registration_opens"] = "This field is required."
	}
	if r.RegistrationCloses.IsZero() {
		fields["registration_closes"] = "This field is required."
	}
	if !r.RegistrationOpens.IsZero() && !r.RegistrationCloses.IsZero() &&
		!r.RegistrationCloses.After(r.RegistrationOpens) {
		fields["registration_closes"] = "Registration must close after it opens."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// EventDetail is an event with its audits and their seat figures.
type EventDetail struct {
	Event  *model.Event       `json:"event"`
	Audits []model.AuditSeats `json:"audits"`
}

// Dashboard is the admin overview: all events and all locations.
type Dashboard struct {
	Events    []model.Event    `json:"events"`
	Locations []model.Location `json:"locations"`
}

func (s *EventService) Create(ctx context.Context, req EventRequest) (*model.Event, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	event := &model.Event{
		Name:               req.Name,
		Slug:               slug.Make(req.Name),
		Description:        req.Description,
		RegistrationOpens:  req.RegistrationOpens,
		RegistrationCloses: req.RegistrationCloses,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id int64, req EventRequest) (*model.Event, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Name = req.Name
	event.Slug = slug.Make(req.Name)
	event.Description = req.Description
	event.RegistrationOpens = req.RegistrationOpens
	event.RegistrationCloses = req.RegistrationCloses
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*EventDetail, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	audits, err := s.auditRepo.ListByEventWithSeats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	return &EventDetail{Event: event, Audits: audits}, nil
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

func (s *EventService) Dashboard(ctx context.Context) (*Dashboard, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return &Dashboard{Events: events, Locations: locations}, nil
}
