package service

import (
	"context"
	"fmt"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
)

type AuditService struct {
	auditRepo    repository.AuditRepository
	eventRepo    repository.EventRepository
	locationRepo repository.LocationRepository
}

func NewAuditService(
	auditRepo repository.AuditRepository,
	eventRepo repository.EventRepository,
	locationRepo repository.LocationRepository,
) *AuditService {
	return &AuditService{
		auditRepo:    auditRepo,
		eventRepo:    eventRepo,
		locationRepo: locationRepo,
	}
}

type AuditRequest struct {
	LocationID int64     `json:"location_id"`
	Active     bool      `json:"active"`
	Starts     time.Time `json:"starts"`
	Ends       time.Time `json:"ends"`
}

func (r AuditRequest) validate() common.FieldErrors {
	fields := common.FieldErrors{}
	if r.LocationID == 0 {
		fields["location_id"] = "This field is required."
	}
	if r.Starts.IsZero() {
		fields["starts"] = "This field is required."
	}
	if r.Ends.IsZero() {
		fields["ends"] = "This field is required."
	}
	if !r.Starts.IsZero() && !r.Ends.IsZero() && !r.Ends.After(r.Starts) {
		fields["ends"] = "The audit must end after it starts."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *AuditService) Create(ctx context.Context, eventID int64, req AuditRequest) (*model.Audit, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	if _, err := s.locationRepo.FindByID(ctx, req.LocationID); err != nil {
		return nil, fmt.Errorf("location not found: %w", err)
	}

	audit := &model.Audit{
		EventID:    eventID,
		LocationID: req.LocationID,
		Active:     req.Active,
		Starts:     req.Starts,
		Ends:       req.Ends,
	}
	if err := s.auditRepo.Create(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to create audit: %w", err)
	}
	return audit, nil
}

func (s *AuditService) Update(ctx context.Context, eventID, auditID int64, req AuditRequest) (*model.Audit, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	audit, err := s.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.EventID != eventID {
		return nil, common.ErrNotFound
	}
	if _, err := s.locationRepo.FindByID(ctx, req.LocationID); err != nil {
		return nil, fmt.Errorf("location not found: %w", err)
	}

	audit.LocationID = req.LocationID
	audit.Active = req.Active
	audit.Starts = req.Starts
	audit.Ends = req.Ends
	if err := s.auditRepo.Update(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to update audit: %w", err)
	}
	return audit, nil
}

func (s *AuditService) Delete(ctx context.Context, eventID, auditID int64) error {
	audit, err := s.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return err
	}
	if audit.EventID != eventID {
		return common.ErrNotFound
	}
	return s.auditRepo.Delete(ctx, auditID)
}
