package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
	"evreg/internal/platform/metrics"
)

// seatBuffer is the number of seats kept free per audit. Enrollment is
// refused once available seats drop to this buffer or below, so the last
// seat is never handed out.
const seatBuffer = 1

type EnrollmentService struct {
	auditRepo      repository.AuditRepository
	enrollmentRepo repository.EnrollmentRepository
	eventRepo      repository.EventRepository
	tx             repository.TxRunner
	metrics        *metrics.Metrics
}

func NewEnrollmentService(
	auditRepo repository.AuditRepository,
	enrollmentRepo repository.EnrollmentRepository,
	eventRepo repository.EventRepository,
	tx repository.TxRunner,
	m *metrics.Metrics,
) *EnrollmentService {
	return &EnrollmentService{
		auditRepo:      auditRepo,
		enrollmentRepo: enrollmentRepo,
		eventRepo:      eventRepo,
		tx:             tx,
		metrics:        m,
	}
}

type EnrollRequest struct {
	AuditID  int64              `json:"audit_id"`
	Subjects model.SubjectFlags `json:"subjects"`
}

// EnrollmentOptions lists an event's audits with seat figures, the data
// behind the enrollment form.
type EnrollmentOptions struct {
	Event  *model.Event       `json:"event"`
	Audits []model.AuditSeats `json:"audits"`
}

func (s *EnrollmentService) EnrollmentOptions(ctx context.Context, eventID int64) (*EnrollmentOptions, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	audits, err := s.auditRepo.ListByEventWithSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	return &EnrollmentOptions{Event: event, Audits: audits}, nil
}

// AvailableSeats returns the free-seat count of an audit: location capacity
// minus the number of existing enrollments.
func (s *EnrollmentService) AvailableSeats(ctx context.Context, auditID int64) (int, error) {
	_, capacity, err := s.auditRepo.LockForEnrollment(ctx, nil, auditID)
	if err != nil {
		return 0, err
	}
	enrolled, err := s.enrollmentRepo.CountByAudit(ctx, nil, auditID)
	if err != nil {
		return 0, err
	}
	return model.SeatsAvailable(capacity, enrolled), nil
}

// Enroll admits a user to an audit of the given event. The capacity check
// and the insert run in one transaction holding a lock on the audit row, so
// concurrent enrollments cannot oversell the location.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, eventID int64, req EnrollRequest) (*model.Enrollment, error) {
	subjects := req.Subjects.Selected()
	if err := model.ValidateSubjects(subjects); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	now := time.Now()
	if !event.OpenForRegistration(now) {
		return nil, fmt.Errorf("registration for this event is closed: %w", common.ErrForbidden)
	}

	enrollment := &model.Enrollment{
		AuditID:        req.AuditID,
		UserID:         userID,
		EnrollmentDate: now,
		Subjects:       subjects,
	}

	err = s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		audit, capacity, err := s.auditRepo.LockForEnrollment(ctx, tx, req.AuditID)
		if err != nil {
			return fmt.Errorf("audit not found: %w", err)
		}
		if audit.EventID != eventID {
			return fmt.Errorf("audit does not belong to this event: %w", common.ErrNotFound)
		}
		if !audit.Active {
			return fmt.Errorf("audit is not open for enrollment: %w", common.ErrValidation)
		}

		enrolled, err := s.enrollmentRepo.CountByAudit(ctx, tx, req.AuditID)
		if err != nil {
			return err
		}
		if model.SeatsAvailable(capacity, enrolled) <= seatBuffer {
			return common.ErrCapacityExceeded
		}
		return s.enrollmentRepo.Create(ctx, tx, enrollment)
	})
	if err != nil {
		if s.metrics != nil && errors.Is(err, common.ErrCapacityExceeded) {
			s.metrics.EnrollmentsRefused.Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EnrollmentsAccepted.Inc()
	}
	return enrollment, nil
}

// Cancel deletes an enrollment. The acting principal must own it or hold
// the admin role.
func (s *EnrollmentService) Cancel(ctx context.Context, principal Principal, enrollmentID int64) error {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.UserID != principal.UserID && !principal.IsAdmin() {
		return fmt.Errorf("enrollment belongs to another user: %w", common.ErrForbidden)
	}
	return s.enrollmentRepo.Delete(ctx, enrollmentID)
}
