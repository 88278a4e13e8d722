package service

import (
	"context"
	"fmt"
	"time"

	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
)

type ProfileService struct {
	userRepo       repository.UserRepository
	eventRepo      repository.EventRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewProfileService(
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	enrollmentRepo repository.EnrollmentRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// ProfilePage is the signed-in user's view: events currently open for
// registration and the user's own enrollments.
type ProfilePage struct {
	User        *model.User              `json:"user"`
	OpenEvents  []model.Event            `json:"open_events"`
	Enrollments []model.EnrollmentDetail `json:"enrollments"`
}

func (s *ProfileService) Profile(ctx context.Context, userID int64) (*ProfilePage, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	events, err := s.eventRepo.ListOpen(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list open events: %w", err)
	}
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return &ProfilePage{User: user, OpenEvents: events, Enrollments: enrollments}, nil
}
