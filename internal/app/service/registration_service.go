package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"

	"evreg/internal/common"
	"evreg/internal/common/security"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
	"evreg/internal/platform/metrics"

	"github.com/google/uuid"
)

// ActivationMailer dispatches the activation mail after a successful
// registration. Delivery is fire-and-forget from the caller's view.
type ActivationMailer interface {
	EnqueueActivationMail(ctx context.Context, recipient, activationKey string) error
}

type RegistrationService struct {
	profileRepo      repository.ProfileRepository
	userRepo         repository.UserRepository
	tx               repository.TxRunner
	mailer           ActivationMailer
	metrics          *metrics.Metrics
	activationWindow time.Duration
}

func NewRegistrationService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	tx repository.TxRunner,
	mailer ActivationMailer,
	m *metrics.Metrics,
	activationWindow time.Duration,
) *RegistrationService {
	return &RegistrationService{
		profileRepo:      profileRepo,
		userRepo:         userRepo,
		tx:               tx,
		mailer:           mailer,
		metrics:          m,
		activationWindow: activationWindow,
	}
}

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DOB             string `json:"dob"` // YYYY-MM-DD
	IdentifierID    string `json:"identifier_id"`
	Zipcode         string `json:"zipcode"`
	City            string `json:"city"`
	Street          string `json:"street"`
	Country         string `json:"country"`
	IPAddress       string `json:"-"` // Set from the request, not the payload
}

func (r RegisterRequest) validate() (time.Time, common.FieldErrors) {
	fields := common.FieldErrors{}
	required := map[string]string{
		"first_name":    r.FirstName,
		"last_name":     r.LastName,
		"email":         r.Email,
		"password":      r.Password,
		"identifier_id": r.IdentifierID,
		"zipcode":       r.Zipcode,
		"city":          r.City,
		"street":        r.Street,
		"country":       r.Country,
	}
	for field, value := range required {
		if value == "" {
			fields[field] = "This field is required."
		}
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			fields["email"] = "A valid e-mail address is required."
		}
	}
	if r.Password != "" && r.Password != r.ConfirmPassword {
		fields["confirm_password"] = "Passwords do not match."
	}
	if r.Country != "" && !model.ValidCountry(r.Country) {
		fields["country"] = "Unknown country."
	}

	var dob time.Time
	if r.DOB == "" {
		fields["dob"] = "This field is required."
	} else {
		var err error
		if dob, err = time.Parse("2006-01-02", r.DOB); err != nil {
			fields["dob"] = "A date in the form YYYY-MM-DD is required."
		}
	}

	if len(fields) > 0 {
		return time.Time{}, fields
	}
	return dob, nil
}

// Register creates a pending registration profile with a fresh activation
// key and hands the activation mail to the queue. Nothing is persisted when
// validation fails.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*model.RegistrationProfile, error) {
	dob, fields := req.validate()
	if fields != nil {
		return nil, fields
	}

	if _, err := s.profileRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.FieldErrors{"email": "E-Mail already in use."}
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	profile := &model.RegistrationProfile{
		Identity: model.Identity{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			DOB:          dob,
			IdentifierID: req.IdentifierID,
		},
		Address: model.Address{
			Zipcode: req.Zipcode,
			City:    req.City,
			Street:  req.Street,
			Country: req.Country,
		},
		PasswordHash:     passwordHash,
		IPAddress:        req.IPAddress,
		ActivationKey:    uuid.NewString(),
		RegistrationDate: now,
		ExpirationDate:   now.Add(s.activationWindow),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.FieldErrors{"email": "E-Mail already in use."}
		}
		return nil, fmt.Errorf("failed to create registration profile: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RegistrationsCreated.Inc()
	}

	// The profile is committed at this point. A mail dispatch failure is
	// logged and surfaces on the next manual resend, it never fails the
	// registration.
	if err := s.mailer.EnqueueActivationMail(ctx, profile.Email, profile.ActivationKey); err != nil {
		log.Printf("ERROR: Failed to enqueue activation mail for %s: %v", profile.Email, err)
	}

	return profile, nil
}

// Activate promotes a pending profile into a full user account. The user
// creation and the activation stamp commit atomically.
func (s *RegistrationService) Activate(ctx context.Context, key string) (*model.User, error) {
	profile, err := s.profileRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up activation key: %w", err)
	}

	if profile.Activated() {
		return nil, common.ErrAlreadyActivated
	}
	if profile.Expired(time.Now()) {
		return nil, common.ErrActivationExpired
	}

	// We use the email as username.
	user := &model.User{
		Username:     profile.Email,
		Identity:     profile.Identity,
		Address:      profile.Address,
		PasswordHash: profile.PasswordHash,
	}

	err = s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.profileRepo.MarkActivated(ctx, tx, profile.ID, time.Now())
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ActivationsCompleted.Inc()
	}

	log.Printf("Profile %d activated, user %d created.", profile.ID, user.ID)
	user.PasswordHash = ""
	return user, nil
}
