package service

import (
	"context"
	"testing"
	"time"

	"evreg/internal/common"
	"evreg/internal/common/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Anna",
		LastName:        "Schmidt",
		Email:           "anna.schmidt@example.org",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		DOB:             "1990-04-17",
		IdentifierID:    "L01X00T47",
		Zipcode:         "10115",
		City:            "Berlin",
		Street:          "Invalidenstr. 1",
		Country:         "DEU",
		IPAddress:       "192.0.2.1",
	}
}

type registrationFixture struct {
	service  *RegistrationService
	profiles *fakeProfileRepo
	users    *fakeUserRepo
	mailer   *fakeMailer
}

func newRegistrationFixture(t *testing.T, window time.Duration) *registrationFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	return &registrationFixture{
		service:  NewRegistrationService(profiles, users, &fakeTxRunner{}, mailer, nil, window),
		profiles: profiles,
		users:    users,
		mailer:   mailer,
	}
}

func TestRegisterCreatesPendingProfile(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)

	profile, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.NotZero(t, profile.ID)
	assert.NotEmpty(t, profile.ActivationKey)
	assert.False(t, profile.Activated())
	assert.True(t, security.CheckPasswordHash("secret123", profile.PasswordHash),
		"password must be stored hashed, not verbatim")
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), profile.ExpirationDate, time.Minute)

	require.Len(t, fx.mailer.recipients, 1)
	assert.Equal(t, "anna.schmidt@example.org", fx.mailer.recipients[0])
	assert.Equal(t, profile.ActivationKey, fx.mailer.keys[0])
}

func TestRegisterValidation(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }, "first_name"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-address" }, "email"},
		{"password mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "other" }, "confirm_password"},
		{"unknown country", func(r *RegisterRequest) { r.Country = "XXX" }, "country"},
		{"missing dob", func(r *RegisterRequest) { r.DOB = "" }, "dob"},
		{"malformed dob", func(r *RegisterRequest) { r.DOB = "17.04.1990" }, "dob"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegisterRequest()
			tc.mutate(&req)

			_, err := fx.service.Register(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)

			var fields common.FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)

	_, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = fx.service.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)

	var fields common.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "email")
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)
	fx.mailer.err = context.DeadlineExceeded

	profile, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err, "a mail dispatch failure must not fail the registration")
	assert.NotZero(t, profile.ID)
}

func TestActivatePromotesProfileToUser(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)

	profile, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	user, err := fx.service.Activate(context.Background(), profile.ActivationKey)
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, profile.Email, user.Username, "username defaults to the email")
	assert.Equal(t, profile.Email, user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := fx.users.FindByEmail(context.Background(), profile.Email)
	require.NoError(t, err)
	assert.True(t, security.CheckPasswordHash("secret123", stored.PasswordHash))
}

func TestActivateUnknownKey(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)
	_, err := fx.service.Activate(context.Background(), "no-such-key")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestActivateTwice(t *testing.T) {
	fx := newRegistrationFixture(t, 72*time.Hour)

	profile, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = fx.service.Activate(context.Background(), profile.ActivationKey)
	require.NoError(t, err)

	_, err = fx.service.Activate(context.Background(), profile.ActivationKey)
	assert.ErrorIs(t, err, common.ErrAlreadyActivated)
}

func TestActivateExpiredKey(t *testing.T) {
	fx := newRegistrationFixture(t, -time.Hour) // already expired on creation

	profile, err := fx.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = fx.service.Activate(context.Background(), profile.ActivationKey)
	assert.ErrorIs(t, err, common.ErrActivationExpired)

	_, err = fx.users.FindByEmail(context.Background(), profile.Email)
	assert.ErrorIs(t, err, common.ErrNotFound, "no user account for an expired key")
}
