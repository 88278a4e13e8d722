package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollmentFixture struct {
	service  *EnrollmentService
	events   *fakeEventRepo
	audits   *fakeAuditRepo
	enrolled *fakeEnrollmentRepo
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	events := newFakeEventRepo()
	audits := newFakeAuditRepo()
	enrolled := newFakeEnrollmentRepo()
	return &enrollmentFixture{
		service:  NewEnrollmentService(audits, enrolled, events, &fakeTxRunner{}, nil),
		events:   events,
		audits:   audits,
		enrolled: enrolled,
	}
}

func (fx *enrollmentFixture) openEvent(t *testing.T) *model.Event {
	t.Helper()
	event := &model.Event{
		Name:               "Herbstprüfung",
		RegistrationOpens:  time.Now().Add(-24 * time.Hour),
		RegistrationCloses: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, fx.events.Create(context.Background(), event))
	return event
}

func (fx *enrollmentFixture) activeAudit(eventID int64, capacity int) *model.Audit {
	return fx.audits.add(model.Audit{
		EventID: eventID,
		Active:  true,
		Starts:  time.Now().Add(30 * 24 * time.Hour),
		Ends:    time.Now().Add(31 * 24 * time.Hour),
	}, capacity)
}

func defaultSubjects() model.SubjectFlags {
	return model.SubjectFlags{De: true, En: true}
}

func TestEnrollAdmitsUser(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 10)

	enrollment, err := fx.service.Enroll(context.Background(), 7, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)
	assert.NotZero(t, enrollment.ID)
	assert.Equal(t, int64(7), enrollment.UserID)
	assert.Equal(t, []string{"de", "en"}, enrollment.Subjects)

	seats, err := fx.service.AvailableSeats(context.Background(), audit.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, seats, "one enrollment takes exactly one seat")
}

func TestEnrollKeepsLastSeatFree(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 3)

	// Capacity 3 admits two users, the third request must not get the
	// last seat.
	for userID := int64(1); userID <= 2; userID++ {
		_, err := fx.service.Enroll(context.Background(), userID, event.ID, EnrollRequest{
			AuditID:  audit.ID,
			Subjects: defaultSubjects(),
		})
		require.NoError(t, err, "user %d should fit", userID)
	}

	_, err := fx.service.Enroll(context.Background(), 3, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrCapacityExceeded)

	seats, err := fx.service.AvailableSeats(context.Background(), audit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, seats)
}

func TestEnrollRefusesWhenOnlyOneSeatLeft(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 1)

	_, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrCapacityExceeded)
}

func TestEnrollRejectsInvalidSubjects(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 10)

	cases := []struct {
		name     string
		subjects model.SubjectFlags
	}{
		{"missing base language", model.SubjectFlags{En: true, Fr: true}},
		{"base language alone", model.SubjectFlags{De: true}},
		{"too many subjects", model.SubjectFlags{De: true, En: true, Ru: true, Fr: true}},
		{"empty selection", model.SubjectFlags{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
				AuditID:  audit.ID,
				Subjects: tc.subjects,
			})
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestEnrollOutsideRegistrationWindow(t *testing.T) {
	fx := newEnrollmentFixture(t)
	closed := &model.Event{
		Name:               "Frühjahrsprüfung",
		RegistrationOpens:  time.Now().Add(-48 * time.Hour),
		RegistrationCloses: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, fx.events.Create(context.Background(), closed))
	audit := fx.activeAudit(closed.ID, 10)

	_, err := fx.service.Enroll(context.Background(), 1, closed.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestEnrollInactiveAudit(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.audits.add(model.Audit{EventID: event.ID, Active: false}, 10)

	_, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestEnrollAuditOfOtherEvent(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	other := fx.openEvent(t)
	audit := fx.activeAudit(other.ID, 10)

	_, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEnrollTwiceSameAudit(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 10)

	_, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)

	_, err = fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCancelRequiresOwnerOrAdmin(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 10)

	enrollment, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)

	stranger := Principal{UserID: 2, Role: model.RoleUser}
	err = fx.service.Cancel(context.Background(), stranger, enrollment.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	owner := Principal{UserID: 1, Role: model.RoleUser}
	require.NoError(t, fx.service.Cancel(context.Background(), owner, enrollment.ID))

	_, err = fx.enrolled.FindByID(context.Background(), enrollment.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCancelAsAdmin(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 10)

	enrollment, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)

	admin := Principal{UserID: 99, Role: model.RoleAdmin}
	require.NoError(t, fx.service.Cancel(context.Background(), admin, enrollment.ID))
}

func TestCancelFreesSeat(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	audit := fx.activeAudit(event.ID, 3)

	first, err := fx.service.Enroll(context.Background(), 1, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)
	_, err = fx.service.Enroll(context.Background(), 2, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.NoError(t, err)

	// Full minus buffer. A third user is refused until a seat frees up.
	_, err = fx.service.Enroll(context.Background(), 3, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	require.ErrorIs(t, err, common.ErrCapacityExceeded)

	owner := Principal{UserID: 1, Role: model.RoleUser}
	require.NoError(t, fx.service.Cancel(context.Background(), owner, first.ID))

	_, err = fx.service.Enroll(context.Background(), 3, event.ID, EnrollRequest{
		AuditID:  audit.ID,
		Subjects: defaultSubjects(),
	})
	assert.NoError(t, err)
}

func TestEnrollmentOptionsUnknownEvent(t *testing.T) {
	fx := newEnrollmentFixture(t)
	_, err := fx.service.EnrollmentOptions(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEnrollmentOptionsListsAudits(t *testing.T) {
	fx := newEnrollmentFixture(t)
	event := fx.openEvent(t)
	for i := 0; i < 3; i++ {
		fx.activeAudit(event.ID, 10+i)
	}
	fx.activeAudit(event.ID+1000, 5) // different event, must not show up

	options, err := fx.service.EnrollmentOptions(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, options.Event.ID)
	assert.Len(t, options.Audits, 3)
	for _, audit := range options.Audits {
		assert.Equal(t, event.ID, audit.EventID, fmt.Sprintf("audit %d", audit.ID))
	}
}
