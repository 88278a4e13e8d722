package service

import (
	"context"
	"database/sql"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"
)

// fakeTxRunner executes the callback without a real transaction. The
// repository fakes ignore the tx argument anyway.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return common.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

type fakeProfileRepo struct {
	nextID   int64
	profiles map[int64]*model.RegistrationProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{nextID: 1, profiles: map[int64]*model.RegistrationProfile{}}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *model.RegistrationProfile) error {
	for _, existing := range f.profiles {
		if existing.Email == profile.Email {
			return common.ErrConflict
		}
	}
	profile.ID = f.nextID
	f.nextID++
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*model.RegistrationProfile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProfileRepo) FindByKey(ctx context.Context, activationKey string) (*model.RegistrationProfile, error) {
	for _, profile := range f.profiles {
		if profile.ActivationKey == activationKey {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProfileRepo) MarkActivated(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error {
	profile, ok := f.profiles[id]
	if !ok {
		return common.ErrNotFound
	}
	if profile.ActivationDate != nil {
		return common.ErrAlreadyActivated
	}
	stamp := when
	profile.ActivationDate = &stamp
	return nil
}

type fakeEventRepo struct {
	nextID int64
	events map[int64]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: map[int64]*model.Event{}}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	event.ID = f.nextID
	f.nextID++
	clone := *event
	f.events[event.ID] = &clone
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return common.ErrNotFound
	}
	clone := *event
	f.events[event.ID] = &clone
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *event
	return &clone, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	for _, event := range f.events {
		events = append(events, *event)
	}
	return events, nil
}

func (f *fakeEventRepo) ListOpen(ctx context.Context, now time.Time) ([]model.Event, error) {
	var events []model.Event
	for _, event := range f.events {
		if event.OpenForRegistration(now) {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeAuditRepo struct {
	nextID     int64
	audits     map[int64]*model.Audit
	capacities map[int64]int // audit id -> location capacity
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{nextID: 1, audits: map[int64]*model.Audit{}, capacities: map[int64]int{}}
}

func (f *fakeAuditRepo) add(audit model.Audit, capacity int) *model.Audit {
	audit.ID = f.nextID
	f.nextID++
	f.audits[audit.ID] = &audit
	f.capacities[audit.ID] = capacity
	return &audit
}

func (f *fakeAuditRepo) Create(ctx context.Context, audit *model.Audit) error {
	audit.ID = f.nextID
	f.nextID++
	clone := *audit
	f.audits[audit.ID] = &clone
	return nil
}

func (f *fakeAuditRepo) Update(ctx context.Context, audit *model.Audit) error {
	if _, ok := f.audits[audit.ID]; !ok {
		return common.ErrNotFound
	}
	clone := *audit
	f.audits[audit.ID] = &clone
	return nil
}

func (f *fakeAuditRepo) FindByID(ctx context.Context, id int64) (*model.Audit, error) {
	audit, ok := f.audits[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *audit
	return &clone, nil
}

func (f *fakeAuditRepo) ListByEventWithSeats(ctx context.Context, eventID int64) ([]model.AuditSeats, error) {
	var audits []model.AuditSeats
	for _, audit := range f.audits {
		if audit.EventID != eventID {
			continue
		}
		capacity := f.capacities[audit.ID]
		audits = append(audits, model.AuditSeats{
			Audit:          *audit,
			TotalSeats:     capacity,
			AvailableSeats: capacity,
		})
	}
	return audits, nil
}

func (f *fakeAuditRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.audits[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.audits, id)
	return nil
}

func (f *fakeAuditRepo) LockForEnrollment(ctx context.Context, tx *sql.Tx, id int64) (*model.Audit, int, error) {
	audit, ok := f.audits[id]
	if !ok {
		return nil, 0, common.ErrNotFound
	}
	clone := *audit
	return &clone, f.capacities[id], nil
}

type fakeLocationRepo struct {
	nextID    int64
	locations map[int64]*model.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{nextID: 1, locations: map[int64]*model.Location{}}
}

func (f *fakeLocationRepo) Create(ctx context.Context, location *model.Location) error {
	location.ID = f.nextID
	f.nextID++
	clone := *location
	f.locations[location.ID] = &clone
	return nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, location *model.Location) error {
	if _, ok := f.locations[location.ID]; !ok {
		return common.ErrNotFound
	}
	clone := *location
	f.locations[location.ID] = &clone
	return nil
}

func (f *fakeLocationRepo) FindByID(ctx context.Context, id int64) (*model.Location, error) {
	location, ok := f.locations[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *location
	return &clone, nil
}

func (f *fakeLocationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	for _, location := range f.locations {
		locations = append(locations, *location)
	}
	return locations, nil
}

type fakeEnrollmentRepo struct {
	nextID      int64
	enrollments map[int64]*model.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{nextID: 1, enrollments: map[int64]*model.Enrollment{}}
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *sql.Tx, enrollment *model.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.AuditID == enrollment.AuditID && existing.UserID == enrollment.UserID {
			return common.ErrConflict
		}
	}
	enrollment.ID = f.nextID
	f.nextID++
	clone := *enrollment
	f.enrollments[enrollment.ID] = &clone
	return nil
}

func (f *fakeEnrollmentRepo) CountByAudit(ctx context.Context, tx *sql.Tx, auditID int64) (int, error) {
	count := 0
	for _, enrollment := range f.enrollments {
		if enrollment.AuditID == auditID {
			count++
		}
	}
	return count, nil
}

func (f *fakeEnrollmentRepo) FindByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *enrollment
	return &clone, nil
}

func (f *fakeEnrollmentRepo) ListByUser(ctx context.Context, userID int64) ([]model.EnrollmentDetail, error) {
	var details []model.EnrollmentDetail
	for _, enrollment := range f.enrollments {
		if enrollment.UserID == userID {
			details = append(details, model.EnrollmentDetail{
				Enrollment:      *enrollment,
				SubjectsDisplay: model.HumanizeSubjects(enrollment.Subjects),
			})
		}
	}
	return details, nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.enrollments[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.enrollments, id)
	return nil
}

type fakeMailer struct {
	recipients []string
	keys       []string
	err        error
}

func (f *fakeMailer) EnqueueActivationMail(ctx context.Context, recipient, activationKey string) error {
	if f.err != nil {
		return f.err
	}
	f.recipients = append(f.recipients, recipient)
	f.keys = append(f.keys, activationKey)
	return nil
}
