package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils/apierror"
	"sharpcut/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
)

func newTestValidator() *validator.Validate {
	validate := validator.New()
	validators.Register(validate)
	return validate
}

type fakeApptRepo struct {
	appts     map[int]*entity.Appointment
	nextID    int
	slotTaken bool
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appts: map[int]*entity.Appointment{}}
}

func (f *fakeApptRepo) FindByID(id int) (*entity.Appointment, error) {
	return f.appts[id], nil
}

func (f *fakeApptRepo) FindAll() ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApptRepo) FindByUserID(userID int) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) IsSlotTaken(date int64, slot string) (bool, error) {
	return f.slotTaken, nil
}

func (f *fakeApptRepo) Save(a *entity.Appointment) error {
	if a.ID == 0 {
		f.nextID++
		a.ID = f.nextID
	}
	f.appts[a.ID] = a
	return nil
}

func (f *fakeApptRepo) Delete(a *entity.Appointment) error {
	delete(f.appts, a.ID)
	return nil
}

type fakeServiceRepo struct {
	svcs map[int]*entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{svcs: map[int]*entity.Service{
		1: {ID: 1, Name: "Classic Cut", PriceCents: 3500, DurationMinutes: 30, Type: "haircut"},
	}}
}

func (f *fakeServiceRepo) FindByID(id int) (*entity.Service, error) { return f.svcs[id], nil }

func (f *fakeServiceRepo) FindAll() ([]*entity.Service, error) {
	var out []*entity.Service
	for _, s := range f.svcs {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeServiceRepo) Save(s *entity.Service) error {
	if s.ID == 0 {
		s.ID = len(f.svcs) + 1
	}
	f.svcs[s.ID] = s
	return nil
}

func (f *fakeServiceRepo) Delete(s *entity.Service) error {
	delete(f.svcs, s.ID)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

type fakeStorage struct {
	uploads int
	url     string
	err     error
}

func (f *fakeStorage) Upload(ctx context.Context, localPath, folder string) (string, error) {
	f.uploads++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newApptService(repo *fakeApptRepo, mailer *fakeMailer, storage *fakeStorage) *DefaultAppointmentService {
	return NewAppointmentService(repo, newFakeServiceRepo(), newTestValidator(), mailer, storage, "barbershop/references")
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 2).Format(time.RFC3339)
}

var (
	alice = &entity.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: entity.RoleUser}
	bob   = &entity.User{ID: 2, Name: "Bob", Email: "bob@example.com", Role: entity.RoleUser}
	admin = &entity.User{ID: 9, Name: "Root", Email: "root@example.com", Role: entity.RoleAdmin}
)

func TestCreateAppointment_OwnerForcedToCaller(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	resp, apierr := svc.CreateAppointment(alice, &AppointmentRequest{
		ServiceID: 1,
		Date:      futureDate(),
		TimeSlot:  "10:00",
	})
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	if resp.UserID != alice.ID {
		t.Errorf("response owner = %d, want %d", resp.UserID, alice.ID)
	}
	if stored := repo.appts[resp.ID]; stored.UserID != alice.ID {
		t.Errorf("stored owner = %d, want %d", stored.UserID, alice.ID)
	}
}

func TestCreateAppointment_MailFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newApptService(repo, mailer, &fakeStorage{})

	resp, apierr := svc.CreateAppointment(alice, &AppointmentRequest{
		ServiceID: 1,
		Date:      futureDate(),
		TimeSlot:  "11:00",
	})
	if apierr != nil {
		t.Fatalf("create should succeed despite mail failure, got %v", apierr)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("mailer called %d times, want 1", len(mailer.sent))
	}
	if _, ok := repo.appts[resp.ID]; !ok {
		t.Error("appointment was not persisted")
	}
}

func TestCreateAppointment_Rejections(t *testing.T) {
	t.Parallel()

	past := time.Now().UTC().AddDate(0, 0, -2).Format(time.RFC3339)

	tests := []struct {
		name      string
		slotTaken bool
		req       *AppointmentRequest
		want      apierror.ErrorResponse
	}{
		{"past date", false, &AppointmentRequest{ServiceID: 1, Date: past, TimeSlot: "10:00"}, apierror.AppointmentInPastError},
		{"slot taken", true, &AppointmentRequest{ServiceID: 1, Date: futureDate(), TimeSlot: "10:00"}, apierror.SlotNotAvailableError},
		{"unknown service", false, &AppointmentRequest{ServiceID: 77, Date: futureDate(), TimeSlot: "10:00"}, apierror.UnknownServiceError},
	}

	for _, tt := range tests {
		repo := newFakeApptRepo()
		repo.slotTaken = tt.slotTaken
		svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

		_, apierr := svc.CreateAppointment(alice, tt.req)
		if apierr != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, apierr, tt.want)
		}
	}
}

func TestCreateAppointment_InvalidSlotFailsValidation(t *testing.T) {
	t.Parallel()

	svc := newApptService(newFakeApptRepo(), &fakeMailer{}, &fakeStorage{})

	_, apierr := svc.CreateAppointment(alice, &AppointmentRequest{
		ServiceID: 1,
		Date:      futureDate(),
		TimeSlot:  "10:30",
	})
	if apierr == nil || apierr.Code() != 400 {
		t.Errorf("got %v, want a 400 validation error", apierr)
	}
}

func TestGetAppointment_OwnershipGate(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, Date: 1, TimeSlot: "09:00", Status: entity.StatusScheduled})
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	if _, apierr := svc.GetAppointment(alice, 1); apierr != nil {
		t.Errorf("owner should read own appointment, got %v", apierr)
	}
	if _, apierr := svc.GetAppointment(bob, 1); apierr != apierror.ForbiddenError {
		t.Errorf("non-owner got %v, want ForbiddenError", apierr)
	}
	if _, apierr := svc.GetAppointment(admin, 1); apierr != nil {
		t.Errorf("admin should read any appointment, got %v", apierr)
	}
	if _, apierr := svc.GetAppointment(alice, 42); apierr != apierror.NotFoundError {
		t.Errorf("absent id got %v, want NotFoundError", apierr)
	}
}

func TestGetAppointments_ScopedByRole(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, TimeSlot: "09:00"})
	repo.Save(&entity.Appointment{UserID: bob.ID, ServiceID: 1, TimeSlot: "10:00"})
	repo.Save(&entity.Appointment{UserID: bob.ID, ServiceID: 1, TimeSlot: "11:00"})
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	mine, apierr := svc.GetAppointments(alice)
	if apierr != nil {
		t.Fatalf("list failed: %v", apierr)
	}
	if len(mine) != 1 {
		t.Errorf("alice sees %d appointments, want 1", len(mine))
	}
	for _, a := range mine {
		if a.UserID != alice.ID {
			t.Errorf("alice sees foreign appointment owned by %d", a.UserID)
		}
	}

	all, apierr := svc.GetAppointments(admin)
	if apierr != nil {
		t.Fatalf("admin list failed: %v", apierr)
	}
	if len(all) != 3 {
		t.Errorf("admin sees %d appointments, want 3", len(all))
	}
}

func TestDeleteAppointment_SecondDeleteIsNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, TimeSlot: "09:00"})
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	if apierr := svc.DeleteAppointment(alice, 1); apierr != nil {
		t.Fatalf("first delete failed: %v", apierr)
	}
	if apierr := svc.DeleteAppointment(alice, 1); apierr != apierror.NotFoundError {
		t.Errorf("second delete got %v, want NotFoundError", apierr)
	}
}

func TestUpdateAppointment_OwnerImmutable(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, Date: 1, TimeSlot: "09:00", Status: entity.StatusScheduled})
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	// Admin updates someone else's appointment; the owner must not move.
	resp, apierr := svc.UpdateAppointment(admin, 1, &AppointmentUpdateRequest{Status: entity.StatusDone})
	if apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if resp.UserID != alice.ID {
		t.Errorf("owner changed to %d on update", resp.UserID)
	}
	if resp.Status != entity.StatusDone {
		t.Errorf("status = %s, want done", resp.Status)
	}
}

func TestUpdateAppointment_ForbiddenForStranger(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, TimeSlot: "09:00"})
	svc := newApptService(repo, &fakeMailer{}, &fakeStorage{})

	if _, apierr := svc.UpdateAppointment(bob, 1, &AppointmentUpdateRequest{Status: entity.StatusCancelled}); apierr != apierror.ForbiddenError {
		t.Errorf("got %v, want ForbiddenError", apierr)
	}
}

func TestUploadImage_Gates(t *testing.T) {
	t.Parallel()

	repo := newFakeApptRepo()
	repo.Save(&entity.Appointment{UserID: alice.ID, ServiceID: 1, TimeSlot: "09:00"})
	storage := &fakeStorage{url: "https://bucket.s3.us-east-1.amazonaws.com/barbershop/references/x.png"}
	svc := newApptService(repo, &fakeMailer{}, storage)

	// Missing file never reaches the relay.
	if _, apierr := svc.UploadImage(context.Background(), alice, 1, ""); apierr != apierror.MissingFileError {
		t.Errorf("got %v, want MissingFileError", apierr)
	}
	if storage.uploads != 0 {
		t.Errorf("storage called %d times for a missing file", storage.uploads)
	}

	// Forbidden caller never reaches the relay either.
	if _, apierr := svc.UploadImage(context.Background(), bob, 1, "/tmp/whatever.png"); apierr != apierror.ForbiddenError {
		t.Errorf("got %v, want ForbiddenError", apierr)
	}
	if storage.uploads != 0 {
		t.Errorf("storage called %d times for a forbidden caller", storage.uploads)
	}

	resp, apierr := svc.UploadImage(context.Background(), alice, 1, "/tmp/ref.png")
	if apierr != nil {
		t.Fatalf("upload failed: %v", apierr)
	}
	if resp.ImageURL != storage.url {
		t.Errorf("image url = %s, want %s", resp.ImageURL, storage.url)
	}
	if stored := repo.appts[1]; stored.ImageURL == nil || *stored.ImageURL != storage.url {
		t.Error("image reference was not persisted")
	}
}
