package service

import (
	"context"
	"fmt"
	"time"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindByID(id int) (*entity.Appointment, error)
	FindAll() ([]*entity.Appointment, error)
	FindByUserID(userID int) ([]*entity.Appointment, error)
	IsSlotTaken(date int64, slot string) (bool, error)
	Save(appointment *entity.Appointment) error
	Delete(appointment *entity.Appointment) error
}

// ImageStorage relays a staged local file to external storage and returns
// the reference URL to persist. Removal of the local file stays with the
// caller.
type ImageStorage interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

type AppointmentRequest struct {
	ServiceID int    `json:"service_id" validate:"required,min=1"`
	Date      string `json:"date" validate:"required,iso8601"`
	TimeSlot  string `json:"time_slot" validate:"required,timeslot"`
}

// AppointmentUpdateRequest carries the mutable appointment fields. The owner
// is deliberately absent: it is immutable after create and never read from
// client input.
type AppointmentUpdateRequest struct {
	ServiceID int    `json:"service_id" validate:"omitempty,min=1"`
	Date      string `json:"date" validate:"omitempty,iso8601"`
	TimeSlot  string `json:"time_slot" validate:"omitempty,timeslot"`
	Status    string `json:"status" validate:"omitempty,oneof=scheduled cancelled done"`
}

type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type PublicService struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	Type            string `json:"type"`
}

type AppointmentResponse struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	ServiceID int    `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Status    string `json:"status"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	User    *PublicUser    `json:"user,omitempty"`
	Service *PublicService `json:"service,omitempty"`
}

type DefaultAppointmentService struct {
	ApptRepo        AppointmentRepository
	ServiceRepo     ServiceRepository
	Validate        *validator.Validate
	Mailer          MailSender
	Storage         ImageStorage
	ReferenceFolder string
}

func NewAppointmentService(apptRepo AppointmentRepository, serviceRepo ServiceRepository, validate *validator.Validate, mailer MailSender, storage ImageStorage, referenceFolder string) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		ApptRepo:        apptRepo,
		ServiceRepo:     serviceRepo,
		Validate:        validate,
		Mailer:          mailer,
		Storage:         storage,
		ReferenceFolder: referenceFolder,
	}
}

// GetAppointments lists appointments scoped by role: admins see everything,
// everyone else only their own.
func (a *DefaultAppointmentService) GetAppointments(caller *entity.User) ([]*AppointmentResponse, apierror.ErrorResponse) {
	var appts []*entity.Appointment
	var err error
	if caller.Role == entity.RoleAdmin {
		appts, err = a.ApptRepo.FindAll()
	} else {
		appts, err = a.ApptRepo.FindByUserID(caller.ID)
	}

	if err != nil {
		log.Errorf("failed to find appointments for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) GetAppointment(caller *entity.User, id int) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.loadAuthorized(caller, id)
	if apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appt), nil
}

// CreateAppointment books a slot for the caller. The owner is always the
// authenticated caller; a confirmation mail is attempted afterwards and its
// failure never fails the booking.
func (a *DefaultAppointmentService) CreateAppointment(caller *entity.User, req *AppointmentRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	date, moment, apierr := a.parseMoment(req.Date, req.TimeSlot)
	if apierr != nil {
		return nil, apierr
	}
	if moment <= utils.NowUTC() {
		return nil, apierror.AppointmentInPastError
	}

	svc, apierr := a.lookupService(req.ServiceID)
	if apierr != nil {
		return nil, apierr
	}

	taken, err := a.ApptRepo.IsSlotTaken(date, req.TimeSlot)
	if err != nil {
		log.Errorf("failed to check slot %s on %d: %v", req.TimeSlot, date, err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.SlotNotAvailableError
	}

	now := utils.NowUTC()
	appt := &entity.Appointment{
		UserID:    caller.ID,
		ServiceID: svc.ID,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		Status:    entity.StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.ApptRepo.Save(appt); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}

	a.sendConfirmation(caller, svc, appt)
	return toAppointmentResponse(appt), nil
}

// UpdateAppointment applies the mutable fields of the payload to a freshly
// loaded record. The owner never changes, whatever the payload carried.
func (a *DefaultAppointmentService) UpdateAppointment(caller *entity.User, id int, req *AppointmentUpdateRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.loadAuthorized(caller, id)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if req.ServiceID != 0 && req.ServiceID != appt.ServiceID {
		svc, apierr := a.lookupService(req.ServiceID)
		if apierr != nil {
			return nil, apierr
		}
		appt.ServiceID = svc.ID
		appt.Service = *svc
	}

	newDate := appt.Date
	newSlot := appt.TimeSlot
	if req.Date != "" {
		var moment int64
		newDate, moment, apierr = a.parseMoment(req.Date, firstNonEmpty(req.TimeSlot, appt.TimeSlot))
		if apierr != nil {
			return nil, apierr
		}
		if moment <= utils.NowUTC() {
			return nil, apierror.AppointmentInPastError
		}
	}
	if req.TimeSlot != "" {
		newSlot = req.TimeSlot
	}

	if newDate != appt.Date || newSlot != appt.TimeSlot {
		taken, err := a.ApptRepo.IsSlotTaken(newDate, newSlot)
		if err != nil {
			log.Errorf("failed to check slot %s on %d: %v", newSlot, newDate, err)
			return nil, apierror.InternalServerError
		}
		if taken {
			return nil, apierror.SlotNotAvailableError
		}
		appt.Date = newDate
		appt.TimeSlot = newSlot
	}

	if req.Status != "" {
		appt.Status = req.Status
	}

	appt.UpdatedAt = utils.NowUTC()
	if err := a.ApptRepo.Save(appt); err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// DeleteAppointment removes the record. A second delete of the same id sees
// no record and reports not found.
func (a *DefaultAppointmentService) DeleteAppointment(caller *entity.User, id int) apierror.ErrorResponse {
	appt, apierr := a.loadAuthorized(caller, id)
	if apierr != nil {
		return apierr
	}

	if err := a.ApptRepo.Delete(appt); err != nil {
		log.Errorf("failed to delete appointment %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// UploadImage relays a staged reference image to storage and persists the
// returned URL. An empty localPath means no file was attached; the ownership
// gate still runs first so a forbidden caller learns nothing about the
// payload handling.
func (a *DefaultAppointmentService) UploadImage(ctx context.Context, caller *entity.User, id int, localPath string) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.loadAuthorized(caller, id)
	if apierr != nil {
		return nil, apierr
	}

	if localPath == "" {
		return nil, apierror.MissingFileError
	}

	url, err := a.Storage.Upload(ctx, localPath, a.ReferenceFolder)
	if err != nil {
		log.Errorf("failed to upload reference image for appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	appt.ImageURL = &url
	appt.UpdatedAt = utils.NowUTC()
	if err := a.ApptRepo.Save(appt); err != nil {
		log.Errorf("failed to persist image reference on appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// loadAuthorized loads the appointment and applies the access policy against
// the freshly loaded record: absent first, then ownership/role.
func (a *DefaultAppointmentService) loadAuthorized(caller *entity.User, id int) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.ApptRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	if !auth.CanAccess(caller, appt.UserID) {
		return nil, apierror.ForbiddenError
	}
	return appt, nil
}

func (a *DefaultAppointmentService) parseMoment(date, slot string) (int64, int64, apierror.ErrorResponse) {
	millis, err := utils.FromEpoch(date)
	if err != nil {
		return 0, 0, apierror.MalformedBodyError
	}
	day := utils.StartOfDay(millis)

	offset, err := utils.SlotOffsetMillis(slot)
	if err != nil {
		return 0, 0, apierror.MalformedBodyError
	}
	return day, day + offset, nil
}

func (a *DefaultAppointmentService) lookupService(id int) (*entity.Service, apierror.ErrorResponse) {
	svc, err := a.ServiceRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if svc == nil {
		return nil, apierror.UnknownServiceError
	}
	return svc, nil
}

func (a *DefaultAppointmentService) sendConfirmation(caller *entity.User, svc *entity.Service, appt *entity.Appointment) {
	if a.Mailer == nil {
		return
	}

	day := time.UnixMilli(appt.Date).UTC().Format("02/01/2006")
	body := fmt.Sprintf(`Hello %s,

Your appointment has been booked!

Service: %s
Date: %s
Time: %s

Sharpcut Barbershop`, caller.Name, svc.Name, day, appt.TimeSlot)

	if err := a.Mailer.Send(caller.Email, "Appointment Confirmation - Sharpcut Barbershop", body); err != nil {
		log.Errorf("failed to send confirmation mail for appointment %d: %v", appt.ID, err)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:        appt.ID,
		UserID:    appt.UserID,
		ServiceID: appt.ServiceID,
		Date:      utils.FormatEpoch(appt.Date),
		TimeSlot:  appt.TimeSlot,
		Status:    appt.Status,
		CreatedAt: utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt: utils.FormatEpoch(appt.UpdatedAt),
	}
	if appt.ImageURL != nil {
		resp.ImageURL = *appt.ImageURL
	}
	if appt.User.ID != 0 {
		resp.User = toPublicUser(&appt.User)
	}
	if appt.Service.ID != 0 {
		resp.Service = toPublicService(&appt.Service)
	}
	return resp
}

func toPublicUser(user *entity.User) *PublicUser {
	return &PublicUser{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}

func toPublicService(svc *entity.Service) *PublicService {
	return &PublicService{
		ID:              svc.ID,
		Name:            svc.Name,
		Description:     svc.Description,
		PriceCents:      svc.PriceCents,
		DurationMinutes: svc.DurationMinutes,
		Type:            svc.Type,
	}
}
