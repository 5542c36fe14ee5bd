package repository

import (
	"errors"
	"sharpcut/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

// FindByID returns the appointment with its owner and service expanded,
// or nil when no such appointment exists.
func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.Preload("User").Preload("Service").First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) FindAll() ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("User").Preload("Service").Order("date asc, time_slot asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByUserID(userID int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("User").Preload("Service").
		Where("user_id = ?", userID).
		Order("date asc, time_slot asc").
		Find(&appts).Error
	return appts, err
}

// IsSlotTaken reports whether a non-cancelled appointment already occupies
// the given day and time slot.
func (a *DefaultAppointmentRepository) IsSlotTaken(date int64, slot string) (bool, error) {
	var count int64
	err := a.db.Model(&entity.Appointment{}).
		Where("date = ?", date).
		Where("time_slot = ?", slot).
		Where("status <> ?", entity.StatusCancelled).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
