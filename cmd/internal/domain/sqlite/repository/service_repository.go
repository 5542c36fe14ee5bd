package repository

import (
	"errors"
	"sharpcut/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *DefaultServiceRepository {
	return &DefaultServiceRepository{db: db}
}

func (s *DefaultServiceRepository) FindByID(id int) (*entity.Service, error) {
	var svc entity.Service
	err := s.db.First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &svc, err
}

func (s *DefaultServiceRepository) FindAll() ([]*entity.Service, error) {
	var svcs []*entity.Service
	err := s.db.Order("name asc").Find(&svcs).Error
	return svcs, err
}

func (s *DefaultServiceRepository) Save(svc *entity.Service) error {
	return s.db.Save(svc).Error
}

func (s *DefaultServiceRepository) Delete(svc *entity.Service) error {
	return s.db.Delete(svc).Error
}
