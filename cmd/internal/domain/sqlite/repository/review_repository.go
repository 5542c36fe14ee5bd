package repository

import (
	"errors"
	"sharpcut/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *DefaultReviewRepository {
	return &DefaultReviewRepository{db: db}
}

func (r *DefaultReviewRepository) FindByID(id int) (*entity.Review, error) {
	var review entity.Review
	err := r.db.Preload("User").Preload("Service").First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &review, err
}

func (r *DefaultReviewRepository) FindAll() ([]*entity.Review, error) {
	var reviews []*entity.Review
	err := r.db.Preload("User").Preload("Service").Order("created_at desc").Find(&reviews).Error
	return reviews, err
}

func (r *DefaultReviewRepository) FindByServiceID(serviceID int) ([]*entity.Review, error) {
	var reviews []*entity.Review
	err := r.db.Preload("User").Preload("Service").
		Where("service_id = ?", serviceID).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *DefaultReviewRepository) Save(review *entity.Review) error {
	return r.db.Save(review).Error
}

func (r *DefaultReviewRepository) Delete(review *entity.Review) error {
	return r.db.Delete(review).Error
}
