package service

import (
	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ReviewRepository interface {
	FindByID(id int) (*entity.Review, error)
	FindAll() ([]*entity.Review, error)
	FindByServiceID(serviceID int) ([]*entity.Review, error)
	Save(review *entity.Review) error
	Delete(review *entity.Review) error
}

type ReviewRequest struct {
	ServiceID int    `json:"service_id" validate:"required,min=1"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=512"`
}

type ReviewUpdateRequest struct {
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment" validate:"max=512"`
}

type ReviewResponse struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	ServiceID int    `json:"service_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	User    *PublicUser    `json:"user,omitempty"`
	Service *PublicService `json:"service,omitempty"`
}

type DefaultReviewService struct {
	ReviewRepo  ReviewRepository
	ServiceRepo ServiceRepository
	Validate    *validator.Validate
}

func NewReviewService(reviewRepo ReviewRepository, serviceRepo ServiceRepository, validate *validator.Validate) *DefaultReviewService {
	return &DefaultReviewService{ReviewRepo: reviewRepo, ServiceRepo: serviceRepo, Validate: validate}
}

// GetReviews lists reviews, optionally filtered to one service. Public.
func (r *DefaultReviewService) GetReviews(serviceID int) ([]*ReviewResponse, apierror.ErrorResponse) {
	var reviews []*entity.Review
	var err error
	if serviceID > 0 {
		reviews, err = r.ReviewRepo.FindByServiceID(serviceID)
	} else {
		reviews, err = r.ReviewRepo.FindAll()
	}

	if err != nil {
		log.Errorf("failed to fetch reviews: %v", err)
		return nil, apierror.InternalServerError
	}

	response := make([]*ReviewResponse, len(reviews))
	for i, review := range reviews {
		response[i] = toReviewResponse(review)
	}
	return response, nil
}

func (r *DefaultReviewService) CreateReview(caller *entity.User, req *ReviewRequest) (*ReviewResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	svc, err := r.ServiceRepo.FindByID(req.ServiceID)
	if err != nil {
		log.Errorf("failed to fetch service %d: %v", req.ServiceID, err)
		return nil, apierror.InternalServerError
	}
	if svc == nil {
		return nil, apierror.UnknownServiceError
	}

	now := utils.NowUTC()
	review := &entity.Review{
		UserID:    caller.ID,
		ServiceID: svc.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.ReviewRepo.Save(review); err != nil {
		log.Errorf("failed to save review: %v", err)
		return nil, apierror.InternalServerError
	}
	return toReviewResponse(review), nil
}

func (r *DefaultReviewService) UpdateReview(caller *entity.User, id int, req *ReviewUpdateRequest) (*ReviewResponse, apierror.ErrorResponse) {
	review, apierr := r.loadAuthorized(caller, id)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := r.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if req.Rating != 0 {
		review.Rating = req.Rating
	}
	if req.Comment != "" {
		review.Comment = req.Comment
	}
	review.UpdatedAt = utils.NowUTC()

	if err := r.ReviewRepo.Save(review); err != nil {
		log.Errorf("failed to update review %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toReviewResponse(review), nil
}

func (r *DefaultReviewService) DeleteReview(caller *entity.User, id int) apierror.ErrorResponse {
	review, apierr := r.loadAuthorized(caller, id)
	if apierr != nil {
		return apierr
	}

	if err := r.ReviewRepo.Delete(review); err != nil {
		log.Errorf("failed to delete review %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (r *DefaultReviewService) loadAuthorized(caller *entity.User, id int) (*entity.Review, apierror.ErrorResponse) {
	review, err := r.ReviewRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch review by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if review == nil {
		return nil, apierror.NotFoundError
	}
	if !auth.CanAccess(caller, review.UserID) {
		return nil, apierror.ForbiddenError
	}
	return review, nil
}

func toReviewResponse(review *entity.Review) *ReviewResponse {
	resp := &ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		ServiceID: review.ServiceID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: utils.FormatEpoch(review.CreatedAt),
		UpdatedAt: utils.FormatEpoch(review.UpdatedAt),
	}
	if review.User.ID != 0 {
		resp.User = toPublicUser(&review.User)
	}
	if review.Service.ID != 0 {
		resp.Service = toPublicService(&review.Service)
	}
	return resp
}
