package routes

import (
	"net/http"
	"strconv"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	GetReviews(serviceID int) ([]*service.ReviewResponse, apierror.ErrorResponse)
	CreateReview(caller *entity.User, req *service.ReviewRequest) (*service.ReviewResponse, apierror.ErrorResponse)
	UpdateReview(caller *entity.User, id int, req *service.ReviewUpdateRequest) (*service.ReviewResponse, apierror.ErrorResponse)
	DeleteReview(caller *entity.User, id int) apierror.ErrorResponse
}

type DefaultReviewRoute struct {
	ReviewService ReviewService
}

func NewReviewDefault(reviewService ReviewService) *DefaultReviewRoute {
	return &DefaultReviewRoute{ReviewService: reviewService}
}

func (r *DefaultReviewRoute) GetReviews(c echo.Context) error {
	serviceID := 0
	if raw := c.QueryParam("service"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierr := apierror.NewInvalidParamTypeError("service", "number")
			return c.JSON(apierr.Code(), apierr)
		}
		serviceID = parsed
	}

	reviews, apierr := r.ReviewService.GetReviews(serviceID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return okCount(c, http.StatusOK, reviews, len(reviews))
}

// CreateReview requires a confirmed email on top of authentication.
func (r *DefaultReviewRoute) CreateReview(c echo.Context) error {
	caller, found := auth.UserFrom(c)
	if !found {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}
	if !auth.RequireEmailConfirmed(caller) {
		return c.JSON(apierror.EmailNotConfirmedError.Code(), apierror.EmailNotConfirmedError)
	}

	var req service.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	review, apierr := r.ReviewService.CreateReview(caller, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, review)
}

func (r *DefaultReviewRoute) UpdateReview(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.ReviewUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	review, serr := r.ReviewService.UpdateReview(caller, id, &req)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, review)
}

func (r *DefaultReviewRoute) DeleteReview(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if serr := r.ReviewService.DeleteReview(caller, id); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, nil)
}
