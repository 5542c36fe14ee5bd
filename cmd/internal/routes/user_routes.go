package routes

import (
	"net/http"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(req *service.RegisterRequest) (*service.UserResponse, apierror.ErrorResponse)
	Login(req *service.LoginRequest) (*service.LoginResponse, apierror.ErrorResponse)
	ConfirmEmail(req *service.ConfirmEmailRequest) apierror.ErrorResponse
	Profile(user *entity.User) *service.UserResponse
	UpdateDetails(caller *entity.User, req *service.UpdateDetailsRequest) (*service.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, user)
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, resp)
}

func (u *DefaultUserRoute) ConfirmEmail(c echo.Context) error {
	var req service.ConfirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := u.UserService.ConfirmEmail(&req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, nil)
}

func (u *DefaultUserRoute) Me(c echo.Context) error {
	caller, found := auth.UserFrom(c)
	if !found {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}
	return ok(c, http.StatusOK, u.UserService.Profile(caller))
}

func (u *DefaultUserRoute) UpdateDetails(c echo.Context) error {
	caller, found := auth.UserFrom(c)
	if !found {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	var req service.UpdateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.UpdateDetails(caller, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, user)
}
