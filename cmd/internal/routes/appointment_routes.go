package routes

import (
	"context"
	"net/http"
	"strconv"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(caller *entity.User) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(caller *entity.User, id int) (*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(caller *entity.User, req *service.AppointmentRequest) (*service.AppointmentResponse, apierror.ErrorResponse)
	UpdateAppointment(caller *entity.User, id int, req *service.AppointmentUpdateRequest) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(caller *entity.User, id int) apierror.ErrorResponse
	UploadImage(ctx context.Context, caller *entity.User, id int, localPath string) (*service.AppointmentResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	caller, found := auth.UserFrom(c)
	if !found {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appts, apierr := a.AppointmentService.GetAppointments(caller)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return okCount(c, http.StatusOK, appts, len(appts))
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	appt, apierr := a.AppointmentService.GetAppointment(caller, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	caller, found := auth.UserFrom(c)
	if !found {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(caller, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AppointmentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	appt, serr := a.AppointmentService.UpdateAppointment(caller, id, &req)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if serr := a.AppointmentService.DeleteAppointment(caller, id); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, nil)
}

func (a *DefaultAppointmentRoute) UploadImage(c echo.Context) error {
	caller, id, apierr := callerAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	localPath, apierr := stageUpload(c, "image")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	defer removeStaged(localPath)

	appt, serr := a.AppointmentService.UploadImage(c.Request().Context(), caller, id, localPath)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, appt)
}

// GetTimeSlots lists the fixed bookable times. Public.
func (a *DefaultAppointmentRoute) GetTimeSlots(c echo.Context) error {
	return okCount(c, http.StatusOK, utils.TimeSlots, len(utils.TimeSlots))
}

func callerAndID(c echo.Context) (*entity.User, int, apierror.ErrorResponse) {
	caller, found := auth.UserFrom(c)
	if !found {
		return nil, 0, apierror.InvalidAuthTokenError
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, 0, apierror.NewInvalidParamTypeError("id", "number")
	}
	return caller, id, nil
}
