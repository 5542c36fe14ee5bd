package routes

import (
	"context"
	"net/http"
	"strconv"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	GetServices() ([]*service.ServiceResponse, apierror.ErrorResponse)
	GetService(id int) (*service.ServiceResponse, apierror.ErrorResponse)
	CreateService(req *service.ServiceRequest) (*service.ServiceResponse, apierror.ErrorResponse)
	UpdateService(id int, req *service.ServiceRequest) (*service.ServiceResponse, apierror.ErrorResponse)
	DeleteService(id int) apierror.ErrorResponse
	UploadImage(ctx context.Context, id int, localPath string) (*service.ServiceResponse, apierror.ErrorResponse)
}

type DefaultCatalogRoute struct {
	CatalogService CatalogService
}

func NewCatalogDefault(catalogService CatalogService) *DefaultCatalogRoute {
	return &DefaultCatalogRoute{CatalogService: catalogService}
}

func (s *DefaultCatalogRoute) GetServices(c echo.Context) error {
	svcs, apierr := s.CatalogService.GetServices()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return okCount(c, http.StatusOK, svcs, len(svcs))
}

func (s *DefaultCatalogRoute) GetService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("id", "number")
		return c.JSON(apierr.Code(), apierr)
	}

	svc, apierr := s.CatalogService.GetService(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, svc)
}

func (s *DefaultCatalogRoute) CreateService(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	svc, apierr := s.CatalogService.CreateService(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, svc)
}

func (s *DefaultCatalogRoute) UpdateService(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("id", "number")
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	svc, apierr := s.CatalogService.UpdateService(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, svc)
}

func (s *DefaultCatalogRoute) DeleteService(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("id", "number")
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := s.CatalogService.DeleteService(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, nil)
}

func (s *DefaultCatalogRoute) UploadImage(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("id", "number")
		return c.JSON(apierr.Code(), apierr)
	}

	localPath, apierr := stageUpload(c, "image")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	defer removeStaged(localPath)

	svc, serr := s.CatalogService.UploadImage(c.Request().Context(), id, localPath)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return ok(c, http.StatusOK, svc)
}

func requireAdmin(c echo.Context) apierror.ErrorResponse {
	caller, found := auth.UserFrom(c)
	if !found {
		return apierror.InvalidAuthTokenError
	}
	if !auth.RequireRole(caller, entity.RoleAdmin) {
		return apierror.ForbiddenError
	}
	return nil
}
