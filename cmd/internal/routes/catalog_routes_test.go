package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type fakeCatalogService struct {
	creates int
}

func (f *fakeCatalogService) GetServices() ([]*service.ServiceResponse, apierror.ErrorResponse) {
	return []*service.ServiceResponse{}, nil
}

func (f *fakeCatalogService) GetService(id int) (*service.ServiceResponse, apierror.ErrorResponse) {
	return &service.ServiceResponse{ID: id}, nil
}

func (f *fakeCatalogService) CreateService(req *service.ServiceRequest) (*service.ServiceResponse, apierror.ErrorResponse) {
	f.creates++
	return &service.ServiceResponse{ID: 1, Name: req.Name}, nil
}

func (f *fakeCatalogService) UpdateService(id int, req *service.ServiceRequest) (*service.ServiceResponse, apierror.ErrorResponse) {
	return &service.ServiceResponse{ID: id}, nil
}

func (f *fakeCatalogService) DeleteService(id int) apierror.ErrorResponse {
	return nil
}

func (f *fakeCatalogService) UploadImage(ctx context.Context, id int, localPath string) (*service.ServiceResponse, apierror.ErrorResponse) {
	return &service.ServiceResponse{ID: id}, nil
}

func newCreateServiceContext(user *entity.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	body := `{"name":"Fade","price_cents":4000,"duration_minutes":45,"type":"haircut"}`
	req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		auth.WithUser(c, user)
	}
	return c, rec
}

func TestCreateService_AdminGate(t *testing.T) {
	t.Parallel()

	fake := &fakeCatalogService{}
	route := NewCatalogDefault(fake)

	c, rec := newCreateServiceContext(&entity.User{ID: 2, Role: entity.RoleUser})
	if err := route.CreateService(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin got status %d, want 403", rec.Code)
	}
	if fake.creates != 0 {
		t.Error("service was called for a non-admin caller")
	}

	c, rec = newCreateServiceContext(&entity.User{ID: 1, Role: entity.RoleAdmin})
	if err := route.CreateService(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("admin got status %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if fake.creates != 1 {
		t.Errorf("service called %d times for admin, want 1", fake.creates)
	}
}

func TestCreateService_NoUserInContext(t *testing.T) {
	t.Parallel()

	route := NewCatalogDefault(&fakeCatalogService{})

	c, rec := newCreateServiceContext(nil)
	if err := route.CreateService(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}
