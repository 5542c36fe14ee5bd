package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type fakeAppointmentService struct {
	uploadPaths    []string
	uploadStaged   bool
	listResponse   []*service.AppointmentResponse
	deleteResponse apierror.ErrorResponse
}

func (f *fakeAppointmentService) GetAppointments(caller *entity.User) ([]*service.AppointmentResponse, apierror.ErrorResponse) {
	return f.listResponse, nil
}

func (f *fakeAppointmentService) GetAppointment(caller *entity.User, id int) (*service.AppointmentResponse, apierror.ErrorResponse) {
	return &service.AppointmentResponse{ID: id, UserID: caller.ID}, nil
}

func (f *fakeAppointmentService) CreateAppointment(caller *entity.User, req *service.AppointmentRequest) (*service.AppointmentResponse, apierror.ErrorResponse) {
	return &service.AppointmentResponse{ID: 1, UserID: caller.ID}, nil
}

func (f *fakeAppointmentService) UpdateAppointment(caller *entity.User, id int, req *service.AppointmentUpdateRequest) (*service.AppointmentResponse, apierror.ErrorResponse) {
	return &service.AppointmentResponse{ID: id, UserID: caller.ID}, nil
}

func (f *fakeAppointmentService) DeleteAppointment(caller *entity.User, id int) apierror.ErrorResponse {
	return f.deleteResponse
}

func (f *fakeAppointmentService) UploadImage(ctx context.Context, caller *entity.User, id int, localPath string) (*service.AppointmentResponse, apierror.ErrorResponse) {
	f.uploadPaths = append(f.uploadPaths, localPath)
	if localPath == "" {
		return nil, apierror.MissingFileError
	}
	if _, err := os.Stat(localPath); err == nil {
		f.uploadStaged = true
	}
	return &service.AppointmentResponse{ID: id, UserID: caller.ID, ImageURL: "https://cdn.example.com/x.png"}, nil
}

func newUploadContext(t *testing.T, body *bytes.Buffer, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/appointments/1/image", body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/appointments/:id/image")
	c.SetParamNames("id")
	c.SetParamValues("1")
	auth.WithUser(c, &entity.User{ID: 1, Role: entity.RoleUser})
	return c, rec
}

func TestUploadImage_NoFileIsBadRequest(t *testing.T) {
	t.Parallel()

	fake := &fakeAppointmentService{}
	route := NewAppointmentDefault(fake)

	c, rec := newUploadContext(t, &bytes.Buffer{}, "")
	if err := route.UploadImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
	if len(fake.uploadPaths) != 1 || fake.uploadPaths[0] != "" {
		t.Errorf("service received paths %v, want one empty path", fake.uploadPaths)
	}
}

func TestUploadImage_StagesAndRemovesTempFile(t *testing.T) {
	t.Parallel()

	fake := &fakeAppointmentService{}
	route := NewAppointmentDefault(fake)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "reference.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("png-bytes"))
	writer.Close()

	c, rec := newUploadContext(t, body, writer.FormDataContentType())
	if err := route.UploadImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if !fake.uploadStaged {
		t.Error("service did not observe a staged temp file")
	}
	if len(fake.uploadPaths) != 1 {
		t.Fatalf("service called %d times, want 1", len(fake.uploadPaths))
	}
	if _, err := os.Stat(fake.uploadPaths[0]); !os.IsNotExist(err) {
		t.Errorf("temp file %s was not removed after the request", fake.uploadPaths[0])
	}
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	t.Parallel()

	fake := &fakeAppointmentService{}
	route := NewAppointmentDefault(fake)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("image", "malware.exe")
	part.Write([]byte("MZ"))
	writer.Close()

	c, rec := newUploadContext(t, body, writer.FormDataContentType())
	if err := route.UploadImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
	if len(fake.uploadPaths) != 0 {
		t.Error("service was called for a rejected file type")
	}
}

func TestGetAppointments_EnvelopeWithCount(t *testing.T) {
	t.Parallel()

	fake := &fakeAppointmentService{listResponse: []*service.AppointmentResponse{
		{ID: 1, UserID: 1}, {ID: 2, UserID: 1},
	}}
	route := NewAppointmentDefault(fake)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	auth.WithUser(c, &entity.User{ID: 1, Role: entity.RoleUser})

	if err := route.GetAppointments(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Count   int             `json:"count"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if !envelope.Success {
		t.Error("success = false, want true")
	}
	if envelope.Count != 2 {
		t.Errorf("count = %d, want 2", envelope.Count)
	}
}

func TestDeleteAppointment_EmptyDataEnvelope(t *testing.T) {
	t.Parallel()

	route := NewAppointmentDefault(&fakeAppointmentService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	auth.WithUser(c, &entity.User{ID: 1, Role: entity.RoleUser})

	if err := route.DeleteAppointment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if !envelope.Success || len(envelope.Data) != 0 {
		t.Errorf("want success with empty data object, got %s", rec.Body.String())
	}
}

func TestAppointmentRoutes_BadIDParam(t *testing.T) {
	t.Parallel()

	route := NewAppointmentDefault(&fakeAppointmentService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	auth.WithUser(c, &entity.User{ID: 1, Role: entity.RoleUser})

	if err := route.GetAppointment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}
