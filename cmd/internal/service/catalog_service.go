package service

import (
	"context"

	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ServiceRepository interface {
	FindByID(id int) (*entity.Service, error)
	FindAll() ([]*entity.Service, error)
	Save(svc *entity.Service) error
	Delete(svc *entity.Service) error
}

type ServiceRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=80"`
	Description     string `json:"description" validate:"max=512"`
	PriceCents      int64  `json:"price_cents" validate:"required,min=1"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=240"`
	Type            string `json:"type" validate:"required,oneof=haircut beard combo treatment"`
}

type ServiceResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	Type            string `json:"type"`
	ImageURL        string `json:"image_url,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// DefaultCatalogService manages the public service catalog. Reads are open;
// mutations are admin-gated at the route.
type DefaultCatalogService struct {
	ServiceRepo ServiceRepository
	Validate    *validator.Validate
	Storage     ImageStorage
	ImageFolder string
}

func NewCatalogService(serviceRepo ServiceRepository, validate *validator.Validate, storage ImageStorage, imageFolder string) *DefaultCatalogService {
	return &DefaultCatalogService{ServiceRepo: serviceRepo, Validate: validate, Storage: storage, ImageFolder: imageFolder}
}

func (s *DefaultCatalogService) GetServices() ([]*ServiceResponse, apierror.ErrorResponse) {
	svcs, err := s.ServiceRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch services: %v", err)
		return nil, apierror.InternalServerError
	}

	response := make([]*ServiceResponse, len(svcs))
	for i, svc := range svcs {
		response[i] = toServiceResponse(svc)
	}
	return response, nil
}

func (s *DefaultCatalogService) GetService(id int) (*ServiceResponse, apierror.ErrorResponse) {
	svc, apierr := s.load(id)
	if apierr != nil {
		return nil, apierr
	}
	return toServiceResponse(svc), nil
}

func (s *DefaultCatalogService) CreateService(req *ServiceRequest) (*ServiceResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	svc := &entity.Service{
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.ServiceRepo.Save(svc); err != nil {
		log.Errorf("failed to save service: %v", err)
		return nil, apierror.InternalServerError
	}
	return toServiceResponse(svc), nil
}

func (s *DefaultCatalogService) UpdateService(id int, req *ServiceRequest) (*ServiceResponse, apierror.ErrorResponse) {
	svc, apierr := s.load(id)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.PriceCents = req.PriceCents
	svc.DurationMinutes = req.DurationMinutes
	svc.Type = req.Type
	svc.UpdatedAt = utils.NowUTC()

	if err := s.ServiceRepo.Save(svc); err != nil {
		log.Errorf("failed to update service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toServiceResponse(svc), nil
}

func (s *DefaultCatalogService) DeleteService(id int) apierror.ErrorResponse {
	svc, apierr := s.load(id)
	if apierr != nil {
		return apierr
	}

	if err := s.ServiceRepo.Delete(svc); err != nil {
		log.Errorf("failed to delete service %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultCatalogService) UploadImage(ctx context.Context, id int, localPath string) (*ServiceResponse, apierror.ErrorResponse) {
	svc, apierr := s.load(id)
	if apierr != nil {
		return nil, apierr
	}

	if localPath == "" {
		return nil, apierror.MissingFileError
	}

	url, err := s.Storage.Upload(ctx, localPath, s.ImageFolder)
	if err != nil {
		log.Errorf("failed to upload image for service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	svc.ImageURL = &url
	svc.UpdatedAt = utils.NowUTC()
	if err := s.ServiceRepo.Save(svc); err != nil {
		log.Errorf("failed to persist image reference on service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toServiceResponse(svc), nil
}

func (s *DefaultCatalogService) load(id int) (*entity.Service, apierror.ErrorResponse) {
	svc, err := s.ServiceRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch service by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if svc == nil {
		return nil, apierror.NotFoundError
	}
	return svc, nil
}

func toServiceResponse(svc *entity.Service) *ServiceResponse {
	resp := &ServiceResponse{
		ID:              svc.ID,
		Name:            svc.Name,
		Description:     svc.Description,
		PriceCents:      svc.PriceCents,
		DurationMinutes: svc.DurationMinutes,
		Type:            svc.Type,
		CreatedAt:       utils.FormatEpoch(svc.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(svc.UpdatedAt),
	}
	if svc.ImageURL != nil {
		resp.ImageURL = *svc.ImageURL
	}
	return resp
}
