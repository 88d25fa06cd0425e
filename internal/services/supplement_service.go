package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
)

const supplementImageBucket = "supplement-images"

// SupplementService is the supplement shop catalog.
type SupplementService interface {
	Create(ctx context.Context, name string, description *string, price float64) (*models.Supplement, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Supplement, error)
	List(ctx context.Context) ([]*models.Supplement, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64) (*models.Supplement, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) error
	StreamImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
}

type supplementService struct {
	supplements repositories.SupplementRepository
	minioSvc    MinioService
}

func NewSupplementService(supplements repositories.SupplementRepository, minioSvc MinioService) SupplementService {
	return &supplementService{supplements: supplements, minioSvc: minioSvc}
}

func (s *supplementService) Create(ctx context.Context, name string, description *string, price float64) (*models.Supplement, error) {
	supplement := &models.Supplement{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := s.supplements.Create(ctx, supplement); err != nil {
		return nil, err
	}
	return supplement, nil
}

func (s *supplementService) Get(ctx context.Context, id uuid.UUID) (*models.Supplement, error) {
	supplement, err := s.supplements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplementNotFound
		}
		return nil, err
	}
	return supplement, nil
}

func (s *supplementService) List(ctx context.Context) ([]*models.Supplement, error) {
	return s.supplements.List(ctx)
}

func (s *supplementService) Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64) (*models.Supplement, error) {
	supplement, err := s.supplements.Update(ctx, id, name, description, price)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplementNotFound
		}
		return nil, err
	}
	return supplement, nil
}

func (s *supplementService) Delete(ctx context.Context, id uuid.UUID) error {
	supplement, err := s.supplements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplementNotFound
		}
		return err
	}

	if err := s.supplements.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplementNotFound
		}
		return err
	}

	if supplement.ImageKey != nil {
		if err := s.minioSvc.DeleteImage(ctx, supplementImageBucket, *supplement.ImageKey); err != nil {
			log.Printf("WARN: failed to delete image for supplement %s: %v", id, err)
		}
	}
	return nil
}

func (s *supplementService) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) error {
	if _, err := s.supplements.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplementNotFound
		}
		return err
	}

	objectName := fmt.Sprintf("%s/%s", id.String(), uuid.NewString())
	if err := s.minioSvc.UploadImage(ctx, supplementImageBucket, objectName, reader, size, contentType); err != nil {
		return fmt.Errorf("failed to upload supplement image: %w", err)
	}
	return s.supplements.SetImageKey(ctx, id, &objectName)
}

func (s *supplementService) StreamImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	supplement, err := s.supplements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplementNotFound
		}
		return nil, err
	}
	if supplement.ImageKey == nil {
		return nil, ErrImageMissing
	}
	return s.minioSvc.DownloadImage(ctx, supplementImageBucket, *supplement.ImageKey)
}
