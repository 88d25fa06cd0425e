package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gymstack/internal/caching"
	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
)

const (
	planImageBucket = "plan-images"
	plansCacheTTL   = 5 * time.Minute
)

// PlanService is the plan catalog: CRUD, the redis-backed list cache and the
// MinIO-backed plan images.
type PlanService interface {
	Create(ctx context.Context, adminID uuid.UUID, name string, description *string, price float64, durationDays int) (*models.Plan, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	List(ctx context.Context) ([]*models.Plan, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64, durationDays *int) (*models.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) error
	StreamImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	RemoveImage(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	plans    repositories.PlanRepository
	cacheSvc caching.CacheService
	minioSvc MinioService
}

func NewPlanService(plans repositories.PlanRepository, cacheSvc caching.CacheService, minioSvc MinioService) PlanService {
	return &planService{plans: plans, cacheSvc: cacheSvc, minioSvc: minioSvc}
}

func (s *planService) Create(ctx context.Context, adminID uuid.UUID, name string, description *string, price float64, durationDays int) (*models.Plan, error) {
	taken, err := s.plans.NameExists(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPlanNameTaken
	}

	plan := &models.Plan{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		Price:        price,
		DurationDays: durationDays,
		AdminID:      &adminID,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return plan, nil
}

func (s *planService) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	if cached, err := s.cacheSvc.GetPlan(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if err := s.cacheSvc.SetPlan(ctx, plan, plansCacheTTL); err != nil {
		log.Printf("WARN: failed to cache plan %s: %v", id, err)
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context) ([]*models.Plan, error) {
	if cached, err := s.cacheSvc.GetPlans(ctx); err == nil && cached != nil {
		return cached, nil
	}

	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetPlans(ctx, plans, plansCacheTTL); err != nil {
		log.Printf("WARN: failed to cache plan list: %v", err)
	}
	return plans, nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64, durationDays *int) (*models.Plan, error) {
	if name != nil {
		taken, err := s.plans.NameExists(ctx, *name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPlanNameTaken
		}
	}

	plan, err := s.plans.Update(ctx, id, name, description, price, durationDays)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	s.invalidateCache(ctx)
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, id uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if err := s.plans.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if plan.ImageKey != nil {
		if err := s.minioSvc.DeleteImage(ctx, planImageBucket, *plan.ImageKey); err != nil {
			log.Printf("WARN: failed to delete image for plan %s: %v", id, err)
		}
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *planService) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) error {
	if _, err := s.plans.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	objectName := fmt.Sprintf("%s/%s", id.String(), uuid.NewString())
	if err := s.minioSvc.UploadImage(ctx, planImageBucket, objectName, reader, size, contentType); err != nil {
		return fmt.Errorf("failed to upload plan image: %w", err)
	}
	if err := s.plans.SetImageKey(ctx, id, &objectName); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *planService) StreamImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.ImageKey == nil {
		return nil, ErrImageMissing
	}
	return s.minioSvc.DownloadImage(ctx, planImageBucket, *plan.ImageKey)
}

func (s *planService) RemoveImage(ctx context.Context, id uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.ImageKey == nil {
		return nil
	}

	if err := s.minioSvc.DeleteImage(ctx, planImageBucket, *plan.ImageKey); err != nil {
		log.Printf("WARN: failed to delete image object for plan %s: %v", id, err)
	}
	if err := s.plans.SetImageKey(ctx, id, nil); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *planService) invalidateCache(ctx context.Context) {
	if err := s.cacheSvc.InvalidatePlans(ctx); err != nil {
		log.Printf("WARN: failed to invalidate plan cache: %v", err)
	}
}
