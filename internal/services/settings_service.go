package services

import (
	"context"
	"errors"

	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
)

// SettingsService manages the two admin-configured lookup tables: payment
// types and user types.
type SettingsService interface {
	ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error)
	CreatePaymentType(ctx context.Context, name string, description *string) (*models.PaymentType, error)
	UpdatePaymentType(ctx context.Context, id uuid.UUID, name, description *string) (*models.PaymentType, error)
	DeletePaymentType(ctx context.Context, id uuid.UUID) error

	ListUserTypes(ctx context.Context) ([]*models.UserType, error)
	CreateUserType(ctx context.Context, name string, canViewSubscriptions, canViewMembers, canViewPayments bool) (*models.UserType, error)
	UpdateUserType(ctx context.Context, id uuid.UUID, name *string, canViewSubscriptions, canViewMembers, canViewPayments *bool) (*models.UserType, error)
	DeleteUserType(ctx context.Context, id uuid.UUID) error
}

type settingsService struct {
	paymentTypes repositories.PaymentTypeRepository
	userTypes    repositories.UserTypeRepository
}

func NewSettingsService(paymentTypes repositories.PaymentTypeRepository, userTypes repositories.UserTypeRepository) SettingsService {
	return &settingsService{paymentTypes: paymentTypes, userTypes: userTypes}
}

func (s *settingsService) ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error) {
	return s.paymentTypes.List(ctx)
}

func (s *settingsService) CreatePaymentType(ctx context.Context, name string, description *string) (*models.PaymentType, error) {
	taken, err := s.paymentTypes.NameExists(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPaymentTypeNameTaken
	}

	pt := &models.PaymentType{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := s.paymentTypes.Create(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *settingsService) UpdatePaymentType(ctx context.Context, id uuid.UUID, name, description *string) (*models.PaymentType, error) {
	if name != nil {
		taken, err := s.paymentTypes.NameExists(ctx, *name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPaymentTypeNameTaken
		}
	}

	pt, err := s.paymentTypes.Update(ctx, id, name, description)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentTypeNotFound
		}
		return nil, err
	}
	return pt, nil
}

func (s *settingsService) DeletePaymentType(ctx context.Context, id uuid.UUID) error {
	err := s.paymentTypes.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPaymentTypeNotFound
	}
	return err
}

func (s *settingsService) ListUserTypes(ctx context.Context) ([]*models.UserType, error) {
	return s.userTypes.List(ctx)
}

func (s *settingsService) CreateUserType(ctx context.Context, name string, canViewSubscriptions, canViewMembers, canViewPayments bool) (*models.UserType, error) {
	taken, err := s.userTypes.NameExists(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserTypeNameTaken
	}

	t := &models.UserType{
		ID:                   uuid.New(),
		Name:                 name,
		CanViewSubscriptions: canViewSubscriptions,
		CanViewMembers:       canViewMembers,
		CanViewPayments:      canViewPayments,
	}
	if err := s.userTypes.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *settingsService) UpdateUserType(ctx context.Context, id uuid.UUID, name *string, canViewSubscriptions, canViewMembers, canViewPayments *bool) (*models.UserType, error) {
	if name != nil {
		taken, err := s.userTypes.NameExists(ctx, *name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUserTypeNameTaken
		}
	}

	t, err := s.userTypes.Update(ctx, id, name, canViewSubscriptions, canViewMembers, canViewPayments)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserTypeNotFound
		}
		return nil, err
	}
	return t, nil
}

// DeleteUserType keeps referential integrity: it fails while any user still
// has the type.
func (s *settingsService) DeleteUserType(ctx context.Context, id uuid.UUID) error {
	err := s.userTypes.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserTypeNotFound
	}
	return err
}
