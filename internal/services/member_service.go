package services

import (
	"context"
	"errors"

	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
)

// MemberService serves the admin member directory. Only users whose type is
// "member" are visible here.
type MemberService interface {
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone *string) (*models.User, error)
}

type memberService struct {
	users repositories.UserRepository
}

func NewMemberService(users repositories.UserRepository) MemberService {
	return &memberService{users: users}
}

func (s *memberService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListMembers(ctx, limit, offset)
}

func (s *memberService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone *string) (*models.User, error) {
	// Confirm the target is a member before touching the row
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, id, name, email, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return user, nil
}
