package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"gymstack/internal/caching"
	"gymstack/internal/models"
	"gymstack/internal/repositories"
	"gymstack/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL    = 30 * time.Minute
	loginRateLimit   = 10
	loginRateWindow  = 15 * time.Minute
	resetTokenKeyFmt = "gymstack:pwdreset:%s"
	loginRateKeyFmt  = "login:%s:%s"
)

// AuthService owns credentials: login, registration and password reset.
type AuthService interface {
	Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.UserType, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type RegisterInput struct {
	Name     string
	Gender   string
	Email    string
	Username string
	Phone    *string
	Password string
	// RoleName defaults to "member"; handlers pass "admin" only for
	// requests made by an authenticated admin.
	RoleName string
}

type LoginResult struct {
	Token       string                  `json:"token"`
	ExpiresIn   int                     `json:"expires_in"`
	User        *models.User            `json:"user"`
	Role        string                  `json:"role"`
	Permissions models.PermissionBundle `json:"permissions"`
}

type authService struct {
	users           repositories.UserRepository
	userTypes       repositories.UserTypeRepository
	tokenMaker      *token.Maker
	cacheSvc        caching.CacheService
	mailSvc         MailService
	frontendBaseURL string
}

func NewAuthService(users repositories.UserRepository, userTypes repositories.UserTypeRepository, tokenMaker *token.Maker, cacheSvc caching.CacheService, mailSvc MailService, frontendBaseURL string) AuthService {
	return &authService{
		users:           users,
		userTypes:       userTypes,
		tokenMaker:      tokenMaker,
		cacheSvc:        cacheSvc,
		mailSvc:         mailSvc,
		frontendBaseURL: frontendBaseURL,
	}
}

// Login verifies the password and issues a signed token carrying the role
// snapshot. Unknown email and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	limited, err := s.cacheSvc.IsRateLimited(ctx, fmt.Sprintf(loginRateKeyFmt, email, clientIP), loginRateLimit, loginRateWindow)
	if err != nil {
		// Redis being down must not lock everyone out
		log.Printf("WARN: login rate-limit check failed: %v", err)
	} else if limited {
		return nil, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	userType, err := s.userTypes.GetByID(ctx, user.UserTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user type: %w", err)
	}

	signed, err := s.tokenMaker.GenerateToken(user, userType)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:       signed,
		ExpiresIn:   s.tokenMaker.TTL(),
		User:        user,
		Role:        userType.Name,
		Permissions: userType.Permissions(),
	}, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	emailTaken, usernameTaken, err := s.users.EmailOrUsernameExists(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}

	roleName := input.RoleName
	if roleName == "" {
		roleName = models.RoleMember
	}
	userType, err := s.userTypes.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserTypeNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		UserTypeID:   userType.ID,
		Name:         input.Name,
		Gender:       input.Gender,
		Email:        input.Email,
		Username:     input.Username,
		Phone:        input.Phone,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.UserType, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	userType, err := s.userTypes.GetByID(ctx, user.UserTypeID)
	if err != nil {
		return nil, nil, err
	}
	return user, userType, nil
}

// RequestPasswordReset emails a single-use reset link. It reports success
// whether or not the email is registered.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken := generateSecureToken()
	cacheKey := fmt.Sprintf(resetTokenKeyFmt, hashToken(resetToken))
	if err := s.cacheSvc.SetString(ctx, cacheKey, user.ID.String(), resetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, resetToken)
	if err := s.mailSvc.SendPasswordReset(user.Email, resetLink); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	cacheKey := fmt.Sprintf(resetTokenKeyFmt, hashToken(resetToken))
	userIDStr, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil {
		return err
	}
	if userIDStr == "" {
		return ErrInvalidResetToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	// Token is single-use
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		log.Printf("WARN: failed to delete used reset token: %v", err)
	}
	return nil
}

// generateSecureToken returns a cryptographically random URL-safe token.
func generateSecureToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken is the irreversible form a token is stored under.
func hashToken(t string) string {
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:])
}
