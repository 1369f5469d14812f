package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/adapters/persistence/repositories"
	"campus-clubhub/internal/config"
	"campus-clubhub/internal/core/domain"
	"campus-clubhub/internal/pkg/jwt"
	"campus-clubhub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrPersonNotFound     = fmt.Errorf("person %w", domain.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	ErrEmailTaken         = fmt.Errorf("email %w", domain.ErrConflict)
	ErrInvalidToken       = fmt.Errorf("token invalid: %w", domain.ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("token revoked: %w", domain.ErrUnauthorized)
	ErrWeakPassword       = fmt.Errorf("password too short: %w", domain.ErrValidation)
)

// AuthService handles authentication business logic
type AuthService struct {
	personRepo       repositories.PersonRepository
	roleRepo         repositories.RoleRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	personRepo repositories.PersonRepository,
	roleRepo repositories.RoleRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		personRepo:       personRepo,
		roleRepo:         roleRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" validate:"required,min=8"`
	Department string `json:"department"`
	Year       *int   `json:"year"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Person       *models.PersonResponse `json:"person"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Register registers a new person. Self-registered accounts always start
// as students; elevated roles are granted by an admin afterwards.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Validate password strength
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	// 2. Check if email already registered
	if _, err := s.personRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Resolve the student role
	role, err := s.roleRepo.FindByName(ctx, string(domain.RoleStudent))
	if err != nil {
		return nil, err
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create person
	person := &models.Person{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   hashedPassword,
		Department: input.Department,
		Year:       input.Year,
		RoleID:     role.ID,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}
	person.Role = role

	// 6. Generate and store tokens
	tokens, err := s.generateTokens(person)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, person.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Person registered: %s", person.Email)

	return &AuthResponse{
		Person:       person.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a person
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find person by email
	person, err := s.personRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, person.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Generate and store tokens
	tokens, err := s.generateTokens(person)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, person.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Person logged in: %s", person.Email)

	return &AuthResponse{
		Person:       person.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates a refresh token and issues a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find stored token by hash
	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshTokenRepo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 3. Reject revoked or expired tokens
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 4. Get person
	person, err := s.personRepo.FindByID(ctx, claims.PersonID)
	if err != nil {
		return nil, ErrPersonNotFound
	}

	// 5. Revoke old refresh token (rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	// 6. Generate and store new tokens
	tokens, err := s.generateTokens(person)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, person.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Person:       person.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes every live refresh token the person holds
func (s *AuthService) Logout(ctx context.Context, personID uint) error {
	return s.refreshTokenRepo.RevokeAllForPerson(ctx, personID)
}

// Me returns the authenticated person's profile
func (s *AuthService) Me(ctx context.Context, personID uint) (*models.PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person.ToResponse(), nil
}

// generateTokens builds an access/refresh token pair for a person
func (s *AuthService) generateTokens(person *models.Person) (*TokenPair, error) {
	roleName := ""
	if person.Role != nil {
		roleName = person.Role.Name
	}

	accessToken, err := jwt.GenerateAccessToken(
		person.ID, person.Email, roleName,
		s.cfg.JWT.AccessSecret, s.cfg.JWT.AccessExpiryMinutes,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		person.ID, uuid.New().String(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshExpiryDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken persists the hash of a refresh token
func (s *AuthService) storeRefreshToken(ctx context.Context, personID uint, refreshToken string) error {
	token := &models.RefreshToken{
		PersonID:  personID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshExpiryDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
