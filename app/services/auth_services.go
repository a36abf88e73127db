package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
)

// ErrInvalidCredentials is returned for an unknown email, a wrong password
// or a disabled account. The three are not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users  *repositories.AdminUserRepository
	tokens *auth.Manager
}

func NewAuthService(d Deps, tokens *auth.Manager) *AuthService {
	return &AuthService{users: repositories.NewAdminUserRepository(d.DB), tokens: tokens}
}

// Token is the login response.
type Token struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        *models.AdminUser `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, in *requests.Login) (*Token, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}

	signed, exp, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, apperr.Dependency("admin user", user.ID.String(), "issue-token", err)
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: exp, User: user}, nil
}

// CreateUser registers an active admin account.
func (s *AuthService) CreateUser(ctx context.Context, in *requests.CreateAdminUser, actor string) (*models.AdminUser, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Dependency("admin user", "", "hash-password", err)
	}
	user := &models.AdminUser{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		IsActive: true,
	}
	user.Stamp(actor)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// User returns the account behind a token subject.
func (s *AuthService) User(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return s.users.FindByID(ctx, id)
}
