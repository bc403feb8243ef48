package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

var errInvalidCredentials = domain.Unauthorized("email ou senha inválidos")

type Service struct {
	users ports.UserRepository
	jwt   *JWTService
	log   *zap.Logger
}

func NewService(users ports.UserRepository, jwt *JWTService, log *zap.Logger) *Service {
	return &Service{users: users, jwt: jwt, log: log}
}

var _ ports.AuthService = (*Service)(nil)

// Login checks the credentials of an active user and returns an access
// token. Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.Validation("email e senha são obrigatórios")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.Ativo {
		return "", errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("Login rejected", zap.String("user_id", user.ID))
		return "", errInvalidCredentials
	}

	token, err := s.jwt.Issue(user)
	if err != nil {
		return "", err
	}
	s.log.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, nil
}

// ValidateToken resolves a bearer token into the acting identity. The role
// comes from the stored user so demotions apply immediately.
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.Actor, error) {
	claims, err := s.jwt.Parse(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.Ativo {
		return nil, domain.Unauthorized("usuário inativo ou inexistente")
	}
	return &domain.Actor{ID: user.ID, Role: user.Role}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(ctx, token)
	if err != nil {
		return err
	}
	return s.jwt.Revoke(ctx, claims)
}

func (s *Service) HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", domain.Validation("senha deve ter pelo menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureAdmin creates the bootstrap administrator when no user holds email.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Administrador"
	}
	admin := &domain.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     domain.UserRoleAdmin,
		Ativo:    true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("Bootstrap admin created", zap.String("user_id", admin.ID))
	return nil
}
