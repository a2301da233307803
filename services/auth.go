package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/store"
	"salonpos/utils"
)

type AuthService struct {
	store store.Store
	jwt   *utils.JWT
	log   *zap.Logger
}

func NewAuthService(st store.Store, jwt *utils.JWT, log *zap.Logger) *AuthService {
	return &AuthService{store: st, jwt: jwt, log: log}
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if err := utils.VerifyPassword(u.Password, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return "", models.User{}, fmt.Errorf("sign token: %w", err)
	}
	return token, u, nil
}

// EnsureUser creates the account when no user with that email exists yet.
func (s *AuthService) EnsureUser(ctx context.Context, name, email, password string, role models.Role) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u := models.User{
		ID:        ulid.Make().String(),
		Name:      name,
		Email:     strings.ToLower(email),
		Role:      role,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveUser(ctx, u); err != nil {
		return err
	}
	s.log.Info("user created", zap.String("email", u.Email), zap.String("role", string(role)))
	return nil
}
