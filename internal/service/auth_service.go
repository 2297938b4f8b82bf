package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/config"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

// Login resolves the credential in fixed precedence order:
//  1. admin secret → admin role (even for an existing registry user),
//  2. a registry user's bcrypt hash → that user's stored role,
//  3. the shared password list → user role.
//
// The failure message never distinguishes unknown user from wrong password.
// A successful login upserts the user row, so the role follows whichever
// credential was presented.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, errors.New("請輸入使用者名稱")
	}

	role, ok := s.resolveRole(ctx, username, req.Password)
	if !ok {
		return nil, errors.New("帳號或密碼不正確，請確認後再試")
	}

	user, err := s.repo.UpsertLogin(ctx, username, role)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User: dto.UserResponse{
			ID:        user.ID.String(),
			Username:  user.Username,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *authService) resolveRole(ctx context.Context, username, password string) (string, bool) {
	if s.cfg.AdminPassword != "" &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1 {
		return model.RoleAdmin, true
	}

	// Registry users (per-user bcrypt credentials) beat the shared list so a
	// team can migrate off shared passwords without a flag day.
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil && existing.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil {
			return existing.Role, true
		}
		return "", false
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}

	for _, pw := range s.cfg.UserPasswords() {
		if subtle.ConstantTimeCompare([]byte(password), []byte(pw)) == 1 {
			return model.RoleUser, true
		}
	}
	return "", false
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = dto.UserResponse{
			ID: u.ID.String(), Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt,
		}
	}
	return resp, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
