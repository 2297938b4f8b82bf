package service

import (
	"context"
	"testing"

	"github.com/ken6921-byte/zuinsurance-app/internal/config"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) UpsertLogin(_ context.Context, username, role string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		u = &model.User{ID: uuid.New(), Username: username}
		r.users[username] = u
	}
	u.Role = role
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newAuthTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		AdminPassword:      "admin-secret",
		UserPasswordsJSON:  `["team-pass-1","team-pass-2"]`,
	}
}

func seedRegistryUser(t *testing.T, repo *stubUserRepo, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	assert.NoError(t, err)
	repo.users[username] = &model.User{
		ID: uuid.New(), Username: username, PasswordHash: string(hash), Role: role,
	}
}

func tokenRole(t *testing.T, tokenStr string) string {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	assert.NoError(t, err)
	role, _ := claims["role"].(string)
	return role
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLoginAdminPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, newAuthTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "alice", Password: "admin-secret",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleAdmin, tokenRole(t, resp.AccessToken))
}

func TestLoginAdminPasswordPromotesExistingUser(t *testing.T) {
	repo := newStubUserRepo()
	seedRegistryUser(t, repo, "bob", "bob-pass", model.RoleUser)
	svc := NewAuthService(repo, newAuthTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "bob", Password: "admin-secret",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, model.RoleAdmin, repo.users["bob"].Role)
}

func TestLoginRegistryUser(t *testing.T) {
	repo := newStubUserRepo()
	seedRegistryUser(t, repo, "carol", "carol-pass", model.RoleUser)
	svc := NewAuthService(repo, newAuthTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "carol", Password: "carol-pass",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, resp.User.Role)
}

// A registry user with a wrong password fails outright: the shared list is
// not consulted as a fallback for accounts that have their own credential.
func TestLoginRegistryUserWrongPasswordFailsHard(t *testing.T) {
	repo := newStubUserRepo()
	seedRegistryUser(t, repo, "dave", "dave-pass", model.RoleUser)
	svc := NewAuthService(repo, newAuthTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "dave", Password: "team-pass-1",
	})
	assert.Error(t, err)
}

func TestLoginSharedPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, newAuthTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "newcomer", Password: "team-pass-2",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.Contains(t, repo.users, "newcomer")
}

// The failure message never reveals whether the username exists.
func TestLoginFailureMessageIsGeneric(t *testing.T) {
	repo := newStubUserRepo()
	seedRegistryUser(t, repo, "erin", "erin-pass", model.RoleUser)
	svc := NewAuthService(repo, newAuthTestCfg())

	_, errUnknown := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ghost", Password: "wrong",
	})
	_, errKnown := svc.Login(context.Background(), dto.LoginRequest{
		Username: "erin", Password: "wrong",
	})
	assert.Error(t, errUnknown)
	assert.Error(t, errKnown)
	assert.Equal(t, errUnknown.Error(), errKnown.Error())
}

func TestLoginTrimsUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, newAuthTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "  frank  ", Password: "admin-secret",
	})
	assert.NoError(t, err)
	assert.Equal(t, "frank", resp.User.Username)
}

func TestLoginEmptyUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, newAuthTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "   ", Password: "admin-secret",
	})
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	repo := newStubUserRepo()
	seedRegistryUser(t, repo, "alice", "x", model.RoleAdmin)
	seedRegistryUser(t, repo, "bob", "y", model.RoleUser)
	svc := NewAuthService(repo, newAuthTestCfg())

	users, err := svc.ListUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
