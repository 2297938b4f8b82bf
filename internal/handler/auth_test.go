package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/middleware"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// ── Auth Service Stub ─────────────────────────────────────────────────────────

type stubAuthService struct{}

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Password != "good-pass" {
		return nil, errors.New("帳號或密碼不正確，請確認後再試")
	}
	return &dto.LoginResponse{
		AccessToken: "token",
		TokenType:   "bearer",
		ExpiresIn:   8 * 3600,
		User:        dto.UserResponse{Username: req.Username, Role: model.RoleUser},
	}, nil
}

func (s *stubAuthService) ListUsers(context.Context) ([]dto.UserResponse, error) {
	return []dto.UserResponse{}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authH := NewAuthHandler(&stubAuthService{})
	r.POST("/v1/auth/login", authH.Login)

	v1 := r.Group("/v1", middleware.JWTAuth(testSecret))
	v1.GET("/ping", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func signTestToken(t *testing.T, username, role string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "00000000-0000-0000-0000-000000000001",
		"username": username, "role": role,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return s
}

func doRequest(r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLoginEndpoint(t *testing.T) {
	r := newTestEngine()

	body, _ := json.Marshal(dto.LoginRequest{Username: "agent1", Password: "good-pass"})
	w := doRequest(r, http.MethodPost, "/v1/auth/login", "", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "agent1", resp.User.Username)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	r := newTestEngine()

	body, _ := json.Marshal(dto.LoginRequest{Username: "agent1", Password: "wrong"})
	w := doRequest(r, http.MethodPost, "/v1/auth/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEndpointValidation(t *testing.T) {
	r := newTestEngine()

	body, _ := json.Marshal(map[string]string{"username": "agent1"})
	w := doRequest(r, http.MethodPost, "/v1/auth/login", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r := newTestEngine()

	w := doRequest(r, http.MethodGet, "/v1/ping", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsExpiredToken(t *testing.T) {
	r := newTestEngine()

	token := signTestToken(t, "agent1", model.RoleUser, -time.Hour)
	w := doRequest(r, http.MethodGet, "/v1/ping", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutePassesClaims(t *testing.T) {
	r := newTestEngine()

	token := signTestToken(t, "agent1", model.RoleUser, time.Hour)
	w := doRequest(r, http.MethodGet, "/v1/ping", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agent1")
}

func TestAdminRouteForbiddenForUserRole(t *testing.T) {
	r := newTestEngine()

	userToken := signTestToken(t, "agent1", model.RoleUser, time.Hour)
	w := doRequest(r, http.MethodGet, "/v1/admin/ping", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := signTestToken(t, "boss", model.RoleAdmin, time.Hour)
	w = doRequest(r, http.MethodGet, "/v1/admin/ping", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
