package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/mocks"
	"github.com/thingworks/things-api/internal/service/auth"
)

func newAuthRouter(handler *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	r.Post("/api/auth/refresh", handler.RefreshToken)
	return r
}

// okVerifier accepts a single known password.
type okVerifier struct {
	password string
}

func (v okVerifier) Compare(hashedPassword, password string) error {
	if password == v.password {
		return nil
	}
	return auth.ErrInvalidCredentials
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("valid registration returns 201 with token pair", func(t *testing.T) {
		_, handler, _, userStore, _ := newTestHandlers(t)
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
			"email":    "new@example.com",
			"password": "a-long-enough-password",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.Equal(t, "test-access-token", resp.AccessToken)
		assert.Equal(t, "test-refresh-token", resp.RefreshToken)

		expiry, err := time.Parse(time.RFC3339, resp.ExpiresAt)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

		_, exists := userStore.Users["new@example.com"]
		assert.True(t, exists)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		_, handler, _, _, _ := newTestHandlers(t)
		router := newAuthRouter(handler)

		payload := map[string]string{
			"email":    "dup@example.com",
			"password": "a-long-enough-password",
		}
		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", payload)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/auth/register", payload)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password returns 422", func(t *testing.T) {
		_, handler, _, _, _ := newTestHandlers(t)
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
			"email":    "new@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid email returns 422", func(t *testing.T) {
		_, handler, _, _, _ := newTestHandlers(t)
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "a-long-enough-password",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	seedUser := func(t *testing.T, userStore *mocks.MockUserStore) *domain.User {
		t.Helper()
		user, err := domain.NewUser("known@example.com", "a-long-enough-password")
		require.NoError(t, err)
		user.HashedPassword = "stored-hash"
		require.NoError(t, userStore.Create(context.Background(), user))
		return user
	}

	t.Run("correct credentials return 200 with tokens", func(t *testing.T) {
		_, _, _, userStore, jwtService := newTestHandlers(t)
		user := seedUser(t, userStore)

		handler := NewAuthHandler(userStore, jwtService,
			okVerifier{password: "a-long-enough-password"}, time.Hour, slog.Default())
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "known@example.com",
			"password": "a-long-enough-password",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password returns 401", func(t *testing.T) {
		_, handler, _, userStore, _ := newTestHandlers(t)
		seedUser(t, userStore)
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "known@example.com",
			"password": "wrong-password-entirely",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email returns the same 401 message", func(t *testing.T) {
		_, handler, _, userStore, _ := newTestHandlers(t)
		seedUser(t, userStore)
		router := newAuthRouter(handler)

		wrongPassword := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "known@example.com",
			"password": "wrong-password-entirely",
		})
		unknownEmail := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "stranger@example.com",
			"password": "wrong-password-entirely",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

		var a, b struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(wrongPassword.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(unknownEmail.Body.Bytes(), &b))
		assert.Equal(t, a.Error, b.Error, "responses must not reveal which emails exist")
	})
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	t.Run("valid refresh token returns a new pair", func(t *testing.T) {
		_, handler, _, _, jwtService := newTestHandlers(t)
		router := newAuthRouter(handler)

		userID := uuid.New()
		jwtService.Claims = &auth.Claims{UserID: userID, TokenType: "refresh"}

		rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", map[string]string{
			"refresh_token": "some-refresh-token",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "test-access-token", resp.AccessToken)
	})

	t.Run("expired refresh token returns 401", func(t *testing.T) {
		_, handler, _, _, jwtService := newTestHandlers(t)
		router := newAuthRouter(handler)

		jwtService.ValidateErr = auth.ErrExpiredRefreshToken

		rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", map[string]string{
			"refresh_token": "stale-token",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token returns 422", func(t *testing.T) {
		_, handler, _, _, _ := newTestHandlers(t)
		router := newAuthRouter(handler)

		rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
