package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/directory"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubDirectory struct {
	directory.DirectoryService
	users map[string]*directory.User
}

func (s *stubDirectory) GetUser(_ context.Context, username string) (*directory.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", username)
}

func newAuth(t *testing.T) (AuthService, *session.TokenManager) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	dir := &stubDirectory{users: map[string]*directory.User{
		"alice": {Username: "alice", Role: "clerk", BranchID: "north", Department: "north_Finance", PasswordHash: string(hash)},
	}}
	tokens := session.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(dir, tokens, zap.NewNop()), tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newAuth(t)

	token, sess, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, token, sess.AccessToken)

	validated, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", validated.Username)
	assert.Equal(t, "north_Finance", validated.Department)
	assert.Equal(t, "north", validated.BranchID)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newAuth(t)
	tests := []struct {
		name     string
		username string
		password string
		invalid  bool
	}{
		{"wrong password", "alice", "nope", true},
		{"unknown user", "mallory", "s3cret", true},
		{"missing password", "alice", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			} else {
				assert.Equal(t, fiber.StatusBadRequest, apperr.Status(err))
			}
		})
	}
}

func TestTokenEndpoint(t *testing.T) {
	svc, _ := newAuth(t)
	app := fiber.New()
	NewAuthApi(NewAuthController(svc)).Setup(app)

	post := func(body TokenRequest) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", "/api/v1/auth/token", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		rec.Code = resp.StatusCode
		_, _ = rec.Body.ReadFrom(resp.Body)
		return rec
	}

	rec := post(TokenRequest{Username: "alice", Password: "s3cret"})
	assert.Equal(t, fiber.StatusOK, rec.Code)
	var out TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "clerk", out.Role)

	rec = post(TokenRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, rec.Code)
}
