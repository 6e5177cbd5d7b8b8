package auth

import (
	"context"
	"errors"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/directory"
	"go-docflow/internal/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	// Login checks the password against the directory and issues a session token
	Login(ctx context.Context, username, password string) (string, session.Session, error)
}

type AuthServiceImpl struct {
	Directory directory.DirectoryService
	Tokens    *session.TokenManager
	Logger    *zap.Logger
}

func NewAuthService(dir directory.DirectoryService, tokens *session.TokenManager, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		Directory: dir,
		Tokens:    tokens,
		Logger:    logger,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, session.Session, error) {
	if username == "" || password == "" {
		return "", session.Session{}, apperr.Validation("Username and password are required")
	}

	user, err := s.Directory.GetUser(ctx, username)
	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		s.Logger.Info("Login failed", zap.String("username", username), zap.String("reason", "unknown user"))
		return "", session.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", session.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.Logger.Info("Login failed", zap.String("username", username), zap.String("reason", "bad password"))
		return "", session.Session{}, ErrInvalidCredentials
	}

	sess := session.Session{
		Username:   user.Username,
		Department: user.Department,
		BranchID:   user.BranchID,
		Role:       user.Role,
	}
	token, err := s.Tokens.Generate(sess)
	if err != nil {
		return "", session.Session{}, err
	}
	sess.AccessToken = token

	s.Logger.Info("Token issued", zap.String("username", user.Username))
	return token, sess, nil
}
