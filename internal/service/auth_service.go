package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/literacy-registrar/internal/models"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
)

// Authenticator decides whether a username and secret identify an operator.
type Authenticator interface {
	Authenticate(ctx context.Context, username, secret string) (bool, error)
}

// StaticAuthenticator checks against a single configured operator account.
type StaticAuthenticator struct {
	username string
	hash     []byte
}

// NewStaticAuthenticator builds an authenticator from a bcrypt hash, or hashes password when no hash is given.
func NewStaticAuthenticator(username, passwordHash, password string, cost int) (*StaticAuthenticator, error) {
	if username == "" {
		return nil, errors.New("operator username is required")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid operator password hash: %w", err)
		}
		return &StaticAuthenticator{username: username, hash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return nil, errors.New("operator password or password hash is required")
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash operator password: %w", err)
	}
	return &StaticAuthenticator{username: username, hash: hash}, nil
}

// Authenticate always runs the bcrypt comparison so unknown usernames cost the same.
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, secret string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	err := bcrypt.CompareHashAndPassword(a.hash, []byte(secret))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, err
	}
	return userOK && err == nil, nil
}

// AuthConfig defines configuration for access tokens.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides authentication use cases.
type AuthService struct {
	authenticator Authenticator
	validator     *validator.Validate
	logger        *zap.Logger
	config        AuthConfig
	now           func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(authenticator Authenticator, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{authenticator: authenticator, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login authenticates the operator and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.As(err, appErrors.ErrValidation, "invalid login payload")
	}

	ok, err := s.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, appErrors.As(err, appErrors.ErrInternal, "failed to verify credentials")
	}
	if !ok {
		s.logger.Warn("rejected login", zap.String("username", req.Username))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, issuedAt, err := s.generateAccessToken(req.Username)
	if err != nil {
		return nil, appErrors.As(err, appErrors.ErrInternal, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Username:    req.Username,
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.As(err, appErrors.ErrUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(username string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	claims := models.JWTClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
