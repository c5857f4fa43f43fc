package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/typeracehq/typerace/internal/model"
)

// Errors
var (
	ErrMissingToken = errors.New("no authentication token provided")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the verified identity attached to a connection. It is
// established once at the handshake and treated as immutable for the
// connection's lifetime.
type Identity struct {
	UserID model.UserID
	Name   string
	Email  string
}

// Claims is the JWT claim set issued by the identity provider
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config holds auth verification settings
type Config struct {
	// Secret is the HMAC signing secret shared with the identity provider
	Secret string
	// TokenDuration is the validity window for generated tokens
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
	}
}

// Service verifies bearer credentials into identities
type Service struct {
	secret        []byte
	tokenDuration time.Duration
}

// New creates a new auth Service
func New(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth secret is required")
	}
	duration := cfg.TokenDuration
	if duration == 0 {
		duration = DefaultConfig().TokenDuration
	}
	return &Service{
		secret:        []byte(cfg.Secret),
		tokenDuration: duration,
	}, nil
}

// Verify validates a token and returns the identity it carries
func (s *Service) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: model.UserID(claims.Subject),
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}

// GenerateToken issues a signed token for the given identity. Used by
// dev tooling and tests; production tokens come from the identity
// provider sharing the same secret.
func (s *Service) GenerateToken(identity Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  identity.Name,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(identity.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
