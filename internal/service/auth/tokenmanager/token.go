package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
)

const (
	defaultTokenTTL      = 15 * time.Minute
	defaultSigningMethod = "HS256"
)

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Token manager with sensible default
type Config struct {
	// Secret key to sign token
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm: HS256, HS384 or HS512
	// If not set than default is used
	Alg string

	// Token lifetime
	// If not set than default is used
	TTL time.Duration

	// Optional "iss" claim. Verified if set
	Issuer string
}

type TokenManager struct {
	key    []byte
	alg    jwt.SigningMethod
	ttl    time.Duration
	issuer string

	// Current time, replaced in tests
	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, apperrors.Misconfigured("token secret key")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported signing method %q", apperrors.ErrMisconfigured, cfg.Alg)
	}

	if cfg.TTL == 0 {
		cfg.TTL = defaultTokenTTL
	}

	return &TokenManager{
		key:    []byte(cfg.SecretKey),
		alg:    alg,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Sign payload. Token expires after configured TTL
func (m *TokenManager) Generate(payload models.TokenPayload) (string, error) {
	if payload.UserID == "" {
		return "", errors.New("token payload user id must not be empty")
	}

	now := m.now().Truncate(time.Second)
	token := jwt.NewWithClaims(m.alg, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   payload.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: payload.Email,
	})

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}
	return signed, nil
}

// Parse and validate token
// Returns apperrors.ErrTokenExpired or apperrors.ErrTokenInvalid on failure
func (m *TokenManager) Verify(token string) (models.TokenPayload, error) {
	c := &claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	_, err := jwt.ParseWithClaims(
		token,
		c,
		func(t *jwt.Token) (any, error) {
			return m.key, nil
		},
		opts...,
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenPayload{}, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	case err != nil:
		return models.TokenPayload{}, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	case c.Subject == "":
		return models.TokenPayload{}, fmt.Errorf("%w: subject is empty", apperrors.ErrTokenInvalid)
	}

	return models.TokenPayload{UserID: c.Subject, Email: c.Email}, nil
}
