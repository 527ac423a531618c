// Package tokens signs and verifies the two bearer-token classes. Access and
// refresh tokens use distinct secrets, so a token of one class never
// verifies against the other.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	refreshTokenType = "refresh"
)

// Payload is the identity embedded in every issued token.
type Payload struct {
	UserID   uint
	Email    string
	Username string
}

type Claims struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	TokenType string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Service struct {
	cfg Config
}

func New(cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &Service{cfg: cfg}
}

// newClaims stamps a fresh jti so two tokens minted within the same second
// still serialize differently.
func newClaims(p Payload, ttl time.Duration, typ string) Claims {
	now := time.Now()
	return Claims{
		UserID:    p.UserID,
		Email:     p.Email,
		Username:  p.Username,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
}

func sign(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) SignAccessToken(p Payload) (string, error) {
	return sign(newClaims(p, s.cfg.AccessTTL, ""), s.cfg.AccessSecret)
}

// SignRefreshToken returns the serialized token together with its expiry so
// the caller can persist the matching store record.
func (s *Service) SignRefreshToken(p Payload) (string, time.Time, error) {
	claims := newClaims(p, s.cfg.RefreshTTL, refreshTokenType)
	token, err := sign(claims, s.cfg.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

func (s *Service) VerifyAccessToken(tokenStr string) (*Claims, error) {
	return parse(tokenStr, s.cfg.AccessSecret)
}

func (s *Service) VerifyRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, s.cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != refreshTokenType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
