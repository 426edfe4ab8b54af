package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"teamtrack/internal/authz"
	"teamtrack/internal/config"
	"teamtrack/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by every bearer token.
type Claims struct {
	UserID string     `json:"user_id"`
	Role   authz.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(user *models.User) (string, error)
	Validate(tokenStr string) (*Claims, error)
	// ExtractExpiry reads the expiry without verifying the signature.
	// Used on logout, where the token already passed AccessControl.
	ExtractExpiry(tokenStr string) (time.Time, error)
}

type tokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL.Std(),
	}
}

func (s *tokenService) Issue(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Validate(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) ExtractExpiry(tokenStr string) (time.Time, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return time.Time{}, ErrInvalidToken
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time.UTC(), nil
}
