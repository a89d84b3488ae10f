package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pxltravel/config"
	"pxltravel/shared/constant"
	"pxltravel/shared/timezone"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")

	errMissingHeader = errors.New("authorization header is required")
	errBearerScheme  = errors.New("authorization header must start with 'Bearer '")
)

const bearer = "Bearer"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims identify the user a token was issued to; TokenID doubles as the session id.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Expiry returns the instant the token stops being valid.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}

	return c.ExpiresAt.Time
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type JWT interface {
	GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
}

// key is the secret and lifetime for one token type.
type key struct {
	secret []byte
	ttl    time.Duration
}

// Service signs access and refresh tokens with separate HS256 secrets.
type Service struct {
	issuer string
	keys   map[TokenType]key
	parser *jwt.Parser
}

func New(cfg *config.Config) JWT {
	return &Service{
		issuer: cfg.App.Name,
		keys: map[TokenType]key{
			AccessToken:  {secret: []byte(cfg.JWT.AccessSecret), ttl: time.Duration(cfg.JWT.AccessExpireMin) * time.Minute},
			RefreshToken: {secret: []byte(cfg.JWT.RefreshSecret), ttl: time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute},
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.App.Name),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *Service) key(tokenType TokenType) (key, error) {
	k, ok := s.keys[tokenType]
	if !ok {
		return key{}, fmt.Errorf("unknown token type: %s", tokenType)
	}

	return k, nil
}

// GenerateTokenPair issues an access and a refresh token from the same instant.
func (s *Service) GenerateTokenPair(_ context.Context, userID, email, role string) (*TokenPair, error) {
	now := timezone.Now()
	pair := &TokenPair{TokenType: bearer}

	for tokenType, dst := range map[TokenType]*string{AccessToken: &pair.AccessToken, RefreshToken: &pair.RefreshToken} {
		signed, err := s.sign(Claims{UserID: userID, Email: email, Role: role, Type: tokenType}, now)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s token: %w", tokenType, err)
		}

		*dst = signed
	}

	access := s.keys[AccessToken].ttl
	pair.ExpiresIn = int64(access / time.Second)
	pair.ExpiresAt = now.Add(access)

	return pair, nil
}

func (s *Service) sign(claims Claims, issuedAt time.Time) (string, error) {
	k, err := s.key(claims.Type)
	if err != nil {
		return "", err
	}

	claims.TokenID = uuid.NewString()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        claims.TokenID,
		Subject:   claims.UserID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(k.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken checks the signature with tokenType's secret, then the expiry, issuer and type claim.
func (s *Service) ValidateToken(_ context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	k, err := s.key(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	_, err = s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return k.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>" Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == constant.Empty {
		return "", errMissingHeader
	}

	token, ok := strings.CutPrefix(authHeader, bearer+" ")
	if token = strings.TrimSpace(token); !ok || token == constant.Empty {
		return "", errBearerScheme
	}

	return token, nil
}
