package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const DefaultTokenTTL = time.Hour

var (
	ErrTokenConfig  = errors.New("access token config is incomplete")
	ErrInvalidToken = errors.New("invalid access token")
)

// TokenService issues and checks HS256 bearer tokens for remote referee clients.
// The token subject names the player.
type TokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue signs a token for player.
func (s *TokenService) Issue(player string) (string, error) {
	if s == nil || s.secret == "" || s.issuer == "" {
		return "", ErrTokenConfig
	}
	if player == "" {
		return "", fmt.Errorf("player is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": player,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, expiry and issuer, and returns the player.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if s == nil || s.secret == "" || s.issuer == "" {
		return "", ErrTokenConfig
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
	}
	player, _ := claims["sub"].(string)
	if player == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return player, nil
}
