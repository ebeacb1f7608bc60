package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Generator signs and parses HS256 access/refresh pairs. The subject is the user id.
type Generator struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewGenerator(secret string, accessTTL, refreshTTL time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (g *Generator) RefreshTTL() time.Duration {
	return g.refreshTTL
}

func (g *Generator) GeneratePair(userID string) (accessToken string, refreshToken string, err error) {
	accessToken, err = g.sign(userID, typeAccess, g.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("jwt.GeneratePair: access: %w", err)
	}

	refreshToken, err = g.sign(userID, typeRefresh, g.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("jwt.GeneratePair: refresh: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (g *Generator) sign(userID, typ string, ttl time.Duration) (string, error) {
	now := g.now()
	c := claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	// zero ttl means the token never expires
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(g.secret)
}

// ParseAccess returns the user id of a valid access token.
func (g *Generator) ParseAccess(token string) (string, error) {
	return g.parse(token, typeAccess)
}

// ParseRefresh returns the user id of a valid refresh token.
func (g *Generator) ParseRefresh(token string) (string, error) {
	return g.parse(token, typeRefresh)
}

func (g *Generator) parse(tokenStr, typ string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}
	if c.Type != typ {
		return "", ErrWrongTokenType
	}

	return c.Subject, nil
}
