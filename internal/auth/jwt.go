package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Parser validates HS256 access tokens whose subject is a profile id.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Enabled reports whether a signing secret was configured.
func (p *Parser) Enabled() bool {
	return p != nil && len(p.secret) > 0
}

func (p *Parser) Parse(tokenStr string) (int64, error) {
	if !p.Enabled() {
		return 0, fmt.Errorf("%w: bearer auth is disabled", ErrInvalidToken)
	}
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return 0, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	profileID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || profileID <= 0 {
		return 0, fmt.Errorf("%w: subject is not a profile id", ErrInvalidToken)
	}
	return profileID, nil
}

// Issue signs a token for profileID. A non-positive ttl yields a token
// without expiry.
func (p *Parser) Issue(profileID int64, ttl time.Duration) (string, error) {
	if !p.Enabled() {
		return "", errors.New("JWT_ACCESS_SECRET is not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(profileID, 10),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
