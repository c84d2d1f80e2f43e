package serverutils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims grant access to the live channel of one assessment session.
type SessionClaims struct {
	SessionId uint `json:"session_id"`
	jwt.RegisteredClaims
}

type SessionTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokenIssuer(secret string, ttl time.Duration) *SessionTokenIssuer {
	return &SessionTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *SessionTokenIssuer) Issue(sessionId uint) (string, error) {
	now := i.now()
	claims := SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("session:%d", sessionId),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates the token and returns the session it was issued for.
func (i *SessionTokenIssuer) Parse(tokenStr string) (uint, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.SessionId == 0 {
		return 0, fmt.Errorf("invalid session token")
	}
	return claims.SessionId, nil
}
