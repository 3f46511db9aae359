package session

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec signs the session cookie. The token names the session (jti)
// and its user (sub); the session must still exist in the store to be valid.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

func (c *TokenCodec) Encode(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.UserID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decode returns the session and user ids, or domain.ErrUnauthenticated for
// any malformed, forged or expired token.
func (c *TokenCodec) Decode(tokenString string) (sessionID, userID string, err error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", "", domain.ErrUnauthenticated
	}
	if claims.ID == "" || claims.Subject == "" {
		return "", "", domain.ErrUnauthenticated
	}
	return claims.ID, claims.Subject, nil
}
