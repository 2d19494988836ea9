package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCSRFToken = errors.New("invalid csrf token")

// CSRFSigner issues form tokens bound to a session id
type CSRFSigner struct {
	secretKey []byte
	ttl       time.Duration
}

func NewCSRFSigner(secretKey []byte, ttl time.Duration) *CSRFSigner {
	return &CSRFSigner{
		secretKey: secretKey,
		ttl:       ttl,
	}
}

// Issue signs a token for the given session
func (s *CSRFSigner) Issue(sessionID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign csrf token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and that the token belongs to sessionID
func (s *CSRFSigner) Verify(tokenString, sessionID string) error {
	if tokenString == "" {
		return ErrInvalidCSRFToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidCSRFToken, err)
	}

	if claims.Subject != sessionID {
		return fmt.Errorf("%w: session mismatch", ErrInvalidCSRFToken)
	}
	return nil
}
