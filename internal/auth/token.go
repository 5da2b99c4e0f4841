package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const secretSettingKey = "auth.jwt_secret"

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies session tokens with an HS256 secret.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (ti *tokenIssuer) issue(userID, email string) (string, time.Time, error) {
	issued := ti.now()
	expires := issued.Add(ti.ttl)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expires, nil
}

// verify returns the user id carried by a valid, unexpired token.
func (ti *tokenIssuer) verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", fmt.Errorf("parsing session token: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// loadSecret returns the configured secret, or the per-database secret,
// generating and storing one on first use.
func loadSecret(ctx context.Context, settings repository.SettingsRepo, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	stored, err := settings.Get(ctx, secretSettingKey)
	if err == nil && stored != "" {
		return hex.DecodeString(stored)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating session secret: %w", err)
	}
	if err := settings.Set(ctx, secretSettingKey, hex.EncodeToString(buf)); err != nil {
		return nil, err
	}
	return buf, nil
}
