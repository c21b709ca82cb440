// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides session tokens, principal resolution, and the admin allowlist.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT signing, cookie handling)
// from the domain logic. Domain packages only ever see a [Principal].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevelopmentSecret is the placeholder secret shipped in sample env files.
// It is rejected outside development mode.
const DevelopmentSecret = "dev-secret"

// minSecretLength is the shortest accepted secret outside development mode.
const minSecretLength = 32

var (
	// ErrInvalidSession covers every way a session token can fail verification:
	// empty, malformed, wrongly signed, expired, or missing identity.
	ErrInvalidSession = errors.New("sec: invalid session token")

	// ErrWeakSecret is returned when the configured secret cannot be trusted.
	ErrWeakSecret = errors.New("sec: session secret is missing or too weak")
)

// Identity is the provider identity bound into a session token.
type Identity struct {
	ID          string
	DisplayName string
	AvatarHash  string
}

// SessionClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// Embedding the id, display name and avatar hash lets [SessionResolver]
// rebuild the principal without any storage lookup on each request.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the cookie small.
	UserID      string `json:"uid"`
	DisplayName string `json:"unm"`
	AvatarHash  string `json:"avt,omitempty"`
}

// Identity returns the identity carried by the claims.
func (claims *SessionClaims) Identity() Identity {
	return Identity{
		ID:          claims.UserID,
		DisplayName: claims.DisplayName,
		AvatarHash:  claims.AvatarHash,
	}
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a [TokenService].
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
//
// An empty secret is always rejected. Outside development the placeholder
// [DevelopmentSecret] and secrets shorter than 32 bytes are rejected too, so a
// forgotten SESSION_SECRET fails startup instead of producing forgeable cookies.
func NewTokenService(secret, issuer string, ttl time.Duration, development bool, options ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrWeakSecret
	}
	if !development && (secret == DevelopmentSecret || len(secret) < minSecretLength) {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: token ttl must be positive, got %s", ttl)
	}

	service := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service, nil
}

// TTL returns the validity window of issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a session token for the given identity.
func (service *TokenService) Issue(identity Identity) (string, error) {
	if identity.ID == "" {
		return "", fmt.Errorf("sec: cannot issue a session without an identity id")
	}

	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID:      identity.ID,
		DisplayName: identity.DisplayName,
		AvatarHash:  identity.AvatarHash,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature, issuer and expiry of a session token.
//
// Every failure is reported as [ErrInvalidSession] wrapping the parser error, so
// callers can degrade to an anonymous request with a single check.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
