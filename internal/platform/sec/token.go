// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

// Package sec provides cryptographic token management for reader sessions.
//
// # Architecture
//
// This package isolates security-sensitive code (HMAC signing) from the
// domain logic. User authentication itself lives outside this service; the
// tokens minted here only gate direct page-artifact URLs so feeds can hand
// out links that expire instead of permanent hotlinks.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload embedded inside a reader session token.
//
// # Why custom claims?
//
// By embedding the session and issue identifiers directly inside the token,
// page handlers can authorize a request WITHOUT a database round trip on
// every single page fetch, which is the hottest path in the system.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token small.
	SessionID string `json:"sid"`
	IssueID   string `json:"iid"`
}

// TokenService signs and verifies reader session tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from a shared secret.
func NewTokenService(secret string, issuer string) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: session secret must be at least 32 bytes, got %d", len(secret))
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Sign creates a session token bound to one issue.
func (service *TokenService) Sign(sessionID, issueID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		SessionID: sessionID,
		IssueID:   issueID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid session token: %w", err)
	}

	return claims, nil
}
