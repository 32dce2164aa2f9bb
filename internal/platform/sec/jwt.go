// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

// Package sec provides the security primitives of the platform: role labels,
// the caller [Principal], and JWT verification.
//
// # Architecture
//
// Peerline does not mint tokens. Authentication and role derivation live in an
// external identity collaborator; this package only verifies its RS256
// signatures and turns the embedded claims into an explicit [Principal] that
// flows through every core operation as a parameter.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID and role labels directly inside the JWT, the
// authentication middleware can reconstruct the caller's capability set
// WITHOUT querying the membership store on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string   `json:"uid"`
	Roles  []string `json:"rls"`
}

// Principal converts the verified claims into the explicit capability set
// consumed by the core. Unknown role labels are dropped at this boundary.
func (c *AuthClaims) Principal() Principal {
	principal := Principal{UserID: c.UserID}
	for _, raw := range c.Roles {
		if role, ok := ParseRole(raw); ok {
			principal.Roles = append(principal.Roles, role)
		}
	}
	return principal
}

// TokenVerifier validates RS256 JWTs minted by the identity provider.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenVerifier creates a new TokenVerifier.
// It reads the RSA public key from the provided filesystem path.
func NewTokenVerifier(publicKeyPath, issuer string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenVerifier{
		publicKey: publicKey,
		issuer:    issuer,
	}, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.publicKey, nil
	}, jwt.WithIssuer(verifier.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
