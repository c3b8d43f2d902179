// Package token issues and checks the bearer tokens that registry clients use
// to authenticate with the FRBS registry server.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the issuer claim set on every token.
const Issuer = "frbs"

// Generate creates a new signed token naming client as its subject. The token
// expires after lifetime; a lifetime of 0 or less gives a token that never
// expires.
func Generate(secret []byte, client string, lifetime time.Duration) (string, error) {
	if client == "" {
		return "", fmt.Errorf("client name cannot be empty")
	}

	claims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Subject:  client,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if lifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(lifetime))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// Validate checks the signature and claims of tok and returns the name of the
// client it was issued to.
func Validate(tok string, secret []byte) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}

	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("cannot get subject: %w", err)
	}
	if subj == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return subj, nil
}

// Get extracts the bearer token from the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}
