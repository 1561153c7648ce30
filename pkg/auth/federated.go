package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// FederatedClaims are the identity claims of a third-party ID token.
type FederatedClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// FederatedVerifier validates RS256 tokens issued by the external identity provider.
type FederatedVerifier struct {
	keys     *Provider
	issuer   string
	audience string
}

func NewFederatedVerifier(keys *Provider, issuer, audience string) *FederatedVerifier {
	return &FederatedVerifier{keys: keys, issuer: issuer, audience: audience}
}

func (v *FederatedVerifier) Verify(ctx context.Context, raw string) (*FederatedClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &FederatedClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("kid header not found")
		}
		return v.keys.GetKey(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
