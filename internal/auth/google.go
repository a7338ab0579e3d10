package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/olivernygren/sponge-boss/internal/config"
)

// AllowedEmailDomains is the sign-in allow-list. An email whose domain is not
// listed here is redirected to the unauthorized page instead of getting a
// session. Checked once at sign-in; issued sessions are not re-validated.
var AllowedEmailDomains = []string{
	"spongeboss.se",
}

// Identity is what the provider yields after a successful code exchange.
type Identity struct {
	Email   string
	Name    string
	Picture *string
}

// IdentityProvider abstracts the OAuth provider for the sign-in flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider implements IdentityProvider against Google's OIDC endpoints.
type GoogleProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider discovers the issuer and prepares the OAuth client.
func NewGoogleProvider(ctx context.Context, cfg config.GoogleConfig, redirectURL string) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google client id and secret are required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL returns the provider consent URL for the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens and verifies the ID token.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token in token response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id token verification: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("provider returned no email")
	}

	identity := &Identity{Email: claims.Email, Name: claims.Name}
	if claims.Picture != "" {
		identity.Picture = &claims.Picture
	}
	return identity, nil
}

// EmailDomainAllowed reports whether the email ends with one of the allowed
// domains.
func EmailDomainAllowed(email string, allowed []string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, domain := range allowed {
		if strings.HasSuffix(email, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}
