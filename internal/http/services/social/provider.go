package social

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/oauth/google"
)

// Identity son los claims del proveedor que usa el bridge.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// IdentityProvider es el proveedor OAuth 2.0 (authorization code).
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	Identity(ctx context.Context, accessToken string) (*Identity, error)
}

// googleProvider adapta *google.Provider a IdentityProvider.
type googleProvider struct {
	*google.Provider
}

func NewGoogleProvider(p *google.Provider) IdentityProvider {
	return googleProvider{p}
}

func (g googleProvider) Identity(ctx context.Context, accessToken string) (*Identity, error) {
	ui, err := g.UserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	name := ui.Name
	if name == "" {
		name = ui.GivenName
	}
	return &Identity{Subject: ui.Subject, Email: ui.Email, Name: name}, nil
}
