// Package google implementa el login federado con Google sobre OAuth 2.0
// (authorization code) y el endpoint userinfo.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
)

const (
	Name                   = "google"
	DefaultUserInfoURL     = "https://openidconnect.googleapis.com/v1/userinfo"
	maxUserInfoBody        = 1 << 20
	defaultProviderTimeout = 10 * time.Second
)

var (
	// ErrExchange: el proveedor rechazó el code o no respondió.
	ErrExchange = errors.New("google: code exchange failed")
	// ErrNoAccessToken: la respuesta del token endpoint no trae access_token.
	ErrNoAccessToken = errors.New("google: no access token in response")
	ErrUserInfo      = errors.New("google: userinfo request failed")
)

// UserInfo son los claims que nos interesan del endpoint userinfo.
type UserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

type Provider struct {
	cfg         *oauth2.Config
	userInfoURL string
	http        *http.Client
}

type Option func(*Provider)

// WithEndpoints reemplaza los endpoints de Google (tests con httptest).
func WithEndpoints(authURL, tokenURL, userInfoURL string) Option {
	return func(p *Provider) {
		p.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams}
		p.userInfoURL = userInfoURL
	}
}

func WithHTTPClient(c *http.Client) Option { return func(p *Provider) { p.http = c } }

func New(clientID, clientSecret, redirectURL string, scopes []string, opts ...Option) *Provider {
	p := &Provider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     googleOAuth.Endpoint,
		},
		userInfoURL: DefaultUserInfoURL,
		http:        &http.Client{Timeout: defaultProviderTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Name() string { return Name }

// AuthCodeURL arma la URL de consentimiento con el state firmado.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange canjea el code server-to-server y devuelve el access token.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		// x/oauth2 también falla si la respuesta no trae access_token
		return "", fmt.Errorf("%w: %v", ErrExchange, err)
	}
	if tok.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return tok.AccessToken, nil
}

// UserInfo consulta el perfil con el access token.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxUserInfoBody))
		return nil, fmt.Errorf("%w: http %d", ErrUserInfo, resp.StatusCode)
	}
	var ui UserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoBody)).Decode(&ui); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUserInfo, err)
	}
	return &ui, nil
}
