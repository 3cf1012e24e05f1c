package graph

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// Scopes requested for delegated mailbox access.
var defaultScopes = []string{"offline_access", "User.Read", "Mail.ReadWrite"}

// Authenticator holds the delegated OAuth token for the single monitored
// mailbox. One mailbox per running instance; there is no per-user token store.
type Authenticator struct {
	config *oauth2.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// NewAuthenticator builds the auth-code flow config for the Microsoft
// identity platform.
func NewAuthenticator(clientID, clientSecret, tenantID, redirectURI string) *Authenticator {
	if tenantID == "" {
		tenantID = "common"
	}
	base := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0", tenantID)
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       defaultScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/authorize",
				TokenURL: base + "/token",
			},
		},
	}
}

// AuthCodeURL returns the URL to send the operator to for consent.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange redeems the authorization code and stores the resulting token.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
	return nil
}

// Authenticated reports whether a token has been acquired.
func (a *Authenticator) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != nil
}

// TokenSource returns a refreshing source over the stored token, keeping the
// stored copy current so refresh tokens survive restarts of the source.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()
	if token == nil {
		return nil, ErrNotAuthenticated
	}

	src := a.config.TokenSource(ctx, token)
	return oauth2.ReuseTokenSource(token, &storingTokenSource{src: src, auth: a}), nil
}

type storingTokenSource struct {
	src  oauth2.TokenSource
	auth *Authenticator
}

func (s *storingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.auth.mu.Lock()
	s.auth.token = t
	s.auth.mu.Unlock()
	return t, nil
}
