// Supports public integrations authenticated through OAuth.

package notion

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthEndpoint is Notion's OAuth 2.0 endpoint.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:   BaseURL + "/oauth/authorize",
	TokenURL:  BaseURL + "/oauth/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// OAuthConfig returns the OAuth configuration for a public integration.
//
// Notion grants access per workspace and does not use scopes.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     OAuthEndpoint,
	}
}

// NewClientFromTokenSource creates a client whose requests are authenticated by ts.
func NewClientFromTokenSource(ctx context.Context, ts oauth2.TokenSource) *Client {
	return newClientHTTP(oauth2.NewClient(ctx, ts))
}
