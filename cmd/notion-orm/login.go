// Implements the OAuth authorization of public integrations.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/orm"
)

// oauthConfig builds the OAuth configuration from flags, falling back to
// NOTION_CLIENT_ID and NOTION_CLIENT_SECRET from the environment or .env.
func oauthConfig(env map[string]string, clientID, clientSecret, redirect string) (*oauth2.Config, error) {
	if clientID == "" {
		clientID = lookupEnv(env, "NOTION_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = lookupEnv(env, "NOTION_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("-client-id and -client-secret are required")
	}
	if redirect == "" {
		return nil, errors.New("-redirect is required")
	}
	return notion.OAuthConfig(clientID, clientSecret, redirect), nil
}

// authURL returns the page where a workspace owner grants access.
func authURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("owner", "user"))
}

func cmdLogin(ctx context.Context, env map[string]string, args []string) error {
	fs := newFlagSet("login")
	clientID := fs.String("client-id", "", "OAuth client ID (or set NOTION_CLIENT_ID)")
	clientSecret := fs.String("client-secret", "", "OAuth client secret (or set NOTION_CLIENT_SECRET)")
	redirect := fs.String("redirect", "", "Redirect URI registered with the integration (required)")
	code := fs.String("code", "", "Authorization code returned to the redirect URI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := oauthConfig(env, *clientID, *clientSecret, *redirect)
	if err != nil {
		return err
	}
	if *code == "" {
		fmt.Println("Open this URL, grant access, then run login again with -code:")
		fmt.Println(authURL(cfg, uuid.NewString()))
		return nil
	}
	tok, err := cfg.Exchange(ctx, *code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	s := orm.NewSessionFromTokenSource(ctx, cfg.TokenSource(ctx, tok))
	defer func() { _ = s.Close() }()
	me, err := s.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Authorized as %s.\n%s=%s\n", me, orm.TokenEnv, tok.AccessToken)
	return nil
}
