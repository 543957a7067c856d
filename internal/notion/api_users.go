package notion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
)

// UsersEndpoint implements the /users endpoints.
type UsersEndpoint struct {
	t Transport
}

// List iterates over the workspace members and bots.
func (e *UsersEndpoint) List(ctx context.Context) iter.Seq2[*User, error] {
	slog.InfoContext(ctx, "list users")
	return Paginate(ctx, 0, func(ctx context.Context, cursor string) (*PaginatedResponse[*User], error) {
		var resp PaginatedResponse[*User]
		if err := call(ctx, e.t, "GET", "/users", cursorQuery(cursor, MaxPageSize), nil, &resp); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return &resp, nil
	})
}

// Retrieve fetches a user.
func (e *UsersEndpoint) Retrieve(ctx context.Context, ref any) (*User, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "retrieve user", "id", id)
	u := &User{}
	if err := call(ctx, e.t, "GET", "/users/"+id, nil, nil, u); err != nil {
		return nil, fmt.Errorf("failed to retrieve user %s: %w", id, err)
	}
	return u, nil
}

// Me returns the bot user of the integration.
func (e *UsersEndpoint) Me(ctx context.Context) (*User, error) {
	u := &User{}
	if err := call(ctx, e.t, "GET", "/users/me", nil, nil, u); err != nil {
		return nil, fmt.Errorf("failed to retrieve bot user: %w", err)
	}
	return u, nil
}
