// Implements the session, the entry point to databases, pages and users.

package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/schema"
)

// TokenEnv is the environment variable holding the integration token.
const TokenEnv = "NOTION_TOKEN"

var (
	// ErrNoToken is returned by FromEnv when TokenEnv is unset.
	ErrNoToken = errors.New(TokenEnv + " is not set")
	// ErrClosed is returned by a closed session.
	ErrClosed = errors.New("session is closed")
)

// Session wraps a transport and caches the databases and users it
// retrieves.
type Session struct {
	api    *notion.API
	cache  *cache
	closed atomic.Bool
}

// NewSession returns a session over t.
func NewSession(t notion.Transport) *Session {
	return &Session{api: notion.NewAPI(t), cache: newCache()}
}

// FromEnv returns a session authenticated with the token in TokenEnv.
func FromEnv() (*Session, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, ErrNoToken
	}
	return NewSession(notion.NewClient(token)), nil
}

// NewSessionFromTokenSource returns a session for a public integration
// whose requests are authenticated with the OAuth tokens of ts.
func NewSessionFromTokenSource(ctx context.Context, ts oauth2.TokenSource) *Session {
	return NewSession(notion.NewClientFromTokenSource(ctx, ts))
}

// API returns the raw endpoints.
func (s *Session) API() *notion.API {
	return s.api
}

// IsActive reports whether the session was not closed.
func (s *Session) IsActive() bool {
	return !s.closed.Load()
}

// Close drops the cache. Further calls return ErrClosed.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	s.cache.invalidateAll()
	return nil
}

func (s *Session) check() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Ping checks that the token is accepted.
func (s *Session) Ping(ctx context.Context) error {
	if _, err := s.Me(ctx); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}
	return nil
}

// GetDB returns a database. Databases are cached by the session so that
// their assigned schema is kept.
func (s *Session) GetDB(ctx context.Context, ref any) (*Database, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	id, err := notion.ObjectID(ref)
	if err != nil {
		return nil, err
	}
	if db, ok := s.cache.getDB(id); ok {
		return db, nil
	}
	obj, err := s.api.Databases.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	db := &Database{s: s, obj: obj}
	s.cache.setDB(db)
	return db, nil
}

// GetPage returns a page. A page in a database is bound to it.
func (s *Session) GetPage(ctx context.Context, ref any) (*Page, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	obj, err := s.api.Pages.Retrieve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.wrapPage(ctx, obj)
}

func (s *Session) wrapPage(ctx context.Context, obj *notion.Page) (*Page, error) {
	p := &Page{s: s, obj: obj}
	if obj.Parent.Type == "database_id" {
		db, err := s.GetDB(ctx, obj.Parent.DatabaseID)
		if err != nil {
			return nil, err
		}
		p.db = db
	}
	return p, nil
}

// SearchDB returns the databases whose title matches text.
func (s *Session) SearchDB(ctx context.Context, text string) ([]*Database, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	results, err := s.api.Search(text).Databases().All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Database, 0, len(results))
	for _, r := range results {
		if r.Database == nil {
			continue
		}
		db, ok := s.cache.getDB(r.Database.ID)
		if !ok {
			db = &Database{s: s, obj: r.Database}
			s.cache.setDB(db)
		}
		out = append(out, db)
	}
	return out, nil
}

// SearchPage returns the pages whose title matches text.
func (s *Session) SearchPage(ctx context.Context, text string) ([]*Page, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	results, err := s.api.Search(text).Pages().All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Page, 0, len(results))
	for _, r := range results {
		if r.Page == nil {
			continue
		}
		p, err := s.wrapPage(ctx, r.Page)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateDB creates a database under parent, a page reference, with the
// columns of sch. The schema is bound to the new database.
func (s *Session) CreateDB(ctx context.Context, parent any, sch *schema.Schema) (*Database, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if sch.TitleColumn() == nil {
		return nil, &schema.SchemaError{Msg: fmt.Sprintf("schema %q has no title column", sch.Title)}
	}
	obj, err := s.api.Databases.Create(ctx, parent, notion.NewRichText(sch.Title), sch.ToProperties())
	if err != nil {
		return nil, err
	}
	sch.Bind(obj)
	db := &Database{s: s, obj: obj, schema: sch}
	s.cache.setDB(db)
	slog.InfoContext(ctx, "created database", "id", obj.ID, "title", sch.Title, "columns", sch.Len())
	return db, nil
}

// Me returns the bot user of the integration.
func (s *Session) Me(ctx context.Context) (*notion.User, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.api.Users.Me(ctx)
}

// GetUser returns a user.
func (s *Session) GetUser(ctx context.Context, ref any) (*notion.User, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	id, err := notion.ObjectID(ref)
	if err != nil {
		return nil, err
	}
	if u, ok := s.cache.getUser(id); ok {
		return u, nil
	}
	u, err := s.api.Users.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.setUser(u)
	return u, nil
}

// AllUsers lists the users of the workspace.
func (s *Session) AllUsers(ctx context.Context) ([]*notion.User, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	users, err := notion.Collect(s.api.Users.List(ctx))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		s.cache.setUser(u)
	}
	return users, nil
}
