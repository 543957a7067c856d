// Caches databases and users retrieved by a session.

package orm

import (
	"sync"

	"github.com/maruel/notionorm/internal/notion"
)

// cache holds the databases and users a session retrieved, so a database
// keeps its assigned schema across lookups.
//
// Databases are never evicted: a session holds the databases it uses and
// dropping one would lose its assigned schema. Users are capped.
type cache struct {
	mu sync.RWMutex

	dbs   map[string]*Database
	users map[string]*notion.User

	maxUsers int
}

func newCache() *cache {
	return &cache{
		dbs:      make(map[string]*Database),
		users:    make(map[string]*notion.User),
		maxUsers: 100,
	}
}

func (c *cache) getDB(id string) (*Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.dbs[id]
	return db, ok
}

func (c *cache) setDB(db *Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbs[db.ID()] = db
}

func (c *cache) invalidateDB(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dbs, id)
}

func (c *cache) getUser(id string) (*notion.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	return u, ok
}

func (c *cache) setUser(u *notion.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple size limiting: clear if it grows too large
	if len(c.users) >= c.maxUsers {
		c.users = make(map[string]*notion.User)
	}
	c.users[u.ID] = u
}

func (c *cache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbs = make(map[string]*Database)
	c.users = make(map[string]*notion.User)
}
