// Defines Notion API object types.

package notion

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PaginatedResponse is the common structure for paginated API responses.
type PaginatedResponse[T any] struct {
	Object     string  `json:"object"`
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
	Type       string  `json:"type,omitempty"`
}

// Parent represents the parent of a page, database or block.
type Parent struct {
	Type       string `json:"type"` // "database_id", "page_id", "workspace", "block_id"
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// DatabaseParent returns a parent reference to a database.
func DatabaseParent(id string) Parent {
	return Parent{Type: "database_id", DatabaseID: id}
}

// PageParent returns a parent reference to a page.
func PageParent(id string) Parent {
	return Parent{Type: "page_id", PageID: id}
}

// WorkspaceParent returns a parent reference to the workspace root.
func WorkspaceParent() Parent {
	return Parent{Type: "workspace", Workspace: true}
}

// ObjectReference is a bare reference to a page, database or block.
type ObjectReference struct {
	ID string `json:"id"`
}

// GetID implements Identifier.
func (r ObjectReference) GetID() string {
	return r.ID
}

// Database represents a Notion database.
type Database struct {
	Object         string                                        `json:"object"`
	ID             string                                        `json:"id"`
	CreatedTime    time.Time                                     `json:"created_time"`
	LastEditedTime time.Time                                     `json:"last_edited_time"`
	Title          RichText                                      `json:"title"`
	Description    RichText                                      `json:"description"`
	Properties     *orderedmap.OrderedMap[string, PropertyObject] `json:"properties"`
	Parent         Parent                                        `json:"parent"`
	URL            string                                        `json:"url"`
	Archived       bool                                          `json:"archived"`
	IsInline       bool                                          `json:"is_inline"`
	Icon           *Icon                                         `json:"icon,omitempty"`
	Cover          *File                                         `json:"cover,omitempty"`
}

// GetID implements Identifier.
func (d *Database) GetID() string {
	return d.ID
}

// Refresh replaces the database content with a raw server payload.
func (d *Database) Refresh(raw json.RawMessage) error {
	var n Database
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("failed to parse database: %w", err)
	}
	*d = n
	return nil
}

// Columns iterates over the database property definitions in server order.
func (d *Database) Columns() iter.Seq2[string, PropertyObject] {
	return func(yield func(string, PropertyObject) bool) {
		if d.Properties == nil {
			return
		}
		for p := d.Properties.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Page represents a Notion page (including database rows).
type Page struct {
	Object         string     `json:"object"`
	ID             string     `json:"id"`
	CreatedTime    time.Time  `json:"created_time"`
	LastEditedTime time.Time  `json:"last_edited_time"`
	CreatedBy      *User      `json:"created_by,omitempty"`
	LastEditedBy   *User      `json:"last_edited_by,omitempty"`
	Parent         Parent     `json:"parent"`
	Archived       bool       `json:"archived"`
	Properties     Properties `json:"properties"`
	URL            string     `json:"url"`
	PublicURL      *string    `json:"public_url,omitempty"`
	Icon           *Icon      `json:"icon,omitempty"`
	Cover          *File      `json:"cover,omitempty"`
}

// GetID implements Identifier.
func (p *Page) GetID() string {
	return p.ID
}

// Refresh replaces the page content with a raw server payload.
func (p *Page) Refresh(raw json.RawMessage) error {
	var n Page
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	*p = n
	return nil
}

// Title returns the value of the page's title property.
func (p *Page) Title() RichText {
	for _, v := range p.Properties.All() {
		if t, ok := v.(*Title); ok {
			return t.Title
		}
	}
	return nil
}

// Icon represents a page or database icon.
type Icon struct {
	Type     string        `json:"type"` // "emoji", "external", "file"
	Emoji    string        `json:"emoji,omitempty"`
	External *FileLocation `json:"external,omitempty"`
	File     *FileLocation `json:"file,omitempty"`
}

// EmojiIcon returns an emoji icon.
func EmojiIcon(emoji string) *Icon {
	return &Icon{Type: "emoji", Emoji: emoji}
}

// FileLocation represents a hosted or external file location.
type FileLocation struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

// File represents a named file reference, as found in files properties and covers.
type File struct {
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type"` // "file" or "external"
	File     *FileLocation `json:"file,omitempty"`
	External *FileLocation `json:"external,omitempty"`
}

// ExternalFile returns a reference to a file hosted outside Notion.
func ExternalFile(url, name string) File {
	if name == "" {
		name = url
	}
	return File{Name: name, Type: "external", External: &FileLocation{URL: url}}
}

// URL returns the location of the file.
func (f File) URL() string {
	switch {
	case f.File != nil:
		return f.File.URL
	case f.External != nil:
		return f.External.URL
	}
	return ""
}

// Equal reports whether both references point to the same named file.
func (f File) Equal(o File) bool {
	return f.Name == o.Name && f.URL() == o.URL()
}

func (f File) String() string {
	if f.Name != "" {
		return f.Name
	}
	return f.URL()
}

// User represents a Notion user, either a person or a bot.
type User struct {
	Object    string         `json:"object"`
	ID        string         `json:"id"`
	Type      string         `json:"type,omitempty"` // "person" or "bot"
	Name      string         `json:"name,omitempty"`
	AvatarURL *string        `json:"avatar_url,omitempty"`
	Person    *PersonDetails `json:"person,omitempty"`
	Bot       *BotDetails    `json:"bot,omitempty"`
}

// PersonDetails contains person-specific details.
type PersonDetails struct {
	Email string `json:"email"`
}

// BotDetails contains bot-specific details.
type BotDetails struct {
	Owner         *BotOwner `json:"owner,omitempty"`
	WorkspaceName string    `json:"workspace_name,omitempty"`
}

// BotOwner identifies who owns a bot.
type BotOwner struct {
	Type      string `json:"type"`
	Workspace bool   `json:"workspace,omitempty"`
	User      *User  `json:"user,omitempty"`
}

// UserRef returns a reference to a user suitable for request bodies.
func UserRef(id string) User {
	return User{Object: "user", ID: id}
}

// GetID implements Identifier.
func (u User) GetID() string {
	return u.ID
}

// IsPerson reports whether the user is a human.
func (u User) IsPerson() bool {
	return u.Type == "person" || u.Person != nil
}

// IsBot reports whether the user is an integration.
func (u User) IsBot() bool {
	return u.Type == "bot" || u.Bot != nil
}

// Email returns the user's e-mail; bots have none.
func (u User) Email() string {
	if u.Person == nil {
		return ""
	}
	return u.Person.Email
}

// Equal compares users by ID.
func (u User) Equal(o User) bool {
	return u.ID == o.ID
}

func (u User) String() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// UniqueIDValue represents a unique_id property value.
type UniqueIDValue struct {
	Prefix *string `json:"prefix,omitempty"`
	Number int     `json:"number"`
}
