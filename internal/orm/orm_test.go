// Tests for the session, database, page and view facades.

package orm

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/notion/notiontest"
	"github.com/maruel/notionorm/internal/schema"
)

const (
	dbID   = "0b4d1e32-3b5b-4f77-9cf2-1c1e2f8c1a11"
	pageID = "5f8b6b3a-6b36-4a0b-8c31-ff5f4c4b2c11"
)

const dbJSON = `{"object":"database","id":"` + dbID + `","url":"https://www.notion.so/inventory",` +
	`"title":[{"type":"text","text":{"content":"Inventory"},"plain_text":"Inventory"}],` +
	`"description":[{"type":"text","text":{"content":"Stock"},"plain_text":"Stock"}],"is_inline":true,` +
	`"icon":{"type":"emoji","emoji":"📦"},"properties":{` +
	`"Name":{"id":"title","name":"Name","type":"title","title":{}},` +
	`"Cost":{"id":"c","name":"Cost","type":"number","number":{"format":"number"}},` +
	`"Description":{"id":"d","name":"Description","type":"rich_text","rich_text":{}},` +
	`"Total":{"id":"t","name":"Total","type":"formula","formula":{"expression":"prop(\"Cost\")"}}}}`

func pageJSON(id, name string, cost float64) string {
	return fmt.Sprintf(`{"object":"page","id":%q,"parent":{"type":"database_id","database_id":%q},"properties":{`+
		`"Name":{"id":"title","type":"title","title":[{"type":"text","text":{"content":%q},"plain_text":%q}]},`+
		`"Cost":{"id":"c","type":"number","number":%g},`+
		`"Description":{"id":"d","type":"rich_text","rich_text":[]},`+
		`"Total":{"id":"t","type":"formula","formula":{"type":"number","number":%g}}}}`, id, dbID, name, name, cost, cost)
}

func listJSON(items ...string) string {
	return `{"object":"list","results":[` + strings.Join(items, ",") + `],"has_more":false,"next_cursor":null}`
}

func newDB(t *testing.T, f *notiontest.Fake) *Database {
	t.Helper()
	f.On("GET", "/databases/"+dbID, dbJSON)
	db, err := NewSession(f).GetDB(t.Context(), dbID)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSession(t *testing.T) {
	f := notiontest.New().On("GET", "/users/me", `{"object":"user","id":"u","type":"bot","name":"ORM","bot":{}}`)
	s := NewSession(f)
	if err := s.Ping(t.Context()); err != nil {
		t.Fatal(err)
	}
	f.On("GET", "/databases/"+dbID, dbJSON)
	db, err := s.GetDB(t.Context(), "https://www.notion.so/acme/Inventory-0b4d1e323b5b4f779cf21c1e2f8c1a11")
	if err != nil {
		t.Fatal(err)
	}
	again, err := s.GetDB(t.Context(), db)
	if err != nil {
		t.Fatal(err)
	}
	if db != again || f.Calls() != 2 {
		t.Errorf("database not cached: %d calls", f.Calls())
	}
	if db.Title() != "Inventory" || db.URL() != "https://www.notion.so/inventory" {
		t.Errorf("unexpected %s at %s", db, db.URL())
	}
	if db.Description() != "Stock" || !db.IsInline() || db.Cover() != nil {
		t.Errorf("unexpected description %q, inline %v, cover %v", db.Description(), db.IsInline(), db.Cover())
	}
	if icon := db.Icon(); icon == nil || icon.Emoji != "📦" {
		t.Errorf("Icon() = %+v", icon)
	}
	if !s.IsActive() {
		t.Error("session must be active")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetDB(t.Context(), dbID); !errors.Is(err, ErrClosed) {
		t.Errorf("GetDB() after Close() = %v", err)
	}
}

func TestSessionFromTokenSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer oauth-token" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"object":"user","id":"u","type":"bot","name":"ORM","bot":{}}`))
	}))
	t.Cleanup(srv.Close)
	s := NewSessionFromTokenSource(t.Context(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "oauth-token"}))
	c, ok := s.API().Transport().(*notion.Client)
	if !ok {
		t.Fatalf("transport is %T", s.API().Transport())
	}
	c.BaseURL = srv.URL
	me, err := s.Me(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if me.Name != "ORM" {
		t.Errorf("Me() = %+v", me)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "")
	if _, err := FromEnv(); !errors.Is(err, ErrNoToken) {
		t.Errorf("FromEnv() error = %v, want ErrNoToken", err)
	}
	t.Setenv(TokenEnv, "secret")
	if _, err := FromEnv(); err != nil {
		t.Errorf("FromEnv() error = %v", err)
	}
}

func TestSchemaKeptAcrossLookups(t *testing.T) {
	f := notiontest.New()
	db := newDB(t, f)
	declared, err := schema.New("Mine",
		schema.Spec{Key: "Name", Type: schema.Title(), Attr: "label"},
		schema.Spec{Key: "Cost", Type: schema.Number("dollar")},
		schema.Spec{Key: "Description", Type: schema.Text()},
		schema.Spec{Key: "Total", Type: schema.Formula("1")},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetSchema(declared); err != nil {
		t.Fatal(err)
	}
	for i := range 150 {
		id := fmt.Sprintf("00000000-0000-0000-0000-%012d", i)
		f.On("GET", "/databases/"+id, strings.ReplaceAll(dbJSON, dbID, id))
		if _, err := db.s.GetDB(t.Context(), id); err != nil {
			t.Fatal(err)
		}
	}
	calls := f.Calls()
	again, err := db.s.GetDB(t.Context(), dbID)
	if err != nil {
		t.Fatal(err)
	}
	if again != db || f.Calls() != calls {
		t.Errorf("database evicted from the session cache after %d calls", f.Calls())
	}
	if again.Schema() != declared {
		t.Error("declared schema lost")
	}
}

func TestCreatePage(t *testing.T) {
	f := notiontest.New()
	db := newDB(t, f)
	f.On("POST", "/pages", pageJSON(pageID, "Widget", 9.99))

	p, err := db.CreatePage(t.Context(), map[string]any{"name": "Widget", "cost": 9.99})
	if err != nil {
		t.Fatal(err)
	}
	if p.Title() != "Widget" || p.Database() != db {
		t.Errorf("unexpected %s", p)
	}
	var body struct {
		Parent     notion.Parent  `json:"parent"`
		Properties map[string]any `json:"properties"`
	}
	last := f.Last()
	if err := last.Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Parent.DatabaseID != dbID {
		t.Errorf("parent = %+v", body.Parent)
	}
	want := map[string]any{
		"Name": map[string]any{"type": "title", "title": []any{map[string]any{"type": "text", "text": map[string]any{"content": "Widget"}, "plain_text": "Widget"}}},
		"Cost": map[string]any{"type": "number", "number": 9.99},
	}
	if diff := cmp.Diff(want, body.Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}

	calls := f.Calls()
	t.Run("unknown attribute", func(t *testing.T) {
		_, err := db.CreatePage(t.Context(), map[string]any{"name": "x", "weight": 1})
		var sErr *schema.SchemaError
		if !errors.As(err, &sErr) {
			t.Errorf("error = %v, want *schema.SchemaError", err)
		}
	})
	t.Run("read-only column", func(t *testing.T) {
		_, err := db.CreatePage(t.Context(), map[string]any{"name": "x", "total": 1})
		var roErr *schema.ReadOnlyColumnError
		if !errors.As(err, &roErr) || roErr.Column != "Total" {
			t.Errorf("error = %v, want *schema.ReadOnlyColumnError", err)
		}
	})
	if f.Calls() != calls {
		t.Errorf("rejected writes issued %d requests", f.Calls()-calls)
	}
}

func TestSetSchema(t *testing.T) {
	f := notiontest.New()
	db := newDB(t, f)
	reflected := db.Schema()
	if db.Schema() != reflected {
		t.Fatal("schema must be cached")
	}

	missing, err := schema.New("Mine",
		schema.Spec{Key: "Name", Type: schema.Title()},
		schema.Spec{Key: "Cost", Type: schema.Number("")},
		schema.Spec{Key: "Total", Type: schema.Formula("1")},
	)
	if err != nil {
		t.Fatal(err)
	}
	err = db.SetSchema(missing)
	if !errors.Is(err, schema.ErrSchema) || !strings.Contains(err.Error(), "Columns removed: Description") {
		t.Fatalf("SetSchema() error = %v", err)
	}
	if db.Schema() != reflected {
		t.Error("schema must be unchanged after a failed assignment")
	}

	declared, err := schema.New("Mine",
		schema.Spec{Key: "Name", Type: schema.Title(), Attr: "label"},
		schema.Spec{Key: "Cost", Type: schema.Number("dollar"), Attr: "price"},
		schema.Spec{Key: "Description", Type: schema.Text()},
		schema.Spec{Key: "Total", Type: schema.Formula("1")},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetSchema(declared); err != nil {
		t.Fatal(err)
	}
	if db.Schema() != declared || declared.Database() != db.Object() {
		t.Error("declared schema not bound")
	}
	f.On("POST", "/pages", pageJSON(pageID, "Widget", 2))
	p, err := db.CreatePage(t.Context(), map[string]any{"label": "Widget", "price": 2})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"label": "Widget", "price": 2.0, "description": "", "total": 2.0}
	if diff := cmp.Diff(want, p.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery(t *testing.T) {
	const path = "/databases/" + dbID + "/query"
	f := notiontest.New()
	db := newDB(t, f)
	f.On("POST", path, listJSON(
		pageJSON("00000000-0000-0000-0000-000000000001", "Bolt", 1.5),
		pageJSON("00000000-0000-0000-0000-000000000002", "Nut", 0.5),
		pageJSON("00000000-0000-0000-0000-000000000003", "Widget", 9.99),
	))

	v, err := db.Query().Where("cost", notion.GreaterThan, 0).Sort("name", notion.Ascending).View(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	last := f.Last()
	if err := last.Decode(&body); err != nil {
		t.Fatal(err)
	}
	wantBody := map[string]any{
		"filter": map[string]any{"property": "Cost", "number": map[string]any{"greater_than": 0.0}},
		"sorts":  []any{map[string]any{"property": "Name", "direction": "ascending"}},
	}
	if diff := cmp.Diff(wantBody, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if v.Len() != 3 || v.Page(2).Title() != "Widget" {
		t.Fatalf("unexpected view of %d pages", v.Len())
	}
	if diff := cmp.Diff([]string{"Widget", "Nut"}, v.Reverse().Head(2).Titles()); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	sel, err := v.Select("name", "Cost")
	if err != nil {
		t.Fatal(err)
	}
	wantRows := [][]string{{"Bolt", "1.5"}, {"Nut", "0.5"}, {"Widget", "9.99"}}
	if diff := cmp.Diff(wantRows, sel.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	var out strings.Builder
	if err := sel.Head(1).Render(&out); err != nil {
		t.Fatal(err)
	}
	if want := "Name  Cost\nBolt  1.5\n"; out.String() != want {
		t.Errorf("Render() = %q, want %q", out.String(), want)
	}
	if _, err := v.Select("weight"); !errors.Is(err, schema.ErrSchema) {
		t.Errorf("Select(weight) error = %v", err)
	}

	calls := f.Calls()
	if _, err := db.Query().Where("weight", notion.Equals, 1).All(t.Context()); !errors.Is(err, schema.ErrSchema) {
		t.Errorf("unknown column error = %v", err)
	}
	if f.Calls() != calls {
		t.Error("invalid query must not issue requests")
	}
}

func TestPage(t *testing.T) {
	f := notiontest.New().
		On("GET", "/databases/"+dbID, dbJSON).
		On("GET", "/pages/"+pageID, pageJSON(pageID, "Widget", 9.99))
	s := NewSession(f)
	p, err := s.GetPage(t.Context(), pageID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Database() == nil || p.Database().ID() != dbID {
		t.Fatalf("page not bound to its database")
	}
	v, err := p.Get("cost")
	if err != nil {
		t.Fatal(err)
	}
	if v.Native() != 9.99 {
		t.Errorf("Get(cost) = %v", v.Native())
	}

	f.On("PATCH", "/pages/"+pageID, pageJSON(pageID, "Widget", 3))
	if err := p.Set(t.Context(), "cost", 3); err != nil {
		t.Fatal(err)
	}
	var body struct {
		Properties map[string]any `json:"properties"`
	}
	last := f.Last()
	if err := last.Decode(&body); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"Cost": map[string]any{"type": "number", "number": 3.0}}, body.Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
	if v, _ := p.Get("Cost"); v.Native() != 3.0 {
		t.Errorf("page not refreshed: %v", v.Native())
	}
	calls := f.Calls()
	if err := p.Set(t.Context(), "total", 1); !errors.Is(err, schema.ErrReadOnlyColumn) {
		t.Errorf("Set(total) error = %v", err)
	}
	if err := p.Set(t.Context(), "weight", 1); !errors.Is(err, schema.ErrSchema) {
		t.Errorf("Set(weight) error = %v", err)
	}
	if f.Calls() != calls {
		t.Error("rejected writes must not issue requests")
	}
}

func TestPageContent(t *testing.T) {
	const itemID = "11111111-1111-1111-1111-111111111111"
	f := notiontest.New().
		On("GET", "/blocks/"+pageID+"/children", listJSON(
			`{"object":"block","id":"22222222-2222-2222-2222-222222222222","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"Hello"},"plain_text":"Hello"}]}}`,
			`{"object":"block","id":"`+itemID+`","type":"bulleted_list_item","has_children":true,"bulleted_list_item":{"rich_text":[{"type":"text","text":{"content":"item"},"plain_text":"item"}]}}`,
			`{"object":"block","id":"33333333-3333-3333-3333-333333333333","type":"child_page","has_children":true,"child_page":{"title":"Sub"}}`,
		)).
		On("GET", "/blocks/"+itemID+"/children", listJSON(
			`{"object":"block","id":"44444444-4444-4444-4444-444444444444","type":"bulleted_list_item","bulleted_list_item":{"rich_text":[{"type":"text","text":{"content":"nested"},"plain_text":"nested"}]}}`,
		))
	p := &Page{s: NewSession(f), obj: &notion.Page{ID: pageID}}
	blocks, err := p.Children(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 || len(blocks[1].Children) != 1 || blocks[1].Children[0].PlainText() != "nested" {
		t.Fatalf("unexpected blocks %+v", blocks)
	}
	if f.Calls() != 2 {
		t.Errorf("got %d calls; child pages must not be walked", f.Calls())
	}
	md, err := p.Content(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Hello", "- item", "  - nested", "Sub"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown lacks %q:\n%s", want, md)
		}
	}
}
