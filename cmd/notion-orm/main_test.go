// Tests for the CLI helpers.

package main

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/schema"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	env, err := loadDotEnv(dir)
	if err != nil || len(env) != 0 {
		t.Fatalf("missing file: %v, %v", env, err)
	}
	content := "# comment\nNOTION_TOKEN=secret\nexport LOG_LEVEL = debug\nQUOTED=\"a b\"\ninvalid\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	env, err = loadDotEnv(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"NOTION_TOKEN": "secret", "LOG_LEVEL": "debug", "QUOTED": "a b"}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("A='x'\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadDotEnv(dir); err == nil {
		t.Error("expected error for single quotes")
	}
}

func TestParseAssignments(t *testing.T) {
	sch, err := schema.New("Inventory",
		schema.Spec{Key: "Name", Type: schema.Title()},
		schema.Spec{Key: "Cost", Type: schema.Number("")},
		schema.Spec{Key: "Tags", Type: schema.MultiSelect()},
	)
	if err != nil {
		t.Fatal(err)
	}
	values, err := parseAssignments(sch, []string{"name=Widget", "Cost=9.99", "tags=a,b"})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]any{}
	for k, v := range values {
		got[k] = v.(notion.Value).Native()
	}
	want := map[string]any{"name": "Widget", "cost": 9.99, "tags": []string{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	values, err = parseAssignments(sch, []string{"weight=3"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sch.Compose(values); !errors.Is(err, schema.ErrSchema) {
		t.Errorf("Compose() error = %v, want ErrSchema", err)
	}
	for _, args := range [][]string{nil, {"name"}, {"cost=abc"}} {
		if _, err := parseAssignments(sch, args); err == nil {
			t.Errorf("parseAssignments(%q) expected error", args)
		}
	}
}

func TestOAuthConfig(t *testing.T) {
	t.Setenv("NOTION_CLIENT_ID", "")
	t.Setenv("NOTION_CLIENT_SECRET", "")
	if _, err := oauthConfig(nil, "", "", "https://example.com/cb"); err == nil {
		t.Error("expected missing client error")
	}
	env := map[string]string{"NOTION_CLIENT_ID": "id", "NOTION_CLIENT_SECRET": "shh"}
	if _, err := oauthConfig(env, "", "", ""); err == nil {
		t.Error("expected missing redirect error")
	}
	cfg, err := oauthConfig(env, "", "", "https://example.com/cb")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClientID != "id" || cfg.ClientSecret != "shh" {
		t.Errorf("unexpected config %+v", cfg)
	}
	u, err := url.Parse(authURL(cfg, "st"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "api.notion.com" || u.Path != "/v1/oauth/authorize" {
		t.Errorf("auth URL = %s", u)
	}
	q := u.Query()
	want := url.Values{
		"client_id":     {"id"},
		"owner":         {"user"},
		"redirect_uri":  {"https://example.com/cb"},
		"response_type": {"code"},
		"state":         {"st"},
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}
