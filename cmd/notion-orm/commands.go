// Implements the subcommands.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/orm"
	"github.com/maruel/notionorm/internal/schema"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("notion-orm "+name, flag.ContinueOnError)
}

func requireDB(ctx context.Context, s *orm.Session, id string) (*orm.Database, error) {
	if id == "" {
		return nil, errors.New("-db is required")
	}
	return s.GetDB(ctx, id)
}

func cmdSchema(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("schema")
	dbID := fs.String("db", "", "Database ID or URL (required)")
	format := fs.String("format", "text", "Output format (text, yaml, jsonschema)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := requireDB(ctx, s, *dbID)
	if err != nil {
		return err
	}
	sch := db.Schema()
	switch *format {
	case "text":
		fmt.Println(sch)
	case "yaml":
		b, err := sch.YAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	case "jsonschema":
		b, err := json.MarshalIndent(sch.JSONSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON schema: %w", err)
		}
		fmt.Println(string(b))
	default:
		return fmt.Errorf("invalid format %q", *format)
	}
	return nil
}

func cmdCheck(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("check")
	dbID := fs.String("db", "", "Database ID or URL (required)")
	path := fs.String("schema", "", "Schema declaration YAML file (required)")
	watch := fs.Bool("watch", false, "Check again whenever the file changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("-schema is required")
	}
	db, err := requireDB(ctx, s, *dbID)
	if err != nil {
		return err
	}
	check := func() error {
		sch, err := schema.LoadYAML(*path)
		if err != nil {
			return err
		}
		if err := db.SetSchema(sch); err != nil {
			return err
		}
		fmt.Printf("%s: consistent with %s\n", *path, db)
		return nil
	}
	if !*watch {
		return check()
	}
	return watchFile(ctx, *path, func() {
		if err := db.Reload(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}
		if err := check(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *path, err)
		}
	})
}

func cmdQuery(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("query")
	dbID := fs.String("db", "", "Database ID or URL (required)")
	limit := fs.Int("limit", 0, "Maximum number of pages (0=all)")
	columns := fs.String("columns", "", "Comma-separated columns to show (default: all)")
	sortBy := fs.String("sort", "", "Column to sort by; prefix with - for descending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := requireDB(ctx, s, *dbID)
	if err != nil {
		return err
	}
	q := db.Query()
	if *sortBy != "" {
		dir := notion.Ascending
		attr := *sortBy
		if rest, ok := strings.CutPrefix(attr, "-"); ok {
			attr, dir = rest, notion.Descending
		}
		q.Sort(attr, dir)
	}
	if *limit > 0 {
		q.Limit(*limit)
	}
	v, err := q.View(ctx)
	if err != nil {
		return err
	}
	if cols := splitList(*columns); len(cols) != 0 {
		if v, err = v.Select(cols...); err != nil {
			return err
		}
	}
	return v.Render(os.Stdout)
}

func cmdSearch(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("search")
	dbs := fs.Bool("db", false, "Search databases instead of pages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if *dbs {
		results, err := s.SearchDB(ctx, text)
		if err != nil {
			return err
		}
		for _, db := range results {
			fmt.Printf("%s  %s\n", db.ID(), db.Title())
		}
		return nil
	}
	results, err := s.SearchPage(ctx, text)
	if err != nil {
		return err
	}
	for _, p := range results {
		fmt.Printf("%s  %s\n", p.ID(), p.Title())
	}
	return nil
}

func cmdCreate(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("create")
	dbID := fs.String("db", "", "Database ID or URL (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := requireDB(ctx, s, *dbID)
	if err != nil {
		return err
	}
	values, err := parseAssignments(db.Schema(), fs.Args())
	if err != nil {
		return err
	}
	p, err := db.CreatePage(ctx, values)
	if err != nil {
		return err
	}
	fmt.Println(p.URL())
	return nil
}

// parseAssignments converts attr=value arguments to values keyed by
// attribute name.
func parseAssignments(sch *schema.Schema, args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one attr=value is required")
	}
	values := make(map[string]any, len(args))
	for _, arg := range args {
		name, text, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected attr=value, got %q", arg)
		}
		c, ok := sch.Lookup(name)
		if !ok {
			// Let the schema report unknown attributes.
			values[name] = text
			continue
		}
		v, err := c.Parse(text)
		if err != nil {
			return nil, err
		}
		values[c.Attr] = v
	}
	return values, nil
}

func cmdContent(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("content")
	pageID := fs.String("page", "", "Page ID or URL (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pageID == "" {
		return errors.New("-page is required")
	}
	p, err := s.GetPage(ctx, *pageID)
	if err != nil {
		return err
	}
	md, err := p.Content(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n\n%s", p.Title(), md)
	return nil
}

func cmdUsers(ctx context.Context, s *orm.Session, args []string) error {
	fs := newFlagSet("users")
	me := fs.Bool("me", false, "Only print the integration's bot user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *me {
		u, err := s.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s (bot)\n", u.ID, u.Name)
		return nil
	}
	users, err := s.AllUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		kind := "bot"
		if u.IsPerson() {
			kind = u.Email()
		}
		fmt.Printf("%s  %s (%s)\n", u.ID, u.Name, kind)
	}
	return nil
}
