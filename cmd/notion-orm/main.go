// Package main is the entry point for the notion-orm CLI tool.
//
// notion-orm inspects Notion databases through their schema: it prints the
// reflected schema, checks a declared schema against a database, queries and
// creates pages, and renders page content as markdown. The integration token
// is read from -token, the NOTION_TOKEN environment variable or a .env file;
// "login" obtains one for a public integration through OAuth.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/maruel/notionorm/internal/orm"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "notion-orm: %v\n", err)
		os.Exit(1)
	}
}

// command is a subcommand. run receives the arguments after the subcommand
// name.
type command struct {
	help string
	run  func(ctx context.Context, s *orm.Session, args []string) error
}

var commands = map[string]command{
	"schema":  {"Print the schema of a database", cmdSchema},
	"check":   {"Check a YAML schema declaration against a database", cmdCheck},
	"query":   {"List the pages of a database", cmdQuery},
	"search":  {"Search databases or pages by title", cmdSearch},
	"create":  {"Create a page in a database from attr=value pairs", cmdCreate},
	"content": {"Print the content of a page as markdown", cmdContent},
	"users":   {"List the users of the workspace", cmdUsers},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: notion-orm [flags] <command> [command flags]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "  %-8s %s\n", n, commands[n].help)
	}
	fmt.Fprintf(out, "  %-8s %s\n", "login", "Authorize a public integration through OAuth")
	fmt.Fprintf(out, "  %-8s %s\n\nflags:\n", "version", "Print version and exit")
	flag.PrintDefaults()
}

func mainImpl() error {
	token := flag.String("token", "", "Notion integration token (or set NOTION_TOKEN)")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	envDir := flag.String("env-dir", ".", "Directory holding an optional .env file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		return errors.New("a command is required")
	}
	name, args := flag.Arg(0), flag.Args()[1:]
	if name == "version" {
		printVersion()
		return nil
	}
	cmd, ok := commands[name]
	if !ok && name != "login" {
		return fmt.Errorf("unknown command %q", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Override with .env file values if not explicitly set via flags
	env, err := loadDotEnv(*envDir)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["log-level"] {
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			*logLevel = v
		} else if v := env["LOG_LEVEL"]; v != "" {
			*logLevel = v
		}
	}
	if *token == "" {
		if *token = os.Getenv(orm.TokenEnv); *token == "" {
			*token = env[orm.TokenEnv]
		}
	}
	if err := setupLogging(*logLevel); err != nil {
		return err
	}
	if name == "login" {
		return cmdLogin(ctx, env, args)
	}
	if *token == "" {
		return fmt.Errorf("-token or %s is required", orm.TokenEnv)
	}
	if err := os.Setenv(orm.TokenEnv, *token); err != nil {
		return err
	}
	s, err := orm.FromEnv()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return cmd.run(ctx, s, args)
}

func setupLogging(level string) error {
	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	return nil
}

// splitList splits a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
