// ABOUTME: Component namespace administration: list, allocate, release
// ABOUTME: Operates directly on the SQLite allocation store

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/releasekit/asfcred/internal/store"
)

// openStore opens the SQLite store named by the config.
func openStore(prefs *prefs, configPath string) (*store.SQLiteStore, error) {
	cfg, err := loadConfig(prefs, configPath)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.Logging)
	return store.NewSQLiteStore(cfg.Database.Path, logger)
}

// actor resolves who to record in the audit trail.
func actor(prefs *prefs) string {
	if uid, err := currentUID(prefs); err == nil {
		return uid
	}
	return "cli"
}

// cmdComponent handles component subcommands
func cmdComponent(ctx context.Context, prefs *prefs, args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdComponentList(ctx, prefs, args)
	case "allocate", "add":
		return cmdComponentAllocate(ctx, prefs, args)
	case "release", "rm", "remove":
		return cmdComponentRelease(ctx, prefs, args)
	default:
		return fmt.Errorf("unknown component subcommand: %s (use list, allocate, release)", subcmd)
	}
}

// cmdComponentList lists allocated components
func cmdComponentList(ctx context.Context, prefs *prefs, args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	components, err := s.ListComponents(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Allocated Components")
	cyan.Println("  --------------------")

	if len(components) == 0 {
		fmt.Println("  (none allocated)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tOWNER\tALLOCATED BY\tALLOCATED")
	fmt.Fprintln(w, "  ----\t-----\t------------\t---------")
	for _, c := range components {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			c.Name, truncate(c.Owner, 24), truncate(c.AllocatedBy, 16),
			c.AllocatedAt.Format("Jan 02 2006"))
	}
	w.Flush()
	fmt.Println()

	return nil
}

// cmdComponentAllocate reserves a component name
func cmdComponentAllocate(ctx context.Context, prefs *prefs, args []string) error {
	var name, owner, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--owner", "-o":
			if i+1 < len(args) {
				owner = args[i+1]
				i++
			}
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			if name == "" {
				name = args[i]
			}
		}
	}
	if name == "" {
		return fmt.Errorf("usage: component allocate <name> [--owner <owner>]")
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := s.AllocateComponent(ctx, name, owner, actor(prefs))
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Allocated component: %s\n", c.Name)
	if c.Owner != "" {
		fmt.Printf("  Owner: %s\n", c.Owner)
	}
	return nil
}

// cmdComponentRelease frees a component name
func cmdComponentRelease(ctx context.Context, prefs *prefs, args []string) error {
	var name, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			if name == "" {
				name = args[i]
			}
		}
	}
	if name == "" {
		return fmt.Errorf("usage: component release <name>")
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ReleaseComponent(ctx, name, actor(prefs)); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Released component: %s\n", name)
	color.Yellow("  Existing %s tokens will no longer pass allocation checks.\n", name)
	return nil
}

// cmdAudit shows recent allocation and token lifecycle events
func cmdAudit(ctx context.Context, prefs *prefs, args []string) error {
	var configPath string
	limit := 20
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 < len(args) {
				if _, err := fmt.Sscanf(args[i+1], "%d", &limit); err != nil {
					return fmt.Errorf("invalid limit: %q", args[i+1])
				}
				i++
			}
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.AuditLog(ctx, limit)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Audit Log")
	cyan.Println("  ---------")

	if len(entries) == 0 {
		fmt.Println("  (empty)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  WHEN\tACTION\tACTOR\tTARGET\tDETAIL")
	fmt.Fprintln(w, "  ----\t------\t-----\t------\t------")
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("Jan 02 15:04"), e.Action,
			truncate(e.Actor, 16), truncate(e.Target, 36), truncate(e.Detail, 24))
	}
	w.Flush()
	fmt.Println()

	return nil
}
