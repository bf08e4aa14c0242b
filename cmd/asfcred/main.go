// ABOUTME: Entry point for the asfcred credential tool
// ABOUTME: Dispatches token, component, pat, and scan commands

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/releasekit/asfcred/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	prefs := loadPrefs()
	prefs.apply()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = cmdGenerate(ctx, prefs, args)
	case "validate":
		err = cmdValidate(ctx, prefs, args)
	case "scan":
		err = cmdScan(ctx, prefs, args)
	case "pattern":
		err = cmdPattern(args)
	case "component":
		err = cmdComponent(ctx, prefs, args)
	case "pat":
		err = cmdPAT(ctx, prefs, args)
	case "audit":
		err = cmdAudit(ctx, prefs, args)
	case "version":
		fmt.Printf("asfcred %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Println("asfcred - secret token minting, validation, and leak scanning")
	fmt.Println()
	fmt.Println("Usage: asfcred <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  generate <component>        Mint a new token for an allocated component")
	fmt.Println("  validate <token>            Check a token's syntax and checksum")
	fmt.Println("  scan [file...]              Scan files (or stdin) for leaked tokens")
	fmt.Println("  pattern                     Print the token regular expression")
	fmt.Println("  component list              List allocated components")
	fmt.Println("  component allocate <name>   Allocate a component namespace")
	fmt.Println("  component release <name>    Release a component namespace")
	fmt.Println("  pat add                     Mint and register a personal access token")
	fmt.Println("  pat list                    List your personal tokens")
	fmt.Println("  pat revoke <id>             Revoke a personal token")
	fmt.Println("  pat exchange                Exchange a personal token for a JWT")
	fmt.Println("  audit [-n <count>]          Show recent allocation and token events")
	fmt.Println("  version                     Print version")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  ASFCRED_CONFIG          Path to config.yaml (default: ./config.yaml)")
	fmt.Println("  ASFCRED_UID             Your uid for pat commands")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  asfcred component allocate infra --owner infrastructure")
	fmt.Println("  asfcred generate infra")
	fmt.Println("  asfcred scan build.log deploy.log")
	fmt.Println("  git grep -l asf_ | xargs asfcred scan")
	fmt.Println()
}

// loadConfig reads the YAML config, preferring --config, then prefs,
// then the ASFCRED_CONFIG environment variable.
func loadConfig(prefs *prefs, override string) (*config.Config, error) {
	path := override
	if path == "" {
		path = os.Getenv("ASFCRED_CONFIG")
	}
	if path == "" {
		path = prefs.Defaults.Config
	}
	if path == "" {
		path = "config.yaml"
	}
	return config.Load(path)
}

// currentUID resolves the acting user for pat commands.
func currentUID(prefs *prefs) (string, error) {
	if uid := os.Getenv("ASFCRED_UID"); uid != "" {
		return uid, nil
	}
	if prefs.Defaults.UID != "" {
		return prefs.Defaults.UID, nil
	}
	return "", fmt.Errorf("set ASFCRED_UID or defaults.uid in %s", prefsPath())
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Logs go to stderr so scan output stays pipeable.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(os.Stderr, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
