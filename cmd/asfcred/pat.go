// ABOUTME: Personal access token lifecycle: add, list, revoke, exchange
// ABOUTME: Plaintext tokens are shown once at mint and read from stdin at exchange

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/releasekit/asfcred/internal/auth"
	"github.com/releasekit/asfcred/internal/store"
	"github.com/releasekit/asfcred/internal/token"
)

// cmdPAT handles pat subcommands
func cmdPAT(ctx context.Context, prefs *prefs, args []string) error {
	subcmd := ""
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "add", "create":
		return cmdPATAdd(ctx, prefs, args)
	case "list", "ls":
		return cmdPATList(ctx, prefs, args)
	case "revoke", "rm", "delete":
		return cmdPATRevoke(ctx, prefs, args)
	case "exchange":
		return cmdPATExchange(ctx, prefs, args)
	default:
		return fmt.Errorf("usage: pat <add|list|revoke|exchange> [args]")
	}
}

// cmdPATAdd mints a token and registers its fingerprint
func cmdPATAdd(ctx context.Context, prefs *prefs, args []string) error {
	var label, component, ttlRaw, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--label", "-l":
			if i+1 < len(args) {
				label = args[i+1]
				i++
			}
		case "--component":
			if i+1 < len(args) {
				component = args[i+1]
				i++
			}
		case "--ttl", "-t":
			if i+1 < len(args) {
				ttlRaw = args[i+1]
				i++
			}
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}
	if label == "" {
		return fmt.Errorf("usage: pat add --label <label> [--component <name>] [--ttl <duration>]")
	}
	if component == "" {
		component = "pat"
	}

	uid, err := currentUID(prefs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(prefs, configPath)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	s, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ttl := cfg.Auth.TokenTTL
	if ttlRaw != "" {
		if ttl, err = time.ParseDuration(ttlRaw); err != nil {
			return fmt.Errorf("invalid ttl: %w", err)
		}
	}

	gen := token.NewGenerator(s, nil)
	tok, err := gen.Generate(ctx, component)
	if err != nil {
		return err
	}

	expires := time.Now().Add(ttl)
	record, err := s.AddToken(ctx, uid, auth.Fingerprint(tok.String()), label, expires)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Println()
	green.Println("  Personal token created")
	fmt.Println()
	cyan.Println("  Label:    " + record.Label)
	cyan.Println("  Expires:  " + record.Expires.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  Token (keep this secret!):")
	fmt.Println()
	fmt.Println("  " + tok.String())
	fmt.Println()
	color.Yellow("  Only its fingerprint is stored; this is the only time it is shown.\n")
	fmt.Println()

	return nil
}

// cmdPATList lists the current user's tokens
func cmdPATList(ctx context.Context, prefs *prefs, args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	uid, err := currentUID(prefs)
	if err != nil {
		return err
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	tokens, err := s.ListTokens(ctx, uid)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Personal Tokens (%s)\n", uid)
	cyan.Println("  ---------------")

	if len(tokens) == 0 {
		fmt.Println("  (no tokens)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tLABEL\tCREATED\tEXPIRES\tLAST USED")
	fmt.Fprintln(w, "  --\t-----\t-------\t-------\t---------")
	for _, pt := range tokens {
		lastUsed := "never"
		if !pt.LastUsed.IsZero() {
			lastUsed = pt.LastUsed.Format("Jan 02 15:04")
		}
		expires := pt.Expires.Format("Jan 02 2006")
		if time.Now().After(pt.Expires) {
			expires = color.RedString("expired")
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			truncate(pt.ID, 12), truncate(pt.Label, 28),
			pt.Created.Format("Jan 02 2006"), expires, lastUsed)
	}
	w.Flush()
	fmt.Println()

	return nil
}

// cmdPATRevoke deletes one of the current user's tokens
func cmdPATRevoke(ctx context.Context, prefs *prefs, args []string) error {
	var id, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			if id == "" {
				id = args[i]
			}
		}
	}
	if id == "" {
		return fmt.Errorf("usage: pat revoke <id>")
	}

	uid, err := currentUID(prefs)
	if err != nil {
		return err
	}

	s, err := openStore(prefs, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	// Allow the truncated IDs shown by pat list.
	if len(id) < 36 {
		tokens, err := s.ListTokens(ctx, uid)
		if err != nil {
			return err
		}
		prefix := strings.TrimSuffix(id, "...")
		for _, pt := range tokens {
			if strings.HasPrefix(pt.ID, prefix) {
				id = pt.ID
				break
			}
		}
	}

	if err := s.DeleteToken(ctx, uid, id); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Revoked token: %s\n", id)
	return nil
}

// cmdPATExchange reads a token from stdin and prints a JWT
func cmdPATExchange(ctx context.Context, prefs *prefs, args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}

	uid, err := currentUID(prefs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(prefs, configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not configured")
	}
	logger := setupLogger(cfg.Logging)

	s, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	tokenText, err := readTokenLine(os.Stdin)
	if err != nil {
		return err
	}

	issuer := auth.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTTTL)
	exchanger := auth.NewExchanger(s, issuer, logger)

	jwt, err := exchanger.Exchange(ctx, uid, tokenText)
	if err != nil {
		return err
	}

	fmt.Println(jwt)
	return nil
}

// readTokenLine reads one trimmed line, the token text, from r.
func readTokenLine(r *os.File) (string, error) {
	if isTerminal(r) {
		fmt.Fprint(os.Stderr, "Token: ")
	}
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no token on stdin")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
