// ABOUTME: Token-facing commands: generate, validate, scan, and pattern
// ABOUTME: Scan exits nonzero when confirmed tokens are found, for CI use

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/releasekit/asfcred/internal/registry"
	"github.com/releasekit/asfcred/internal/scan"
	"github.com/releasekit/asfcred/internal/store"
	"github.com/releasekit/asfcred/internal/token"
)

// openRegistry builds the component registry named by the config,
// returning a close function for the database case.
func openRegistry(prefs *prefs, configPath string) (token.Registry, func(), error) {
	cfg, err := loadConfig(prefs, configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := setupLogger(cfg.Logging)

	if cfg.Registry.Source == "file" {
		reg, err := registry.LoadFile(cfg.Registry.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return reg, func() {}, nil
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

// cmdGenerate mints a token for an allocated component
func cmdGenerate(ctx context.Context, prefs *prefs, args []string) error {
	var component, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			if component == "" {
				component = args[i]
			}
		}
	}
	if component == "" {
		return fmt.Errorf("usage: generate <component> [--config <path>]")
	}

	reg, closeReg, err := openRegistry(prefs, configPath)
	if err != nil {
		return err
	}
	defer closeReg()

	gen := token.NewGenerator(reg, nil)
	tok, err := gen.Generate(ctx, component)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	fmt.Println()
	green.Println("  Token minted")
	fmt.Println()
	fmt.Println("  " + tok.String())
	fmt.Println()
	color.Yellow("  Store it now; the token is not recoverable later.\n")
	fmt.Println()
	return nil
}

// cmdValidate checks a candidate token's syntax and checksum
func cmdValidate(ctx context.Context, prefs *prefs, args []string) error {
	var candidate, configPath string
	var allocated bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--allocated", "-a":
			allocated = true
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			if candidate == "" {
				candidate = args[i]
			}
		}
	}
	if candidate == "" {
		return fmt.Errorf("usage: validate <token> [--allocated] [--config <path>]")
	}

	var tok token.Token
	var err error
	if allocated {
		reg, closeReg, regErr := openRegistry(prefs, configPath)
		if regErr != nil {
			return regErr
		}
		defer closeReg()
		tok, err = token.ValidateAllocated(ctx, candidate, reg)
	} else {
		tok, err = token.Validate(candidate)
	}
	if err != nil {
		var perr *token.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("malformed at byte %d (%s): %s", perr.Pos, perr.State, perr.Reason)
		}
		return err
	}

	green := color.New(color.FgGreen)
	green.Println("✓ Valid token")
	fmt.Printf("  Component: %s\n", tok.Component())
	if allocated {
		fmt.Println("  Allocation: confirmed")
	}
	return nil
}

// cmdScan scans files or stdin for leaked tokens
func cmdScan(ctx context.Context, prefs *prefs, args []string) error {
	var files []string
	var configPath string
	var confirm bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--confirm":
			confirm = true
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		default:
			files = append(files, args[i])
		}
	}

	var reg token.Registry
	if confirm {
		r, closeReg, err := openRegistry(prefs, configPath)
		if err != nil {
			return err
		}
		defer closeReg()
		reg = r
	}

	total := 0
	if len(files) == 0 {
		n, err := scanStream(ctx, "stdin", os.Stdin, reg)
		if err != nil {
			return err
		}
		total += n
	}
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		n, err := scanStream(ctx, path, f, reg)
		f.Close()
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		total += n
	}

	if total > 0 {
		return fmt.Errorf("found %d leaked token(s)", total)
	}
	green := color.New(color.FgGreen)
	green.Println("✓ No tokens found")
	return nil
}

// scanStream reports findings in one input, redacting the entropy so
// the scanner's own output is not a fresh leak.
func scanStream(ctx context.Context, name string, r io.Reader, reg token.Registry) (int, error) {
	findings, err := scan.Reader(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, f := range findings {
		if reg != nil {
			allocated, err := reg.IsAllocated(ctx, f.Token.Component())
			if err != nil {
				return count, fmt.Errorf("%w: %v", token.ErrRegistryUnavailable, err)
			}
			if !allocated {
				slog.Debug("match skipped, component not allocated",
					"component", f.Token.Component(), "line", f.Line)
				continue
			}
		}
		count++
		color.Red("%s:%d:%d: %s token (asf_%s_%s...)\n",
			name, f.Line, f.Col, f.Token.Component(),
			f.Token.Component(), f.Token.Entropy()[:4])
	}
	return count, nil
}

// cmdPattern prints the wire-format regular expression
func cmdPattern(args []string) error {
	fmt.Println(token.Pattern)
	return nil
}
