package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/parser"
	"github.com/retroauto/go-retroscript/semantic"
)

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	assets := fs.String("assets", "", "Asset names for reference checks: a directory of captures or a comma-separated list")
	outputJSON := fs.Bool("json", false, "Output diagnostics as JSON")
	verbose := fs.Bool("verbose", false, "Log analysis details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript check <script.rs> [options]

Parse and analyze a RetroScript source file, reporting all syntax and
semantic diagnostics.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Checks performed:
  - Syntax (with recovery, so multiple errors are reported per run)
  - Unknown asset, flow and label references
  - Duplicate flow and label definitions
  - Builtin call signatures (missing arguments, argument types)

Examples:
  # Basic check
  retroscript check script.rs

  # Resolve asset names against a directory of captures
  retroscript check --assets ./assets script.rs

  # Or against an explicit list
  retroscript check --assets ok_button,cancel_button script.rs

  # Machine-readable output
  retroscript check --json script.rs
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("script file required")
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.Disabled)
	if *verbose {
		log = log.Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	var knownAssets []string
	if *assets != "" {
		knownAssets, err = resolveAssets(*assets)
		if err != nil {
			return fmt.Errorf("resolve assets: %w", err)
		}
		log.Debug().Int("assets", len(knownAssets)).Msg("asset names resolved")
	}

	start := time.Now()
	program, diags := parser.Parse(string(source))
	if program != nil {
		diags = append(diags, semantic.Analyze(program, knownAssets)...)
	}
	diag.Sort(diags)
	log.Debug().Dur("elapsed", time.Since(start)).Int("diagnostics", len(diags)).Msg("analysis complete")

	if *outputJSON {
		data, err := json.MarshalIndent(diags, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		for _, d := range diags {
			fmt.Printf("%s:%d:%d: %s %s: %s\n", path, d.Span.StartLine, d.Span.StartCol, d.Severity, d.Code, d.Message)
			if d.Hint != "" {
				fmt.Printf("  hint: %s\n", d.Hint)
			}
		}
	}

	if diag.HasErrors(diags) {
		return fmt.Errorf("%d problem(s) found", len(diags))
	}
	if len(diags) == 0 && !*outputJSON {
		fmt.Printf("%s: no problems found\n", path)
	}
	return nil
}

// resolveAssets accepts either a directory of captures or a
// comma-separated list of asset names.
func resolveAssets(value string) ([]string, error) {
	if info, err := os.Stat(value); err == nil && info.IsDir() {
		return listAssets(value)
	}
	var names []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// listAssets collects image basenames, without extension, so scripts can
// reference captures by the name shown in the asset panel.
func listAssets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".bmp" {
			names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		}
	}
	return names, nil
}
