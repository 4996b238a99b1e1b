package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroauto/go-retroscript/parser"
	"github.com/retroauto/go-retroscript/quickfix"
)

func fixes(args []string) error {
	fs := flag.NewFlagSet("fixes", flag.ExitOnError)
	lint := fs.Bool("lint", false, "Also run line-based lint checks")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript fixes <script.rs> [options]

Report syntax diagnostics together with suggested quick fixes: typo
corrections and missing-punctuation insertions.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("script file required")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	source := string(data)

	_, diags := parser.Parse(source)
	provider := quickfix.NewProvider()

	for _, d := range diags {
		fmt.Printf("%s:%d:%d: %s: %s\n", path, d.Span.StartLine, d.Span.StartCol, d.Code, d.Message)
		for _, fix := range provider.FixesForSource(d, source) {
			fmt.Printf("  fix: %s (%s)\n", fix.Title, fix.Description)
		}
	}

	if *lint {
		linter := quickfix.NewLinter()
		for _, finding := range linter.Lint(source) {
			fmt.Printf("%s:%d: %s: %s\n", path, finding.Line, finding.Severity, finding.Message)
			if finding.Suggestion != "" {
				fmt.Printf("  suggestion: %s\n", finding.Suggestion)
			}
		}
	}

	if len(diags) == 0 && !*lint {
		fmt.Printf("%s: no syntax errors\n", path)
	}
	return nil
}
