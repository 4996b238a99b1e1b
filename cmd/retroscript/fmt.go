package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroauto/go-retroscript/format"
)

func formatCmd(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	write := fs.Bool("write", false, "Rewrite the file in place instead of printing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript fmt <script.rs> [options]

Format a RetroScript source file to canonical style. Scripts that do
not parse are passed through unchanged.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Print formatted source
  retroscript fmt script.rs

  # Rewrite in place
  retroscript fmt --write script.rs
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("script file required")
	}

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	formatted := format.FormatCode(string(source))

	if *write {
		if formatted == string(source) {
			return nil
		}
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return fmt.Errorf("write script: %w", err)
		}
		fmt.Printf("Formatted %s\n", path)
		return nil
	}

	fmt.Print(formatted)
	return nil
}
