package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "fmt":
		if err := formatCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := check(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "tokens":
		if err := tokens(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "ir":
		if err := compileIR(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "code":
		if err := emitCode(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "fixes":
		if err := fixes(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("retroscript version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`retroscript - RetroScript automation language toolchain

Usage:
  retroscript <command> [options]

Commands:
  fmt      Format a script to canonical style
  check    Parse and analyze a script, reporting diagnostics
  tokens   Dump the token stream of a script
  ir       Compile a script to its JSON intermediate representation
  code     Generate formatted source from a JSON intermediate representation
  fixes    Suggest quick fixes for a script's syntax errors
  help     Show this help message
  version  Show version information

Examples:
  # Format in place
  retroscript fmt --write script.rs

  # Check with known assets
  retroscript check --assets ./assets script.rs

  # Round-trip through the IR
  retroscript ir script.rs --output script.json
  retroscript code script.json

For command-specific help, run:
  retroscript <command> --help`)
}
