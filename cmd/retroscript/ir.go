package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/ir"
)

func compileIR(args []string) error {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write IR JSON to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript ir <script.rs> [options]

Compile a script to its JSON intermediate representation, the flat
action lists consumed by the visual editor and the execution runtime.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  retroscript ir script.rs
  retroscript ir script.rs --output script.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("script file required")
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	script, diags := ir.ParseToIR(string(source))
	if diag.HasErrors(diags) {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "%d:%d: %s: %s\n", d.Span.StartLine, d.Span.StartCol, d.Code, d.Message)
		}
		return fmt.Errorf("script has syntax errors")
	}

	data, err := ir.ToJSON(script)
	if err != nil {
		return fmt.Errorf("marshal IR: %w", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("IR written to %s\n", *outputFile)
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func emitCode(args []string) error {
	fs := flag.NewFlagSet("code", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write generated source to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript code <script.json> [options]

Generate formatted RetroScript source from a JSON intermediate
representation.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  retroscript code script.json
  retroscript code script.json --output script.rs
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("IR file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read IR: %w", err)
	}

	script, err := ir.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse IR: %w", err)
	}

	code := ir.IRToCode(script)

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(code), 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("Source written to %s\n", *outputFile)
		return nil
	}

	fmt.Print(code)
	return nil
}
