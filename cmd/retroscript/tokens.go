package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroauto/go-retroscript/lexer"
)

func tokens(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	showComments := fs.Bool("comments", false, "Include comment tokens in the dump")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: retroscript tokens <script.rs> [options]

Dump the token stream produced by the lexer, one token per line with its
source position. Lexer errors are listed after the stream.

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

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	toks, comments, lexErrors := lexer.Tokenize(string(source))
	for _, tok := range toks {
		fmt.Printf("%4d:%-3d %-12v %q\n", tok.Line, tok.Column, tok.Type, tok.Value)
	}

	if *showComments && len(comments) > 0 {
		fmt.Println("\nComments:")
		for _, tok := range comments {
			fmt.Printf("%4d:%-3d %q\n", tok.Line, tok.Column, tok.Value)
		}
	}

	if len(lexErrors) > 0 {
		fmt.Println("\nErrors:")
		for _, lexErr := range lexErrors {
			fmt.Printf("%4d:%-3d %s\n", lexErr.Line, lexErr.Column, lexErr.Message)
		}
	}
	return nil
}
