// Command asm8 assembles 6502 source into a raw binary image.
package main

import (
	"fmt"
	"os"
	"strings"

	"asm8/assembler"
	"asm8/lexer"
	"asm8/source"
)

func main() {
	c := parseArgs()

	report := func(pos lexer.Position, msg string) {
		if !c.Quiet {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pos.String(), msg)
		}
	}

	asm := assembler.New(c.Includes, c.Defines, report)
	asm.SetMaxPasses(c.MaxPasses)
	asm.SetInitialFill(byte(c.FillValue))
	asm.SetListing(c.ListPath != "", c.Verbose)

	if c.DumpAST {
		lines, err := asm.DumpExpanded(c.Input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return
	}

	result, err := asm.Assemble(c.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !c.Quiet {
		fmt.Fprintf(os.Stderr, "%s: %d bytes in %d pass(es)\n", c.Output, len(result.Bytes), result.Passes)
	}

	if err := source.WriteFile(c.Output, result.Bytes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if c.ListPath != "" {
		if err := source.WriteFile(c.ListPath, []byte(formatListing(result.Listing))); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// formatListing renders a sequence of assembler.ListEntry as plain
// text, one "address  source" line per entry.
func formatListing(entries []assembler.ListEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%04X  %s\n", e.PC, e.Text)
	}
	return b.String()
}
