package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reposcope/reposcope/internal/errors"
	"github.com/reposcope/reposcope/internal/output"
)

// runInteractive reads repository URLs until "exit" or EOF. A failed
// analysis prints a diagnostic and returns to the prompt; only the rule
// table being unloadable aborts the whole run.
func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer()
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(os.Stdout)
	// Suppress the prompt when input is piped so output stays clean.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if interactive {
			fmt.Print("Enter a repository URL (e.g. https://github.com/owner/repo) or 'exit' to quit: ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		report, err := a.AnalyzeRepository(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error (%s): %v\n", errors.KindOf(err), err)
			continue
		}
		if err := formatter.Format(report); err != nil {
			return err
		}
	}
	return scanner.Err()
}
