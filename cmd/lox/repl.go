package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/driver"
)

// lineReader is the part of *liner.State the prompt loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// runREPL runs the interactive prompt until end of input.
func runREPL(cfg *config.Config, logger *slog.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := cfg.REPL.HistoryPath(); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Printf("Lox %s. Ctrl+C cancels input, Ctrl+D exits.\n", Version)
	s := driver.NewSession(cfg, os.Stdout, driver.TextReporter{W: os.Stderr}, logger)
	return replLoop(ln, s, cfg.REPL.Prompt, os.Stdout, logger)
}

// replLoop reads one line at a time and runs it in s. Errors in a line
// are reported and the session carries on with its state intact.
func replLoop(r lineReader, s *driver.Session, prompt string, out io.Writer, logger *slog.Logger) int {
	for {
		line, err := r.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return exitOK
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitIOErr
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		r.AppendHistory(line)

		if err := s.Run("<stdin>", strings.NewReader(line)); err != nil {
			logger.Debug("line failed", slog.Any("error", err))
		}
	}
}
