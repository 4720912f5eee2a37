// Package main implements the lox interpreter entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/driver"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Interpreter flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text, sexpr or json)")
	configPath = flag.String("config", "", "Configuration file (default $"+config.EnvVar+" or ./"+config.FileName+")")
	version    = flag.Bool("version", false, "Print version")
	trace      = flag.Bool("trace", false, "Log evaluation trace to stderr")
)

// Version information
const Version = "0.1.0-dev"

// Exit codes, following sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65 // syntax or static error
	exitSoftware = 70 // runtime error
	exitIOErr    = 74
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Lox Interpreter %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: lox [options] [script.lox]\n\n")
		fmt.Fprintf(os.Stderr, "With no script, lox starts an interactive prompt.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("lox version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(exitOK)
	}

	args := flag.Args()
	if len(args) > 1 {
		flag.Usage()
		os.Exit(exitUsage)
	}

	// Handle -emit-tokens and -emit-ast
	if *emitTokens || *emitAST {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "error: no input file")
			fmt.Fprintln(os.Stderr, "usage: lox -emit-tokens|-emit-ast <file.lox>")
			os.Exit(exitUsage)
		}
		if *emitTokens {
			os.Exit(runEmitTokens(args[0]))
		}
		os.Exit(runEmitAST(args[0], *astFormat))
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitUsage)
	}
	logger := newLogger(os.Stderr, cfg.Log, *trace)
	logger.Debug("config loaded", slog.String("path", cfg.Path))

	if len(args) == 0 {
		os.Exit(runREPL(cfg, logger))
	}
	os.Exit(runFile(args[0], cfg, logger))
}

// newLogger builds the diagnostic logger. trace forces debug level.
func newLogger(w io.Writer, lc config.LogConfig, trace bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}
	if trace {
		opts.Level = slog.LevelDebug
	}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runFile executes a script and returns an exit code.
func runFile(filename string, cfg *config.Config, logger *slog.Logger) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitIOErr
	}
	defer f.Close()

	s := driver.NewSession(cfg, os.Stdout, driver.TextReporter{W: os.Stderr}, logger)
	return exitCode(s.Run(filename, f))
}

// exitCode maps a run error to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, driver.ErrSyntax), errors.Is(err, driver.ErrStatic):
		return exitDataErr
	case errors.Is(err, driver.ErrRuntime):
		return exitSoftware
	default:
		return exitIOErr
	}
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename, format string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitIOErr
	}
	defer f.Close()

	stmts, err := driver.Parse(filename, f, driver.TextReporter{W: os.Stderr})
	if err != nil {
		return exitDataErr
	}

	// Output AST
	switch format {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, stmts); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitIOErr
		}
	case "sexpr":
		for _, s := range stmts {
			fmt.Println(syntax.Sprint(s))
		}
	case "text":
		syntax.Fprint(os.Stdout, stmts)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", format)
		return exitUsage
	}
	return exitOK
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitIOErr
	}
	defer f.Close()

	var errs syntax.ErrorList
	toks := syntax.ScanAll(filename, f, errs.Add)

	// Print header
	fmt.Printf("%-20s %-12s %-16s %s\n", "POSITION", "TOKEN", "LEXEME", "LITERAL")
	fmt.Printf("%-20s %-12s %-16s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 16), strings.Repeat("-", 20))

	for _, tok := range toks {
		fmt.Printf("%-20s %-12s %-16s %s\n", tok.Pos, tok.Kind, tok.Lexeme, formatLiteral(tok.Literal))
	}

	// Print any errors
	if len(errs) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		return exitDataErr
	}

	return exitOK
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit interface{}) string {
	switch lit := lit.(type) {
	case nil:
		return ""
	case string:
		var b strings.Builder
		b.WriteRune('"')
		for _, r := range lit {
			switch r {
			case '\n':
				b.WriteString("\\n")
			case '\t':
				b.WriteString("\\t")
			case '\r':
				b.WriteString("\\r")
			case '\\':
				b.WriteString("\\\\")
			default:
				b.WriteRune(r)
			}
		}
		b.WriteRune('"')
		return b.String()
	default:
		return fmt.Sprint(lit)
	}
}
