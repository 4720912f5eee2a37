// Package driver runs Lox source through every phase: scanning and
// parsing, resolution, then evaluation. It owns the run boundary: errors
// are reported once to a Reporter and classified for the host.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/interp"
	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Run failure classes. Errors returned by Session.Run wrap one of these.
var (
	ErrSyntax  = errors.New("syntax error")
	ErrStatic  = errors.New("static error")
	ErrRuntime = errors.New("runtime error")
)

// Reporter is the diagnostic sink. It receives each diagnostic exactly
// once.
type Reporter interface {
	Syntax(err *syntax.Error)
	Runtime(err *interp.RuntimeError)
}

// TextReporter writes diagnostics to W, one per line.
type TextReporter struct {
	W io.Writer
}

func (r TextReporter) Syntax(err *syntax.Error) {
	fmt.Fprintln(r.W, err.Error())
}

func (r TextReporter) Runtime(err *interp.RuntimeError) {
	fmt.Fprintln(r.W, err.Error())
}

// Session runs successive programs against one interpreter, so globals,
// functions and classes defined by one run are visible to the next.
type Session struct {
	interp *interp.Interpreter
	rep    Reporter
	log    *slog.Logger
	runs   int
}

// NewSession creates a session configured by cfg (nil means defaults).
// Program output goes to out and diagnostics to rep.
func NewSession(cfg *config.Config, out io.Writer, rep Reporter, log *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []interp.Option{
		interp.WithOutput(out),
		interp.WithLogger(log),
		interp.WithMaxDepth(cfg.Runtime.MaxCallDepth),
	}
	if cfg.Runtime.Natives != nil {
		opts = append(opts, interp.WithNatives(cfg.Runtime.Natives...))
	}

	return &Session{
		interp: interp.New(opts...),
		rep:    rep,
		log:    log,
	}
}

// Interpreter returns the session's interpreter, for installing host
// values.
func (s *Session) Interpreter() *interp.Interpreter {
	return s.interp
}

// Run executes one program. A program with syntax errors is not resolved,
// and one with static errors is not evaluated. The returned error wraps
// ErrSyntax, ErrStatic or ErrRuntime; a runtime failure also wraps the
// *interp.RuntimeError.
func (s *Session) Run(filename string, src io.Reader) error {
	s.runs++
	log := s.log.With(slog.String("file", filename), slog.Int("run", s.runs))

	stmts, err := Parse(filename, src, s.rep)
	if err != nil {
		log.Debug("parse failed", slog.Any("error", err))
		return err
	}

	info := &resolve.Info{}
	conf := &resolve.Config{Error: s.reportSyntax}
	if err := resolve.Resolve(stmts, conf, info); err != nil {
		log.Debug("resolve failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrStatic, err)
	}
	log.Debug("resolved", slog.Int("statements", len(stmts)), slog.Int("locals", len(info.Locals)))

	s.interp.Resolve(info)
	if err := s.interp.Interpret(stmts); err != nil {
		var rerr *interp.RuntimeError
		if !errors.As(err, &rerr) {
			rerr = &interp.RuntimeError{Msg: err.Error()}
		}
		if s.rep != nil {
			s.rep.Runtime(rerr)
		}
		return fmt.Errorf("%w: %w", ErrRuntime, rerr)
	}
	return nil
}

func (s *Session) reportSyntax(err *syntax.Error) {
	if s.rep != nil {
		s.rep.Syntax(err)
	}
}

// Parse scans and parses src, reporting every syntax error to rep. It
// returns an error wrapping ErrSyntax if there were any.
func Parse(filename string, src io.Reader, rep Reporter) ([]syntax.Stmt, error) {
	errh := func(err *syntax.Error) {
		if rep != nil {
			rep.Syntax(err)
		}
	}
	p := syntax.NewParser(filename, src, errh)
	stmts := p.Parse()
	if n := p.Errors(); n > 0 {
		return nil, fmt.Errorf("%w: %d error(s), first: %w", ErrSyntax, n, p.FirstError())
	}
	return stmts, nil
}
