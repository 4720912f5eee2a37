package interp

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

// RuntimeError is an error raised while evaluating a program. It aborts
// the rest of the run.
type RuntimeError struct {
	Token syntax.Token // token the error is reported at
	Msg   string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Token.Line())
}

// Line returns the source line of the offending token.
func (e *RuntimeError) Line() int {
	return e.Token.Line()
}

func runtimeErr(tok syntax.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Msg: fmt.Sprintf(format, args...)}
}
