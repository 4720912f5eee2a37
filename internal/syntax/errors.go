package syntax

import "fmt"

// Error is a diagnostic produced before evaluation: by the scanner,
// the parser, or the resolver.
type Error struct {
	Pos   Pos
	Where string // " at 'x'", " at end", or "" for scanner errors
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Pos.Line(), e.Where, e.Msg)
}

// ErrorHandler receives every diagnostic as it is reported.
// A nil handler discards diagnostics.
type ErrorHandler func(err *Error)

// ErrorAt builds a diagnostic pointing at tok.
func ErrorAt(tok Token, msg string) *Error {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == EOF {
		where = " at end"
	}
	return &Error{Pos: tok.Pos, Where: where, Msg: msg}
}

// ErrorList collects diagnostics; its Add method is an ErrorHandler.
type ErrorList []*Error

// Add appends err to the list.
func (l *ErrorList) Add(err *Error) {
	*l = append(*l, err)
}

// Err returns the first diagnostic, or nil when the list is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l[0]
}
