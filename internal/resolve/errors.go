package resolve

import "github.com/you-not-fish/lox/internal/syntax"

// errorAt reports a static error at tok. Resolution continues afterwards.
func (r *resolver) errorAt(tok syntax.Token, msg string) {
	err := syntax.ErrorAt(tok, msg)

	if r.errors == 0 {
		r.first = err
	}
	r.errors++

	if r.conf.Error != nil {
		r.conf.Error(err)
	}
}
