package syntax

import "testing"

func TestPos(t *testing.T) {
	tests := []struct {
		name  string
		pos   Pos
		str   string
		valid bool
	}{
		{"script", NewPos("fib.lox", 12, 3), "fib.lox:12:3", true},
		{"prompt", NewPos("<stdin>", 1, 7), "<stdin>:1:7", true},
		{"unnamed", NewPos("", 4, 1), "4:1", true},
		{"zero", Pos{}, "0:0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.pos.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

// Diagnostics and runtime errors only show the line, so it must survive
// from the scanner through the token.
func TestPosLineReachesDiagnostics(t *testing.T) {
	tok := Token{Kind: Identifier, Lexeme: "x", Pos: NewPos("t.lox", 9, 5)}
	if tok.Line() != 9 || tok.Pos.Col() != 5 || tok.Pos.Filename() != "t.lox" {
		t.Errorf("token position = %v", tok.Pos)
	}

	err := ErrorAt(tok, "Boom.")
	if got, want := err.Error(), "[line 9] Error at 'x': Boom."; got != want {
		t.Errorf("ErrorAt = %q, want %q", got, want)
	}
}
