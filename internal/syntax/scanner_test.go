package syntax

import (
	"strings"
	"testing"
)

func scanKinds(t *testing.T, src string) ([]Token, []*Error) {
	t.Helper()
	var errs ErrorList
	toks := ScanAll("test.lox", strings.NewReader(src), errs.Add)
	return toks, errs
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kinds  []Kind
		lexems []string
	}{
		{"empty", "", []Kind{EOF}, []string{""}},
		{"ident", "foo", []Kind{Identifier, EOF}, []string{"foo", ""}},
		{"ident_underscore", "_bar9", []Kind{Identifier, EOF}, []string{"_bar9", ""}},
		{"keyword_prefix", "orchid", []Kind{Identifier, EOF}, []string{"orchid", ""}},
		{"keywords", "and class else false for fun if nil or print return super this true var while",
			[]Kind{And, Class, Else, False, For, Fun, If, Nil, Or, Print, Return, Super, This, True, Var, While, EOF},
			nil},

		{"integer", "123", []Kind{Number, EOF}, []string{"123", ""}},
		{"decimal", "3.25", []Kind{Number, EOF}, []string{"3.25", ""}},
		{"trailing_dot", "3.", []Kind{Number, Dot, EOF}, []string{"3", ".", ""}},
		{"leading_dot", ".5", []Kind{Dot, Number, EOF}, []string{".", "5", ""}},
		{"method_on_number", "1.foo", []Kind{Number, Dot, Identifier, EOF}, []string{"1", ".", "foo", ""}},

		{"string", `"hi there"`, []Kind{String, EOF}, []string{`"hi there"`, ""}},
		{"string_empty", `""`, []Kind{String, EOF}, []string{`""`, ""}},

		{"single_char", "(){},.-+;/*",
			[]Kind{LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Minus, Plus, Semicolon, Slash, Star, EOF},
			nil},
		{"maximal_munch", "! != = == < <= > >=",
			[]Kind{Bang, BangEqual, Equal, EqualEqual, Less, LessEqual, Greater, GreaterEqual, EOF},
			[]string{"!", "!=", "=", "==", "<", "<=", ">", ">=", ""}},
		{"no_space_ops", "a<=b", []Kind{Identifier, LessEqual, Identifier, EOF}, nil},
		{"triple_equal", "===", []Kind{EqualEqual, Equal, EOF}, nil},

		{"comment", "// nothing here", []Kind{EOF}, nil},
		{"comment_then_code", "// c\nprint 1;", []Kind{Print, Number, Semicolon, EOF}, nil},
		{"slash_not_comment", "a / b", []Kind{Identifier, Slash, Identifier, EOF}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, errs := scanKinds(t, tt.src)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(tt.kinds))
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] {
					t.Errorf("token %d: kind = %v, want %v", i, tok.Kind, tt.kinds[i])
				}
				if tt.lexems != nil && tok.Lexeme != tt.lexems[i] {
					t.Errorf("token %d: lexeme = %q, want %q", i, tok.Lexeme, tt.lexems[i])
				}
			}
		})
	}
}

func TestScanLiterals(t *testing.T) {
	toks, errs := scanKinds(t, `12 0.5 "abc" x`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Literal != 12.0 {
		t.Errorf("12 literal = %#v, want 12.0", toks[0].Literal)
	}
	if toks[1].Literal != 0.5 {
		t.Errorf("0.5 literal = %#v, want 0.5", toks[1].Literal)
	}
	if toks[2].Literal != "abc" {
		t.Errorf("string literal = %#v, want \"abc\"", toks[2].Literal)
	}
	if toks[3].Literal != nil {
		t.Errorf("identifier literal = %#v, want nil", toks[3].Literal)
	}
}

func TestScanPositions(t *testing.T) {
	toks, _ := scanKinds(t, "var a = 1;\n  print a;")
	want := []struct{ line, col int }{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {1, 10},
		{2, 3}, {2, 9}, {2, 10},
	}
	for i, w := range want {
		if toks[i].Line() != w.line || toks[i].Pos.Col() != w.col {
			t.Errorf("token %d (%v): pos = %v, want %d:%d", i, toks[i], toks[i].Pos, w.line, w.col)
		}
	}
}

func TestScanMultilineString(t *testing.T) {
	toks, errs := scanKinds(t, "\"one\ntwo\"\nx")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Literal != "one\ntwo" {
		t.Errorf("literal = %q, want %q", toks[0].Literal, "one\ntwo")
	}
	if toks[1].Line() != 3 {
		t.Errorf("identifier after string on line %d, want 3", toks[1].Line())
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kinds   []Kind
		wantErr []string
	}{
		{
			"unexpected_char",
			"a @ b",
			[]Kind{Identifier, Identifier, EOF},
			[]string{"[line 1] Error: Unexpected character '@'."},
		},
		{
			"several_unexpected",
			"#\n$ 1",
			[]Kind{Number, EOF},
			[]string{"Unexpected character '#'.", "Unexpected character '$'."},
		},
		{
			"unterminated_string",
			"print \"abc",
			[]Kind{Print, EOF},
			[]string{"Unterminated string."},
		},
		{
			"scan_continues_after_error",
			"1 ~ 2 ~ 3",
			[]Kind{Number, Number, Number, EOF},
			[]string{"Unexpected character '~'.", "Unexpected character '~'."},
		},
		{
			"invalid_utf8_reported_once",
			"print \xff;",
			[]Kind{Print, Semicolon, EOF},
			[]string{"[line 1] Error: invalid UTF-8 encoding"},
		},
		{
			"replacement_char_is_unexpected",
			"a � b",
			[]Kind{Identifier, Identifier, EOF},
			[]string{"Unexpected character '�'."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, errs := scanKinds(t, tt.src)
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got tokens %v, want kinds %v", toks, tt.kinds)
			}
			for i := range toks {
				if toks[i].Kind != tt.kinds[i] {
					t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, tt.kinds[i])
				}
			}
			if len(errs) != len(tt.wantErr) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantErr))
			}
			for i, want := range tt.wantErr {
				if !strings.Contains(errs[i].Error(), want) {
					t.Errorf("error %d = %q, want it to contain %q", i, errs[i].Error(), want)
				}
			}
		})
	}
}

func TestScannerErrorCount(t *testing.T) {
	s := NewScanner("t", strings.NewReader("@ @"), nil)
	for s.Next().Kind != EOF {
	}
	if s.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", s.Errors())
	}
	// EOF is sticky.
	if s.Next().Kind != EOF {
		t.Error("Next after EOF did not return EOF")
	}
}
