package syntax

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// Scanner performs lexical analysis on Lox source code.
//
// Scanning never stops early: unexpected characters and unterminated
// strings are reported through the error handler and skipped, and the
// scanner always ends with an EOF token.
type Scanner struct {
	source

	errh   ErrorHandler
	errcnt int
}

// NewScanner creates a Scanner reading src. errh may be nil.
func NewScanner(filename string, src io.Reader, errh ErrorHandler) *Scanner {
	s := &Scanner{errh: errh}
	s.source = *newSource(filename, src, s.report)
	return s
}

// report forwards a character-level error to the handler.
func (s *Scanner) report(line, col int, msg string) {
	s.errcnt++
	if s.errh != nil {
		s.errh(&Error{Pos: NewPos(s.filename, line, col), Msg: msg})
	}
}

// Errors returns the number of lexical errors reported so far.
func (s *Scanner) Errors() int {
	return s.errcnt
}

// ScanAll scans src to completion and returns every token, EOF included.
func ScanAll(filename string, src io.Reader, errh ErrorHandler) []Token {
	s := NewScanner(filename, src, errh)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

// Next scans and returns the next token. After the end of input it keeps
// returning EOF.
func (s *Scanner) Next() Token {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	pos, start := s.pos(), s.start
	tok := Token{Pos: pos}

	switch {
	case s.ch < 0:
		tok.Kind = EOF
		return tok

	case isLetter(s.ch):
		s.scanIdent()
		tok.Lexeme = s.segment(start)
		tok.Kind = LookupKeyword(tok.Lexeme)
		return tok

	case isDigit(s.ch):
		s.scanNumber()
		tok.Kind = Number
		tok.Lexeme = s.segment(start)
		// Digits and at most one '.' always parse.
		tok.Literal, _ = strconv.ParseFloat(tok.Lexeme, 64)
		return tok

	case s.ch == '"':
		lit, ok := s.scanString()
		if !ok {
			goto redo
		}
		tok.Kind = String
		tok.Lexeme = s.segment(start)
		tok.Literal = lit
		return tok
	}

	kind, ok := s.scanOperator()
	if !ok {
		goto redo
	}
	tok.Kind = kind
	tok.Lexeme = s.segment(start)
	return tok
}

// scanIdent consumes an identifier or keyword.
func (s *Scanner) scanIdent() {
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
}

// scanNumber consumes digits with an optional fractional part.
// A '.' belongs to the number only when a digit follows it, so "1.foo"
// scans as 1 . foo.
func (s *Scanner) scanNumber() {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.nextch()
		for isDigit(s.ch) {
			s.nextch()
		}
	}
}

// scanString consumes a string literal and returns its contents.
// Strings may span lines and have no escape sequences.
func (s *Scanner) scanString() (string, bool) {
	s.nextch() // opening "
	from := s.start
	for s.ch != '"' {
		if s.ch < 0 {
			s.error("Unterminated string.")
			return "", false
		}
		s.nextch()
	}
	lit := s.segment(from)
	s.nextch() // closing "
	return lit, true
}

// scanOperator consumes an operator or delimiter. It reports false when
// the character was skipped: a comment or an unexpected character.
func (s *Scanner) scanOperator() (Kind, bool) {
	ch := s.ch
	badByte := ch == utf8.RuneError && s.offs-s.start == 1 // already reported by nextch
	s.nextch()

	switch ch {
	case '(':
		return LeftParen, true
	case ')':
		return RightParen, true
	case '{':
		return LeftBrace, true
	case '}':
		return RightBrace, true
	case ',':
		return Comma, true
	case '.':
		return Dot, true
	case '-':
		return Minus, true
	case '+':
		return Plus, true
	case ';':
		return Semicolon, true
	case '*':
		return Star, true
	case '!':
		return s.either('=', BangEqual, Bang), true
	case '=':
		return s.either('=', EqualEqual, Equal), true
	case '<':
		return s.either('=', LessEqual, Less), true
	case '>':
		return s.either('=', GreaterEqual, Greater), true
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return 0, false
		}
		return Slash, true
	}

	if !badByte {
		s.report(s.line, s.col-1, fmt.Sprintf("Unexpected character %q.", ch))
	}
	return 0, false
}

// either consumes next and returns two when the current character is
// next, and returns one otherwise.
func (s *Scanner) either(next rune, two, one Kind) Kind {
	if s.ch == next {
		s.nextch()
		return two
	}
	return one
}

// skipLineComment skips to the end of the line. The newline itself is
// left for the whitespace loop.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
