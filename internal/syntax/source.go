package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole input is read into memory up front; lexemes are slices of it.
type source struct {
	buf      []byte
	filename string

	line, col int // position of ch (1-based)

	ch    rune // current character, -1 at EOF
	start int  // byte offset of ch
	offs  int  // byte offset just past ch

	errh func(line, col int, msg string)
}

// newSource reads src fully and positions the reader on its first character.
// errh is called for read and encoding errors; it may be nil.
func newSource(filename string, src io.Reader, errh func(line, col int, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0, // incremented to 1 by the first nextch
		ch:       -1,
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source: " + err.Error())
		s.buf = nil
	}

	s.nextch()
	return s
}

// nextch advances to the next character. Sets ch to -1 at EOF.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.start = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}
	s.ch = r
	s.offs += width
}

// peek returns the character after ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// segment returns the source text from byte offset from up to, but not
// including, the current character.
func (s *source) segment(from int) string {
	return string(s.buf[from:s.start])
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is skipped between tokens.
// Unlike Go, Lox has no semicolon insertion, so newlines are whitespace too.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
