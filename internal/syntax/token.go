// Package syntax implements lexical and syntactic analysis for the Lox language.
package syntax

import "fmt"

// Kind is the lexical category of a token.
type Kind uint8

const (
	// Special tokens
	EOF Kind = iota // end of input

	// Single-character tokens
	LeftParen  // (
	RightParen // )
	LeftBrace  // {
	RightBrace // }
	Comma      // ,
	Dot        // .
	Minus      // -
	Plus       // +
	Semicolon  // ;
	Slash      // /
	Star       // *

	// One or two character tokens
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Literals
	Identifier // foo, Bar, _baz
	String     // "text"
	Number     // 12, 3.25

	// Keywords
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	kindCount
)

var kindNames = [...]string{
	EOF: "EOF",

	LeftParen:  "(",
	RightParen: ")",
	LeftBrace:  "{",
	RightBrace: "}",
	Comma:      ",",
	Dot:        ".",
	Minus:      "-",
	Plus:       "+",
	Semicolon:  ";",
	Slash:      "/",
	Star:       "*",

	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",

	Identifier: "IDENT",
	String:     "STRING",
	Number:     "NUMBER",

	And:    "and",
	Class:  "class",
	Else:   "else",
	False:  "false",
	For:    "for",
	Fun:    "fun",
	If:     "if",
	Nil:    "nil",
	Or:     "or",
	Print:  "print",
	Return: "return",
	Super:  "super",
	This:   "this",
	True:   "true",
	Var:    "var",
	While:  "while",
}

// String returns the spelling of operators and keywords, or the
// category name for identifiers and literals.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}

// IsLiteral reports whether k carries a literal payload.
func (k Kind) IsLiteral() bool {
	return k == String || k == Number
}

// startsStatement reports whether k begins a declaration or statement.
// The parser resynchronizes on these after an error.
func (k Kind) startsStatement() bool {
	switch k {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	}
	return false
}

// keywords maps reserved words to their token kind.
// true, false and nil are keywords in Lox, unlike Go's predeclared names.
var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupKeyword returns the keyword kind for ident, or Identifier.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// Token is a single lexical token. Tokens are immutable once scanned.
type Token struct {
	Kind    Kind
	Lexeme  string      // source text the token was scanned from
	Literal interface{} // float64 for Number, string for String, nil otherwise
	Pos     Pos
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int {
	return t.Pos.Line()
}

// String formats the token the way -emit-tokens prints it.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Kind, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
}
