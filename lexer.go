// lexer.go — byte-wise scanner producing the token stream the parser
// consumes. The stream always ends in an EOF token so single-token
// lookahead never runs off the end.
package spwn

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	INT
	FLOAT
	STRING
	IDENT
	TRUE
	FALSE

	// Punctuation
	LPAREN     // "("
	RPAREN     // ")"
	LSQBRACKET // "["
	RSQBRACKET // "]"
	LBRACKET   // "{"
	RBRACKET   // "}"
	COMMA      // ","
	EOL        // ";"

	// Keywords
	LET
	IF
	ELSE
	WHILE
	FOR
	IN

	// Operators
	ASSIGN // "="
	PLUS
	MINUS
	MULT
	DIV
	MOD
	POW       // "^"
	EQ        // "=="
	NOTEQ     // "!="
	GREATER   // ">"
	GREATEREQ // ">="
	LESSER    // "<"
	LESSEREQ  // "<="
	EXCLMARK  // "!"
)

// Token is a lexical token with optional literal value and byte span.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // parsed value for INT/FLOAT/STRING
	Span    Span
}

// Name returns the display form of the token, used in diagnostics.
func (t Token) Name() string {
	if t.Type == EOF {
		return "end of file"
	}
	return t.Lexeme
}

// TypeName returns the token class, used in diagnostics
// ("Expected `)`, found <class> `<name>`").
func (t Token) TypeName() string {
	switch t.Type {
	case INT:
		return "int literal"
	case FLOAT:
		return "float literal"
	case STRING:
		return "string literal"
	case IDENT:
		return "identifier"
	case TRUE, FALSE, LET, IF, ELSE, WHILE, FOR, IN:
		return "keyword"
	case EOF:
		return "end of file"
	default:
		return "symbol"
	}
}

// keywords map
var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"let":   LET,
	"if":    IF,
	"else":  ELSE,
	"while": WHILE,
	"for":   FOR,
	"in":    IN,
}

// Lexer scans a source string into tokens.
type Lexer struct {
	source *Source
	src    string
	start  int // start index of current token
	cur    int // current index
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source *Source) *Lexer {
	return &Lexer{source: source, src: source.Text}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit any) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Span:    Span{Start: l.start, End: l.cur},
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) area(start, end int) CodeArea {
	return l.source.Area(Span{Start: start, End: end})
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

// ----- scanners -----

// scanString parses a quoted string literal (single or double quotes).
// The opening quote has already been consumed.
func (l *Lexer) scanString(del byte) (string, error) {
	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out), nil
		}
		if ch == '\\' {
			if l.isAtEnd() {
				break
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			default:
				return "", &InvalidEscapeError{
					Character: rune(esc),
					Area:      l.area(l.cur-2, l.cur),
				}
			}
			continue
		}
		out = append(out, ch)
	}
	return "", &UnmatchedCharError{
		ForChar:  string(del),
		NotFound: string(del),
		Area:     l.area(l.start, l.start+1),
	}
}

// scanNumber parses an integer or float starting at l.start.
func (l *Lexer) scanNumber() (TokenType, any, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	isFloat := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			isFloat = true
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	if !isFloat {
		v, err := strconv.ParseInt(lex, 10, 64)
		if err != nil {
			return EOF, nil, &ExpectedError{
				Expected: "integer literal",
				Typ:      "int literal",
				Found:    lex,
				Area:     l.area(l.start, l.cur),
			}
		}
		return INT, v, nil
	}
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return EOF, nil, &ExpectedError{
			Expected: "float literal",
			Typ:      "float literal",
			Found:    lex,
			Area:     l.area(l.start, l.cur),
		}
	}
	return FLOAT, v, nil
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// skipComment handles "//" line comments and "/* */" block comments.
// Returns true if a comment was consumed.
func (l *Lexer) skipComment() (bool, error) {
	b, ok := l.peek()
	if !ok || b != '/' {
		return false, nil
	}
	b2, ok2 := l.peekN(1)
	if !ok2 {
		return false, nil
	}
	switch b2 {
	case '/':
		for {
			b, ok := l.peek()
			if !ok || b == '\n' {
				break
			}
			l.advance()
		}
		l.start = l.cur
		return true, nil
	case '*':
		open := l.cur
		l.advance()
		l.advance()
		for {
			b, ok := l.peek()
			if !ok {
				return false, &UnmatchedCharError{
					ForChar:  "/*",
					NotFound: "*/",
					Area:     l.area(open, open+2),
				}
			}
			if b == '*' {
				if b3, ok3 := l.peekN(1); ok3 && b3 == '/' {
					l.advance()
					l.advance()
					break
				}
			}
			l.advance()
		}
		l.start = l.cur
		return true, nil
	}
	return false, nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		if skipped, err := l.skipComment(); err != nil {
			return Token{}, err
		} else if skipped {
			continue
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(LPAREN, nil), nil
		case ')':
			return l.addToken(RPAREN, nil), nil
		case '[':
			return l.addToken(LSQBRACKET, nil), nil
		case ']':
			return l.addToken(RSQBRACKET, nil), nil
		case '{':
			return l.addToken(LBRACKET, nil), nil
		case '}':
			return l.addToken(RBRACKET, nil), nil
		case ',':
			return l.addToken(COMMA, nil), nil
		case ';':
			return l.addToken(EOL, nil), nil
		case '+':
			return l.addToken(PLUS, nil), nil
		case '-':
			return l.addToken(MINUS, nil), nil
		case '*':
			return l.addToken(MULT, nil), nil
		case '/':
			return l.addToken(DIV, nil), nil
		case '%':
			return l.addToken(MOD, nil), nil
		case '^':
			return l.addToken(POW, nil), nil
		case '=':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(EQ, nil), nil
			}
			return l.addToken(ASSIGN, nil), nil
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(NOTEQ, nil), nil
			}
			return l.addToken(EXCLMARK, nil), nil
		case '>':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(GREATEREQ, nil), nil
			}
			return l.addToken(GREATER, nil), nil
		case '<':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(LESSEREQ, nil), nil
			}
			return l.addToken(LESSER, nil), nil
		}

		if ch == '"' || ch == '\'' {
			text, err := l.scanString(ch)
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, text), nil
		}

		if isDigit(ch) {
			tt, lit, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(tt, lit), nil
		}

		if isAlpha(ch) {
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				return l.addToken(tt, nil), nil
			}
			return l.addToken(IDENT, lex), nil
		}

		return Token{}, &ExpectedError{
			Expected: "token",
			Typ:      "character",
			Found:    string(ch),
			Area:     l.area(l.start, l.cur),
		}
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
