// lexer_test.go
package spwn

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(NewSource("test", src)).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func scanErr(t *testing.T, src string) error {
	t.Helper()
	_, err := NewLexer(NewSource("test", src)).Scan()
	if err == nil {
		t.Fatalf("want scan error for %q, got none", src)
	}
	return err
}

func Test_Lexer_Declaration(t *testing.T) {
	got := wantTypes(t, `let x = 10;`, []TokenType{LET, IDENT, ASSIGN, INT, EOL})
	if got[1].Literal.(string) != "x" {
		t.Fatalf("identifier literal: %v", got[1].Literal)
	}
	if got[3].Literal.(int64) != 10 {
		t.Fatalf("int literal: %v", got[3].Literal)
	}
}

func Test_Lexer_Operators(t *testing.T) {
	wantTypes(t, `+ - * / % ^ = == != > >= < <= !`, []TokenType{
		PLUS, MINUS, MULT, DIV, MOD, POW, ASSIGN,
		EQ, NOTEQ, GREATER, GREATEREQ, LESSER, LESSEREQ, EXCLMARK,
	})
}

func Test_Lexer_Brackets(t *testing.T) {
	wantTypes(t, `( ) [ ] { } , ;`, []TokenType{
		LPAREN, RPAREN, LSQBRACKET, RSQBRACKET, LBRACKET, RBRACKET, COMMA, EOL,
	})
}

func Test_Lexer_Keywords(t *testing.T) {
	wantTypes(t, `let if else while for in true false lettuce`, []TokenType{
		LET, IF, ELSE, WHILE, FOR, IN, TRUE, FALSE, IDENT,
	})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, `1 23 4.5 6.25`, []TokenType{INT, INT, FLOAT, FLOAT})
	if got[2].Literal.(float64) != 4.5 {
		t.Fatalf("float literal: %v", got[2].Literal)
	}
	if got[3].Literal.(float64) != 6.25 {
		t.Fatalf("float literal: %v", got[3].Literal)
	}
}

// A dot is only part of a float when a digit follows it; a stray one
// is no token at all.
func Test_Lexer_StrayDot(t *testing.T) {
	err := scanErr(t, `7.x`)
	var exp *ExpectedError
	if !errors.As(err, &exp) {
		t.Fatalf("want ExpectedError for the stray dot, got %T: %v", err, err)
	}
	if exp.Found != "." {
		t.Fatalf("Found: %q", exp.Found)
	}
}

func Test_Lexer_Strings(t *testing.T) {
	got := wantTypes(t, `"hello" 'world'`, []TokenType{STRING, STRING})
	if got[0].Literal.(string) != "hello" || got[1].Literal.(string) != "world" {
		t.Fatalf("string literals: %v, %v", got[0].Literal, got[1].Literal)
	}
}

func Test_Lexer_StringEscapes(t *testing.T) {
	got := wantTypes(t, `"a\n\t\r\\\"\'"`, []TokenType{STRING})
	want := "a\n\t\r\\\"'"
	if got[0].Literal.(string) != want {
		t.Fatalf("escaped string: %q, want %q", got[0].Literal, want)
	}
}

func Test_Lexer_InvalidEscape(t *testing.T) {
	err := scanErr(t, `"a\q"`)
	var esc *InvalidEscapeError
	if !errors.As(err, &esc) {
		t.Fatalf("want InvalidEscapeError, got %T: %v", err, err)
	}
	if esc.Character != 'q' {
		t.Fatalf("escape character: %q", esc.Character)
	}
}

func Test_Lexer_UnterminatedString(t *testing.T) {
	err := scanErr(t, `"never closed`)
	var un *UnmatchedCharError
	if !errors.As(err, &un) {
		t.Fatalf("want UnmatchedCharError, got %T: %v", err, err)
	}
	if un.NotFound != `"` {
		t.Fatalf("NotFound: %q", un.NotFound)
	}
}

func Test_Lexer_LineComment(t *testing.T) {
	wantTypes(t, "1 // the rest is gone\n2", []TokenType{INT, INT})
}

func Test_Lexer_BlockComment(t *testing.T) {
	wantTypes(t, "1 /* a\nb\nc */ 2", []TokenType{INT, INT})
}

func Test_Lexer_UnterminatedBlockComment(t *testing.T) {
	err := scanErr(t, "1 /* never")
	var un *UnmatchedCharError
	if !errors.As(err, &un) {
		t.Fatalf("want UnmatchedCharError, got %T: %v", err, err)
	}
	if un.ForChar != "/*" || un.NotFound != "*/" {
		t.Fatalf("ForChar %q NotFound %q", un.ForChar, un.NotFound)
	}
}

func Test_Lexer_UnknownCharacter(t *testing.T) {
	err := scanErr(t, `let x = @`)
	var exp *ExpectedError
	if !errors.As(err, &exp) {
		t.Fatalf("want ExpectedError, got %T: %v", err, err)
	}
	if exp.Found != "@" {
		t.Fatalf("Found: %q", exp.Found)
	}
}

func Test_Lexer_Spans(t *testing.T) {
	got := toks(t, `let abc = 12`)
	want := []Span{{0, 3}, {4, 7}, {8, 9}, {10, 12}, {12, 12}}
	for i, tok := range got {
		if tok.Span != want[i] {
			t.Fatalf("token %d span %v, want %v", i, tok.Span, want[i])
		}
	}
}

func Test_Lexer_EOFAlwaysLast(t *testing.T) {
	for _, src := range []string{"", "   ", "// only a comment", "1 + 2"} {
		got := toks(t, src)
		if len(got) == 0 || got[len(got)-1].Type != EOF {
			t.Fatalf("stream for %q does not end in EOF: %v", src, got)
		}
	}
}
