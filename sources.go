// sources.go — source handles, byte spans and code areas.
//
// Every token, AST node, instruction and heap value carries a CodeArea:
// a (source, byte span) pair pointing back into the text that produced
// it. Areas never own source text; they index into it through a shared
// *Source. Line/column coordinates are derived on demand by the
// diagnostic renderer (errors.go).
package spwn

import "strings"

// Source is one unit of input text (a file or a REPL line).
type Source struct {
	Name string
	Text string
}

// NewSource wraps a named source text.
func NewSource(name, text string) *Source {
	return &Source{Name: name, Text: text}
}

// Span is a byte range [Start, End) into a Source's text.
type Span struct {
	Start int
	End   int
}

// Extend returns the span covering both s and o.
func (s Span) Extend(o Span) Span {
	out := s
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// CodeArea is an immutable (source, span) pair used for diagnostics.
type CodeArea struct {
	Source *Source
	Span   Span
}

// Area builds a CodeArea for a span of this source.
func (s *Source) Area(sp Span) CodeArea {
	return CodeArea{Source: s, Span: sp}
}

// LineCol converts a byte offset into 1-based line/column coordinates.
func (s *Source) LineCol(byteOff int) (line, col int) {
	if byteOff < 0 {
		byteOff = 0
	}
	if byteOff > len(s.Text) {
		byteOff = len(s.Text)
	}
	prefix := s.Text[:byteOff]
	line = 1 + strings.Count(prefix, "\n")
	lastNL := strings.LastIndex(prefix, "\n")
	if lastNL < 0 {
		return line, byteOff + 1
	}
	return line, byteOff - lastNL
}

// Snippet returns the raw text the area covers.
func (a CodeArea) Snippet() string {
	if a.Source == nil {
		return ""
	}
	start, end := a.Span.Start, a.Span.End
	if start < 0 {
		start = 0
	}
	if end > len(a.Source.Text) {
		end = len(a.Source.Text)
	}
	if start >= end {
		return ""
	}
	return a.Source.Text[start:end]
}
