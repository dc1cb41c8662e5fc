// runtime.go — the lex → parse → compile → execute pipeline in one
// call, shared by the CLI and the end-to-end tests.
package spwn

// Version of the language implementation.
const Version = "0.1.0"

// Run executes source text against the given Globals and returns the
// residual operand stack. Diagnostics from any stage come back as this
// package's error types, ready for FormatErrorWithSource.
func Run(g *Globals, source *Source) ([]ValueKey, error) {
	code, err := CompileSource(source)
	if err != nil {
		return nil, err
	}
	return Execute(g, code, 0)
}

// CompileSource lexes, parses and compiles source text.
func CompileSource(source *Source) (*Code, error) {
	tokens, err := NewLexer(source).Scan()
	if err != nil {
		return nil, err
	}
	data := NewASTData()
	stmts, err := Parse(&ParseData{Tokens: tokens, Source: source}, data)
	if err != nil {
		return nil, err
	}
	return Compile(data, stmts)
}
