package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	spwn "github.com/RealSput/SPWN-language"
)

const (
	appName     = "spwn"
	historyFile = ".spwn_history"
	promptMain  = "spwn> "
	promptCont  = "  ... "
)

var banner = fmt.Sprintf("SPWN %s REPL\nCtrl+C cancels input, Ctrl+D exits.", spwn.Version)

var (
	flagDebug   = flag.Bool("debug", false, "dump the AST arena and bytecode before running")
	flagNoColor = flag.Bool("no-color", false, "disable ANSI colors")
	flagVersion = flag.Bool("version", false, "print version and exit")
)

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    color.NoColor,
	}))
}

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("%s %s\n", appName, spwn.Version)
		return
	}
	if *flagNoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	logger := newLogger(*flagDebug)

	if flag.NArg() > 0 {
		if err := runFile(logger, flag.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, spwn.FormatErrorWithSource(err))
			os.Exit(1)
		}
		return
	}
	repl(logger)
}

func runFile(logger *slog.Logger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	source := spwn.NewSource(filepath.Base(path), string(data))

	tokens, err := spwn.NewLexer(source).Scan()
	if err != nil {
		return err
	}
	astData := spwn.NewASTData()
	stmts, err := spwn.Parse(&spwn.ParseData{Tokens: tokens, Source: source}, astData)
	if err != nil {
		return err
	}
	if *flagDebug {
		fmt.Fprint(os.Stderr, astData.Dump(stmts))
	}

	code, err := spwn.Compile(astData, stmts)
	if err != nil {
		return err
	}
	if *flagDebug {
		logger.Debug("compiled", "instructions", len(code.Funcs[0]), "constants", len(code.Constants), "vars", code.VarCount)
		fmt.Fprint(os.Stderr, code.Disassemble(0))
	}

	g := spwn.NewGlobals()
	stack, err := spwn.Execute(g, code, 0)
	if err != nil {
		return err
	}
	if *flagDebug {
		parts := make([]string, 0, len(stack))
		for _, k := range stack {
			parts = append(parts, g.Get(k).Value.ToStr())
		}
		logger.Debug("final stack", "values", strings.Join(parts, ", "))
	}
	return nil
}

// incomplete reports whether a parse error means "more input could
// still complete this program", so the REPL shows the continuation
// prompt instead of a diagnostic.
func incomplete(err error) bool {
	var exp *spwn.ExpectedError
	return errors.As(err, &exp) && exp.Typ == "end of file"
}

func repl(logger *slog.Logger) {
	fmt.Println(banner)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	valColor := color.New(color.FgBlue)
	buf := ""
	for {
		prompt := promptMain
		if buf != "" {
			prompt = promptCont
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buf = ""
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return
			}
			logger.Error("read error", "err", err)
			return
		}

		if buf != "" {
			buf += "\n"
		}
		buf += input
		if strings.TrimSpace(buf) == "" {
			buf = ""
			continue
		}

		source := spwn.NewSource("<repl>", buf)
		g := spwn.NewGlobals()
		stack, err := spwn.Run(g, source)
		if err != nil {
			if incomplete(err) {
				continue
			}
			fmt.Fprintln(os.Stderr, spwn.FormatErrorWithSource(err))
			line.AppendHistory(buf)
			buf = ""
			continue
		}
		line.AppendHistory(buf)
		buf = ""
		for _, k := range stack {
			valColor.Println(g.Get(k).Value.ToStr())
		}
	}
}
