// Command safecpp checks a C++ source file for array bounds violations and
// memory lifecycle defects.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/tinyrange/safecpp/internal/analyzer"
	"github.com/tinyrange/safecpp/internal/config"
	"github.com/tinyrange/safecpp/internal/lexer"
	"github.com/tinyrange/safecpp/internal/parser"
	"github.com/tinyrange/safecpp/internal/report"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// errFindings makes the process exit 1 after a report was written.
var errFindings = cli.Exit("", 1)

func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return ec.ExitCode()
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "safecpp"
	app.Usage = "Find array bounds and memory lifecycle defects in C++ source"
	app.ArgsUsage = "<input_file>"
	app.HideHelpCommand = true
	app.Writer = stdout
	app.ErrWriter = stderr
	// exit codes are derived in run instead of calling os.Exit
	app.ExitErrHandler = func(*cli.Context, error) {}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load settings from a YAML file",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format: text, json or sarif",
		},
		&cli.StringFlag{
			Name:  "checkers",
			Usage: "Comma separated checkers to run (bounds, memory, pointer or all)",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "Maximum nesting depth accepted by the parser and checkers",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Print every diagnostic instead of only the first",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Never color text output",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug information to stderr",
		},
		&cli.BoolFlag{
			Name:  "tokens",
			Usage: "Print the token stream of the input and exit",
		},
	}

	app.Action = func(c *cli.Context) error {
		return action(c, stdout, stderr)
	}

	return app
}

func action(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("Usage: %s [options] <input_file>", c.App.Name), 1)
	}
	path := c.Args().First()

	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if c.Bool("tokens") {
		return dumpTokens(stdout, string(src))
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	logger.Debug("configuration", slog.Any("config", cfg))

	f, err := parser.ParseFile(filepath.Base(path), string(src), parser.WithMaxDepth(cfg.Check.MaxDepth))
	if err != nil {
		return err
	}

	list, err := analyzer.Run(context.Background(), f,
		analyzer.WithConfig(cfg),
		analyzer.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, d := range list {
		logger.Debug("diagnostic", slog.Any("diagnostic", d))
	}

	// text findings are error output; the clean message and encoded
	// reports are results
	out := stdout
	if cfg.Format == config.FormatText && !list.OK() {
		out = stderr
	}
	w, err := report.For(cfg.Format, report.Settings{
		All:   c.Bool("all"),
		Color: !c.Bool("no-color") && isTerminal(out),
	})
	if err != nil {
		return err
	}
	if err := w.Write(out, report.Report{File: path, Diagnostics: list}); err != nil {
		return err
	}
	if !list.OK() {
		return errFindings
	}

	return nil
}

// resolveConfig layers the config file and then the flags over the defaults.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet("format") {
		format, err := config.ParseFormat(c.String("format"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.Format = format
	}
	if c.IsSet("checkers") {
		checkers, err := config.ParseCheckers(c.String("checkers"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.Checkers = checkers
	}
	if c.IsSet("max-depth") {
		cfg.Check.MaxDepth = c.Int("max-depth")
	}

	return cfg, nil
}

func dumpTokens(w io.Writer, src string) error {
	for _, t := range lexer.New(src).Tokens() {
		if _, err := fmt.Fprintf(w, "%d:%d\t%v\t%q\n", t.Line, t.Col, t.Type, t.Lex); err != nil {
			return err
		}
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
