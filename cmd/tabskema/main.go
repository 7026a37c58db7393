package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"

	tabskema "github.com/reoring/tabskema"
	"github.com/reoring/tabskema/i18n"
	"github.com/reoring/tabskema/internal/config"
	"github.com/reoring/tabskema/internal/logging"
	"github.com/reoring/tabskema/report"
	"github.com/reoring/tabskema/schema"
	"github.com/reoring/tabskema/tableio"
)

// Exit codes.
const (
	exitOK     = 0
	exitIssues = 1
	exitUsage  = 2
)

// version is set with -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "validate", "convert":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "tabskema: %v\n", err)
			return exitUsage
		}
		if args[0] == "convert" {
			return convertCmd(cfg, args[1:], stdin, stdout, stderr)
		}
		return validateCmd(ctx, cfg, args[1:], stdin, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, versionString())
		return exitOK
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "tabskema CLI\n\nUsage:\n  tabskema validate -rules rules.yaml [-format text|json] [-delim ,] [-lang en|ja] [-summary] [-v] data.csv\n  tabskema convert -to csv|json [-delim ,] data.csv\n  tabskema version\n\nNotes:\n  - Tables ending in .json or .yaml/.yml are read as documents; anything else is CSV. Use - for stdin.\n  - Defaults come from TABSKEMA_* environment variables and an optional .env file.\n  - validate exits 1 when issues are found and 2 on usage or setup errors.")
}

func validateCmd(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var rulesPath string
	var summary, verbose bool
	fs.StringVar(&rulesPath, "rules", "", "rule document (.yaml, .yml or .json)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "report format: text or json")
	fs.StringVar(&cfg.Delimiter, "delim", cfg.Delimiter, "CSV field delimiter")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "message language: en or ja")
	fs.BoolVar(&summary, "summary", false, "print a summary line after a text report")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if rulesPath == "" || fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}

	var logOpts []logging.Option
	logOpts = append(logOpts, logging.WithOutput(stderr))
	if verbose {
		logOpts = append(logOpts, logging.WithLevel(slog.LevelDebug))
	}
	logger := cfg.Logger(logOpts...)

	doc, err := schema.LoadFile(rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "validate: rules: %v\n", err)
		return exitUsage
	}
	path := fs.Arg(0)
	table, err := readTable(path, cfg.Comma(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	logger.Debug("table loaded", "path", path, "rows", table.DataLen(), "columns", len(table.Header()))

	v, err := doc.NewValidator(table,
		tabskema.WithLogger(logger),
		tabskema.WithTranslator(i18n.ForLanguage(cfg.Lang)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	iss, err := v.Validate(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}

	sum := report.Summarize(iss, table.DataLen())
	switch cfg.Format {
	case "json":
		err = report.WriteJSON(stdout, iss, sum)
	default:
		err = report.WriteText(stdout, iss)
		if err == nil && summary {
			err = report.WriteSummary(stdout, sum)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return exitUsage
	}
	if !sum.Clean() {
		return exitIssues
	}
	return exitOK
}

func convertCmd(cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var to string
	fs.StringVar(&to, "to", "json", "output format: csv or json")
	fs.StringVar(&cfg.Delimiter, "delim", cfg.Delimiter, "CSV field delimiter (input and output)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitUsage
	}
	table, err := readTable(fs.Arg(0), cfg.Comma(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitUsage
	}
	switch to {
	case "csv":
		err = tableio.WriteCSV(stdout, table, tableio.CSVOptions{Comma: cfg.Comma()})
	case "json":
		err = tableio.WriteJSON(stdout, table)
	default:
		err = fmt.Errorf("unknown output format %q", to)
	}
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitUsage
	}
	return exitOK
}

// readTable picks the reader by extension; "-" reads CSV from stdin.
func readTable(path string, comma rune, stdin io.Reader) (tabskema.Table, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var (
		t   tabskema.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		t, err = tableio.ReadJSON(r)
	case ".yaml", ".yml":
		t, err = tableio.ReadYAML(r)
	default:
		t, err = tableio.ReadCSV(r, tableio.CSVOptions{Comma: comma})
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("read %s: %w: no header row", path, tabskema.ErrMalformedInput)
	}
	return t, nil
}

func versionString() string {
	if version != "" {
		return "tabskema " + version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return "tabskema " + bi.Main.Version
	}
	return "tabskema (devel)"
}
