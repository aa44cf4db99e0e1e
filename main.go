package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/mcncl/casegen/internal/config"
	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/formatter"
	"github.com/mcncl/casegen/internal/generator"
	"github.com/mcncl/casegen/internal/importer"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
	"github.com/mcncl/casegen/internal/runner"
	"github.com/mcncl/casegen/internal/schema"
	"github.com/mcncl/casegen/internal/server"
	"github.com/mcncl/casegen/internal/store"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string `help:"Path to config file. Defaults to .casegen.yml in the current or a parent directory." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	Version bool   `help:"Show version information." short:"v"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate negative test cases from a sample body or a JSON Schema."`
	Import   ImportCmd   `cmd:"" help:"Build test cases from a hand-written case list and a base body."`
	Run      RunCmd      `cmd:"" help:"Send test cases to an endpoint and report how it answered."`
	Serve    ServeCmd    `cmd:"" help:"Serve the HTTP API."`
	History  HistoryCmd  `cmd:"" help:"Inspect stored test runs."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Ctx    context.Context
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("casegen"),
		kong.Description("Generate negative test cases for JSON request bodies and run them against an API"),
		kong.UsageOnError(),
	)

	kctx, err := app.Parse(os.Args[1:])
	app.FatalIfErrorf(err)

	if CLI.Version {
		fmt.Printf("casegen version %s\n", Version)
		return
	}

	// With no arguments at all, read a sample body interactively
	if len(os.Args) == 1 {
		CLI.Generate.Interactive = true
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, err := newContext(sigCtx)
	if err == nil {
		err = kctx.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: casegen --help\n")
		stop()
		os.Exit(1)
	}
}

// newContext loads configuration, letting flags of the selected command win
// over the config file.
func newContext(ctx context.Context) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	return &Context{
		Ctx:    ctx,
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.Debug, false),
		Stdout: os.Stdout,
	}, nil
}

// overrides collects flags that map onto config keys. Flags of commands that
// were not selected are zero and leave the config untouched.
func overrides() config.Overrides {
	return config.Overrides{
		Format:      firstNonEmpty(CLI.Generate.Format, CLI.Import.Format),
		URL:         CLI.Run.URL,
		Method:      CLI.Run.Method,
		Token:       CLI.Run.Token,
		Timeout:     CLI.Run.Timeout,
		Concurrency: CLI.Run.Concurrency,
		StorePath:   firstNonEmpty(CLI.Run.DB, CLI.Serve.DB, CLI.History.DB),
		ServerAddr:  CLI.Serve.Addr,
		Debug:       CLI.Debug,
	}
}

func newLogger(w io.Writer, debug, asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// GenerateCmd mutates a sample body into negative test cases
type GenerateCmd struct {
	Input        string `help:"Path to a sample JSON body. If not specified, reads from stdin." short:"i" type:"path" xor:"source"`
	Schema       string `help:"Path to a JSON Schema; a sample body is derived from it." short:"s" type:"path" xor:"source"`
	RequiredOnly bool   `help:"With --schema, leave optional properties out of the sample body."`
	Output       string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format       string `help:"Output format: json or yaml." short:"f"`
	OutDir       string `help:"Write one JSON file per test case into this directory." type:"path"`
	Interactive  bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

func (c *GenerateCmd) Run(ctx *Context) error {
	root, err := c.sampleBody()
	if err != nil {
		return err
	}

	cases := generator.NewGeneratorWithConfig(ctx.Config).Generate(root)
	ctx.Logger.Debug("generated test cases", "count", len(cases))

	f := formatter.NewFormatterWithConfig(ctx.Config)
	if c.OutDir != "" {
		paths, err := f.WriteCaseFiles(c.OutDir, cases)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d test cases to %s\n", len(paths), c.OutDir)
		return nil
	}

	out, err := f.FormatCases(cases, ctx.Config.Output.Format)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Output, out)
}

func (c *GenerateCmd) sampleBody() (models.Value, error) {
	if c.Schema == "" {
		ir, err := parseInput(c.Input, c.Interactive)
		if err != nil {
			return nil, err
		}
		return ir.Root, nil
	}

	s, err := schema.ParseFile(c.Schema)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to load schema '%s'", c.Schema), err)
	}
	var opts []schema.Option
	if c.RequiredOnly {
		opts = append(opts, schema.RequiredOnly())
	}
	body, err := schema.NewSampler(s, opts...).Sample(s)
	if err != nil {
		return nil, errors.NewGenerateError("failed to sample a body from the schema", err)
	}
	return body, nil
}

// ImportCmd merges hand-written cases onto a base body
type ImportCmd struct {
	Cases  string `arg:"" help:"Path to a JSON array of cases with name, fields and expectedResponse." type:"path"`
	Base   string `help:"Path to the base request body." short:"b" required:"" type:"path"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format string `help:"Output format: json or yaml." short:"f"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	base, err := parser.ParseFile(c.Base)
	if err != nil {
		return err
	}
	data, err := readFile(c.Cases)
	if err != nil {
		return err
	}

	cases, err := importer.Import(data, base.Root)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("imported test cases", "count", len(cases))

	out, err := formatter.NewFormatterWithConfig(ctx.Config).FormatCases(cases, ctx.Config.Output.Format)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Output, out)
}

// RunCmd executes test cases against a live endpoint
type RunCmd struct {
	Input       string            `help:"Path to a JSON array of test cases. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string            `help:"Target endpoint URL." short:"u"`
	Method      string            `help:"HTTP method." short:"X"`
	Token       string            `help:"Bearer token for the Authorization header." env:"CASEGEN_TOKEN"`
	Header      map[string]string `help:"Extra request header as key=value. Repeatable." short:"H"`
	Timeout     time.Duration     `help:"Per-request timeout."`
	Concurrency int               `help:"Maximum number of requests in flight." short:"n"`
	Save        bool              `help:"Record the run in the history database."`
	DB          string            `help:"Path to the history database." type:"path"`
}

func (c *RunCmd) Run(ctx *Context) error {
	cases, err := c.loadCases()
	if err != nil {
		return err
	}

	cfg := ctx.Config
	if cfg.Runner.URL == "" {
		return errors.NewRunError("no target URL, use --url or set runner.url in the config file", errors.ErrNoTarget)
	}

	headers := make(map[string]string, len(cfg.Runner.Headers)+len(c.Header))
	for k, v := range cfg.Runner.Headers {
		headers[k] = v
	}
	for k, v := range c.Header {
		headers[k] = v
	}

	rn := &runner.Runner{
		URL:         cfg.Runner.URL,
		Method:      cfg.Runner.Method,
		Token:       cfg.Runner.Token,
		Headers:     headers,
		Timeout:     cfg.Runner.Timeout,
		Concurrency: cfg.Runner.Concurrency,
		Logger:      ctx.Logger,
	}
	results := rn.RunAll(ctx.Ctx, cases)

	fmt.Fprint(ctx.Stdout, formatter.NewFormatterWithConfig(cfg).FormatReport(results))

	if c.Save {
		if err := saveRun(ctx, rn.NewRun(results)); err != nil {
			return err
		}
	}

	s := runner.Summarize(results)
	if s.Passed != s.Total {
		return errors.NewRunError(fmt.Sprintf("%d of %d test cases did not pass", s.Total-s.Passed, s.Total), nil)
	}
	return nil
}

func (c *RunCmd) loadCases() ([]models.TestCase, error) {
	if c.Input != "" {
		return parser.ParseTestCasesFile(c.Input)
	}
	data, err := readStdin()
	if err != nil {
		return nil, err
	}
	return parser.ParseTestCasesString(string(data))
}

func saveRun(ctx *Context, run models.Run) error {
	st, err := store.NewSQLiteStore(ctx.Config.Store.Path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := st.SaveRun(ctx.Ctx, run)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved run %s to %s\n", id, ctx.Config.Store.Path)
	return nil
}

// ServeCmd runs the HTTP API until interrupted
type ServeCmd struct {
	Addr      string `help:"Address to listen on." short:"a"`
	DB        string `help:"Path to the history database." type:"path"`
	NoHistory bool   `help:"Do not keep run history."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	logger := newLogger(os.Stderr, ctx.Debug, true)

	var st store.Store
	if !c.NoHistory {
		sqlite, err := store.NewSQLiteStore(ctx.Config.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = sqlite.Close() }()
		st = sqlite
		logger.Info("run history enabled", "path", ctx.Config.Store.Path)
	}

	return server.New(ctx.Config, st, logger).ListenAndServe(ctx.Ctx, ctx.Config.Server.Addr)
}

// HistoryCmd groups the run history commands
type HistoryCmd struct {
	DB string `help:"Path to the history database." type:"path"`

	List   HistoryListCmd   `cmd:"" default:"1" help:"List stored runs, newest first."`
	Show   HistoryShowCmd   `cmd:"" help:"Show the results of a stored run."`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a stored run."`
}

type HistoryListCmd struct{}

func (c *HistoryListCmd) Run(ctx *Context) error {
	return withStore(ctx, func(st store.Store) error {
		runs, err := st.ListRuns(ctx.Ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(ctx.Stdout, formatter.NewFormatter().FormatRuns(runs))
		return nil
	})
}

type HistoryShowCmd struct {
	ID string `arg:"" help:"Run ID."`
}

func (c *HistoryShowCmd) Run(ctx *Context) error {
	return withStore(ctx, func(st store.Store) error {
		run, err := st.GetRun(ctx.Ctx, c.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "Run %s\n%s %s at %s\n\n", run.ID, run.Method, run.Target, run.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprint(ctx.Stdout, formatter.NewFormatter().FormatReport(run.Results))
		return nil
	})
}

type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Run ID."`
}

func (c *HistoryDeleteCmd) Run(ctx *Context) error {
	return withStore(ctx, func(st store.Store) error {
		if err := st.DeleteRun(ctx.Ctx, c.ID); err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "Deleted run %s\n", c.ID)
		return nil
	})
}

func withStore(ctx *Context, fn func(store.Store) error) error {
	st, err := store.NewSQLiteStore(ctx.Config.Store.Path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

// parseInput reads JSON from file or stdin
func parseInput(path string, interactive bool) (models.IntermediateRepresentation, error) {
	if path != "" {
		return parser.ParseFile(path)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	// A terminal rather than a pipe
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if interactive {
			return readInteractiveInput()
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := readStdin()
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parser.ParseBytes(data)
}

func readStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s'", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	return data, nil
}

// writeOutput writes to the named file, or to stdout when path is empty
func writeOutput(ctx *Context, path, content string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(os.Stderr, "Test cases written to %s\n", path)
		return nil
	}

	if _, err := fmt.Fprintln(ctx.Stdout, strings.TrimSpace(content)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste a JSON body and finish with Ctrl+D (EOF)
func readInteractiveInput() (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "casegen interactive mode")
	fmt.Fprintln(os.Stderr, "Paste a sample request body below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var sb strings.Builder
	for {
		line, err := reader.ReadString('\n')
		sb.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nGenerating test cases...")
	return parser.ParseString(sb.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
