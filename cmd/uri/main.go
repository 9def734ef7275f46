// Command uri parses, resolves and normalizes URI references.
//
// Usage:
//
//	uri [flags] parse <uri>...
//	uri [flags] resolve <base> <reference>...
//	uri [flags] normalize <path>...
//	uri [flags] query <uri>
package main

//go:generate go tool errtrace -w .

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"braces.dev/errtrace"
	"github.com/spf13/pflag"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/log"
	"github.com/ghettovoice/gouri/internal/types"
	"github.com/ghettovoice/gouri/uri"
)

const (
	exitFailure = 1
	exitInput   = 2
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for malformed input and bad arguments, 1 otherwise.
func exitCode(err error) int {
	if errorutil.IsGrammarErr(err) || errorutil.IsInvalidArgumentErr(err) {
		return exitInput
	}
	return exitFailure
}

type flags struct {
	config       string
	format       string
	logFormat    string
	logLevel     string
	rawQuery     bool
	showPassword bool
	ignorePort   bool
	dotsOnly     bool
	only         []string
	except       []string
	help         bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("uri", pflag.ContinueOnError)
	flagSet.StringVarP(&f.config, "config", "c", "", "path to a TOML config file")
	flagSet.StringVarP(&f.format, "format", "o", formatText, "output format: text, json or yaml")
	flagSet.StringVar(&f.logFormat, "log-format", string(log.FormatConsole), "log format: console, dev, json or none")
	flagSet.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.BoolVar(&f.rawQuery, "raw-query", false, "keep query key names literally")
	flagSet.BoolVar(&f.showPassword, "show-password", false, "render the userinfo password")
	flagSet.BoolVar(&f.ignorePort, "ignore-port", false, "omit the port when rendering")
	flagSet.BoolVar(&f.dotsOnly, "dots-only", false, "normalize: only remove dot segments, skip percent-encoding")
	flagSet.StringSliceVar(&f.only, "only", nil, "query: keep only the listed keys")
	flagSet.StringSliceVar(&f.except, "except", nil, "query: drop the listed keys")
	flagSet.BoolVarP(&f.help, "help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)
	return flagSet
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Parse, resolve and normalize URI references.

Usage:
  uri [flags] parse <uri>...                 print URI components
  uri [flags] resolve <base> <reference>...  resolve references against the base URI
  uri [flags] normalize <path>...            remove dot segments and percent-encode paths
  uri [flags] query <uri>                    print the filtered query of the URI

Flags:
%s`, flagSet.FlagUsages())
}

type command func(app *app, args []string) error

var commands = map[string]command{
	"parse":     (*app).parse,
	"resolve":   (*app).resolve,
	"normalize": (*app).normalize,
	"query":     (*app).query,
}

type app struct {
	cfg    config
	flags  *flags
	stdout io.Writer
	logger *slog.Logger
}

func run(args []string, stdout, stderr io.Writer) error {
	var f flags
	flagSet := newFlagSet(&f)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil
		}
		return errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	if f.help {
		printHelp(stdout, flagSet)
		return nil
	}

	cfg, err := buildConfig(&f, flagSet)
	if err != nil {
		return errtrace.Wrap(err)
	}
	for _, scheme := range slices.Sorted(maps.Keys(cfg.DefaultPorts)) {
		if err := uri.RegisterDefaultPort(scheme, cfg.DefaultPorts[scheme]); err != nil {
			return errtrace.Wrap(fmt.Errorf("register default port of %q: %w", scheme, err))
		}
	}

	logger, err := log.New(stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return errtrace.Wrap(err)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("missing command"))
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown command %q", rest[0]))
	}

	a := &app{
		cfg:    cfg,
		flags:  &f,
		stdout: stdout,
		logger: logger.With("command", rest[0]),
	}
	return errtrace.Wrap(cmd(a, rest[1:]))
}

// buildConfig loads the config file and overrides it with explicitly set flags.
func buildConfig(f *flags, flagSet *pflag.FlagSet) (config, error) {
	cfg := defaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = loadConfig(f.config, cfg); err != nil {
			return cfg, errtrace.Wrap(err)
		}
	}

	if flagSet.Changed("format") {
		cfg.Format = f.format
	}
	if flagSet.Changed("log-format") {
		cfg.LogFormat = log.Format(f.logFormat)
	}
	if flagSet.Changed("log-level") {
		lvl, err := log.ParseLevel(f.logLevel)
		if err != nil {
			return cfg, errtrace.Wrap(err)
		}
		cfg.LogLevel = lvl
	}
	if flagSet.Changed("raw-query") {
		cfg.RawQuery = f.rawQuery
	}
	if flagSet.Changed("show-password") {
		cfg.ShowPassword = f.showPassword
	}
	if flagSet.Changed("ignore-port") {
		cfg.IgnorePort = f.ignorePort
	}

	if err := cfg.validate(); err != nil {
		return cfg, errtrace.Wrap(err)
	}
	return cfg, nil
}

func (a *app) renderOptions() *uri.RenderOptions {
	return &uri.RenderOptions{
		IgnorePort:   a.cfg.IgnorePort,
		ShowPassword: a.cfg.ShowPassword,
	}
}

func (a *app) parseURI(s string) (*uri.URI, error) {
	u, err := uri.New().WithRawQueryString(a.cfg.RawQuery).WithURI(s)
	if err != nil {
		a.logger.Debug("failed to parse URI", "input", s, "error", err)
		return nil, errtrace.Wrap(fmt.Errorf("parse %q: %w", s, err))
	}
	if !types.IsValid(u) {
		a.logger.Warn("URI has neither host nor path", "uri", u)
	}
	a.logger.Debug("URI parsed", "uri", u)
	return u, nil
}

func (a *app) parse(args []string) error {
	if len(args) == 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("parse: missing URI"))
	}

	views := make([]uriView, 0, len(args))
	for _, s := range args {
		u, err := a.parseURI(s)
		if err != nil {
			return errtrace.Wrap(err)
		}
		views = append(views, newURIView(u, a.renderOptions()))
	}
	return errtrace.Wrap(writeViews(a.stdout, a.cfg.Format, views))
}

func (a *app) resolve(args []string) error {
	if len(args) < 2 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("resolve: expected base URI and at least one reference"))
	}

	base, err := a.parseURI(args[0])
	if err != nil {
		return errtrace.Wrap(err)
	}

	views := make([]resolveView, 0, len(args)-1)
	for _, ref := range args[1:] {
		res, err := base.Resolve(ref)
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("resolve %q: %w", ref, err))
		}
		a.logger.Debug("reference resolved", "base", base, "reference", ref, "uri", res)
		views = append(views, resolveView{
			Base:      base.Render(a.renderOptions()),
			Reference: ref,
			URI:       res.Render(a.renderOptions()),
		})
	}
	return errtrace.Wrap(writeViews(a.stdout, a.cfg.Format, views))
}

func (a *app) normalize(args []string) error {
	if len(args) == 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("normalize: missing path"))
	}

	views := make([]normalizeView, len(args))
	for i, p := range args {
		res := uri.FilterPath(p)
		if a.flags.dotsOnly {
			res = uri.RemoveDotSegments(p)
		}
		a.logger.Debug("path normalized", "input", p, "path", res)
		views[i] = normalizeView{Input: p, Path: res}
	}
	return errtrace.Wrap(writeViews(a.stdout, a.cfg.Format, views))
}

func (a *app) query(args []string) error {
	if len(args) != 1 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("query: expected exactly one URI"))
	}
	if len(a.flags.only) > 0 && len(a.flags.except) > 0 {
		a.logger.Warn("both --only and --except are set, --only is ignored")
	}

	u, err := a.parseURI(args[0])
	if err != nil {
		return errtrace.Wrap(err)
	}

	var opts *uri.QueryOptions
	if len(a.flags.only) > 0 || len(a.flags.except) > 0 {
		opts = &uri.QueryOptions{Only: a.flags.only, Except: a.flags.except}
	}
	q := u.Query().Filter(opts)

	view := queryView{
		URI:    u.Render(a.renderOptions()),
		Query:  q.Encode(),
		Params: newParamViews(q),
	}
	return errtrace.Wrap(writeViews(a.stdout, a.cfg.Format, []queryView{view}))
}
