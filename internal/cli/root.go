// Package cli wires the tada command line: the interactive TUI by default,
// plus scriptable subcommands over the same items API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/itemapi"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/router"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// usageError marks failures caused by how tada was invoked (exit 2).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &usageError{fmt.Errorf(format, a...)}
}

func isUsage(err error) bool {
	var ue *usageError
	return errors.As(err, &ue) || errors.Is(err, router.ErrUnknownRoute)
}

type rootFlags struct {
	configFile string
	apiURL     string
	timeout    string
	logFile    string
	logLevel   string
	theme      string
	noColor    bool
	route      string
}

type app struct {
	stdout, stderr io.Writer

	flags  rootFlags
	cfg    *config.Config
	logger *log.Logger
	closer io.Closer
}

// Run executes tada with args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, logger: logging.Discard()}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.closer != nil {
		a.closer.Close()
	}
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	if isUsage(err) {
		fmt.Fprintln(stderr, ui.C(ui.Current().Muted, "Run 'tada --help' for usage."))
		return 2
	}
	return 1
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "A to-do list client for the items API",
		Long: `tada talks to an items API (default ` + config.DefaultAPIURL + `).

Without a subcommand it opens the interactive list. Subcommands do the
same operations from scripts.`,
		Args:              noArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), c, tui.Options{StartPath: a.flags.route, Logger: a.logger})
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default ~/.tada/config.toml)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "items API base URL")
	pf.StringVar(&a.flags.timeout, "timeout", "", "request timeout, e.g. 5s")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.theme, "theme", "", "classic, neon or mono")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	root.Flags().StringVar(&a.flags.route, "route", router.ItemsPath(), "start the TUI on this route")

	root.AddCommand(
		a.newLsCmd(),
		a.newAddCmd(),
		a.newShowCmd(),
		a.newUpdateCmd(),
		a.newDoneCmd(),
		a.newStatCmd(),
		a.newServeCmd(),
		a.newConfigCmd(),
	)
	return root
}

// setup loads config, applies flag overrides and opens the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configFile != "" {
		cfg, err = config.LoadUser(a.flags.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("api-url") {
		cfg.APIURL = a.flags.apiURL
	}
	if f.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if f.Changed("log-file") {
		cfg.LogFile = a.flags.logFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if f.Changed("theme") {
		cfg.Theme = a.flags.theme
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err}
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	if a.flags.noColor {
		ui.SetColorForcing(false, true)
	}

	// The TUI owns the terminal, so its logs only go to a file.
	if cmd == cmd.Root() || cfg.LogFile != "" {
		a.logger, a.closer, err = logging.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
		return err
	}
	a.logger = logging.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	return nil
}

func (a *app) client() (*itemapi.Client, error) {
	d, err := a.cfg.TimeoutDuration()
	if err != nil {
		return nil, &usageError{err}
	}
	return itemapi.New(a.cfg.APIURL, itemapi.WithTimeout(d), itemapi.WithLogger(a.logger))
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if !cmd.HasParent() {
		return usagef("unknown command %q", args[0])
	}
	return usagef("%s: unexpected argument %q", cmd.Name(), args[0])
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: tada %s", cmd.Use)
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: tada %s", cmd.Use)
		}
		return nil
	}
}

func parseID(cmd, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("%s: not an item id: %s", cmd, s)
	}
	return id, nil
}
