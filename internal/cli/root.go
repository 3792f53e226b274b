package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"wishlist-cli/internal/apiclient"
	"wishlist-cli/internal/config"
	"wishlist-cli/internal/format"
	"wishlist-cli/internal/itemsync"
	"wishlist-cli/internal/logging"
	"wishlist-cli/internal/store"
	"wishlist-cli/internal/tui"
	"wishlist-cli/internal/uierr"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigDir  string
	BaseURL    string
	Timeout    string
	LogFile    string
	StateDir   string
	Debug      bool
	PrettyJSON bool
	Format     string

	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
	api      apiclient.Service
	state    store.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "wishlist",
		Short:         "Wishlist service client (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  wishlist

  # Create a wishlist; it becomes the selected one
  wishlist create --customer-id 3 --name Birthday --category gifts

  # Work with the items of the selected wishlist
  wishlist items add --product-id 42 --description "Blue scarf"
  wishlist items drop 42 17
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			_ = app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr(config.EnvPrefix+"_CONFIG_DIR", ""), "Config directory (default: $WISHLIST_CONFIG_DIR or ~/.wishlist)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Wishlist service base URL")
	cmd.PersistentFlags().StringVar(&app.Timeout, "timeout", "", "Per-request timeout, e.g. 10s (0 disables)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Log file (\"-\" disables logging)")
	cmd.PersistentFlags().StringVar(&app.StateDir, "state-dir", "", "Directory for the local session database")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|table)")

	for _, c := range newWishlistCmds(app) {
		cmd.AddCommand(c)
	}
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves config (defaults, file, env, then flags) and builds the
// logger, API client and local state.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigDir)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = app.BaseURL
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(app.Timeout))
		if err != nil {
			return uierr.Invalid("timeout", err.Error())
		}
		cfg.Timeout = config.Duration(d)
	}
	if flags.Changed("log-file") {
		cfg.LogFile = app.LogFile
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = app.StateDir
	}
	if flags.Changed("debug") {
		cfg.Debug = app.Debug
	}
	if flags.Changed("format") {
		cfg.Format = app.Format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg
	app.Format = cfg.Format

	log, closeLog, err := logging.New(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.log = log.With(zap.String("command", cmd.CommandPath()))
	app.closeLog = closeLog

	api, err := apiclient.New(apiclient.Config{BaseURL: cfg.BaseURL}, app.log)
	if err != nil {
		return err
	}
	app.api = api
	app.state = store.Store{Path: cfg.StatePath()}
	return nil
}

// requestContext returns the context factory for requests made by cmd.
func (app *App) requestContext(cmd *cobra.Command) itemsync.ContextFunc {
	return apiclient.RequestContext(cmd.Context(), app.cfg.Timeout.Std())
}

func runTUI(cmd *cobra.Command, app *App) error {
	return tui.Run(cmd.Context(), tui.Deps{
		API:     app.api,
		State:   app.state,
		Log:     app.log,
		Timeout: app.cfg.Timeout.Std(),
		TailGap: app.cfg.TailGap,
		Theme:   app.cfg.TUI.Theme,
		Mouse:   app.cfg.TUI.MouseEnabled(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the output contract: {"data": ..., "message": ...}.
type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func (e envelope) Table() ([]string, [][]string) {
	if t, ok := e.Data.(format.Tabular); ok {
		return t.Table()
	}
	if e.Message != "" {
		return []string{"message"}, [][]string{{e.Message}}
	}
	return nil, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// fail logs err and prints its user-facing message.
func (app *App) fail(cmd *cobra.Command, err error) error {
	if app.log != nil {
		app.log.Warn("command failed", zap.Error(err))
	}
	return writeErr(cmd, err)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), uierr.Message(err))
	return reportedError{err}
}

// reportedError marks an error whose message was already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// ReportError prints err unless a command already did. Cobra's own errors
// (unknown command, wrong argument count) reach the user through here.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var r reportedError
	if errors.As(err, &r) {
		return
	}
	fmt.Fprintln(w, "Error:", uierr.Message(err))
}
