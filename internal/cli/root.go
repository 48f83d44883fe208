// Package cli implements the stockpile command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/stockpile/internal/ledger"
	"github.com/mesh-intelligence/stockpile/internal/logging"
	"github.com/mesh-intelligence/stockpile/internal/paths"
	"github.com/mesh-intelligence/stockpile/internal/sqlite"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state of one CLI invocation. The backend is attached lazily
// by the commands that need it and detached by Run.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	log       *slog.Logger

	backend *sqlite.Backend
	engine  *ledger.Engine
}

// NewRootCmd creates the top-level "stockpile" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return (&app{}).newRootCmd()
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockpile",
		Short: "Inventory ledger for raw materials, recipes and orders",
		Long: "Stockpile tracks raw material stock, the recipes that consume it, and\n" +
			"fulfills orders atomically against a local SQLite database.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newMaterialCmd(),
		a.newCriticalCmd(),
		a.newRecipeCmd(),
		a.newOrderCmd(),
		a.newHistoryCmd(),
		a.newExportCmd(),
		a.newServeCmd(),
	)
	return root
}

// setup resolves the config directory, loads configuration and builds the
// logger. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	a.cfg, err = loadConfig(configDir)
	if err != nil {
		return systemErr(err)
	}

	level := a.flags.logLevel
	if level == "" {
		level = a.cfg.GetString(cfgKeyLogLevel)
	}
	a.log, err = logging.New(level, a.cfg.GetString(cfgKeyLogFormat), cmd.ErrOrStderr())
	if err != nil {
		return systemErr(err)
	}
	return nil
}

// storeConfig builds the backend configuration from flags and config.yaml.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SeedSamples:  a.cfg.GetBool(cfgKeySeedSamples),
		HistoryLimit: a.cfg.GetInt(cfgKeyHistoryLimit),
	}, nil
}

// ledger attaches the backend on first use and returns the engine.
func (a *app) ledger(opts ...ledger.Option) (*ledger.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, systemErr(err)
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, systemErr(fmt.Errorf("attach backend: %w", err))
	}
	a.log.Debug("backend attached", "path", backend.Path())

	a.backend = backend
	a.engine = ledger.New(backend, append([]ledger.Option{ledger.WithLogger(a.log)}, opts...)...)
	return a.engine, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Detach()
	a.backend, a.engine = nil, nil
	return err
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = systemErr(cerr)
	}
	if err == nil {
		return exitSuccess
	}
	printError(stderr, err)
	return exitCode(err)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// systemError marks configuration, filesystem and storage faults.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// exitCode maps an error to exitSysError for faults and exitUserError for
// everything else, including usage mistakes.
func exitCode(err error) int {
	var se *systemError
	if errors.As(err, &se) || errors.Is(err, types.ErrStoreFailure) || errors.Is(err, types.ErrDetached) {
		return exitSysError
	}
	return exitUserError
}

func printError(w io.Writer, err error) {
	var shortage *types.InsufficientStockError
	if errors.As(err, &shortage) {
		fmt.Fprintf(w, "Error: insufficient stock for %q:\n", shortage.Product)
		for _, s := range shortage.Shortages {
			fmt.Fprintf(w, "  - %s: have %s, need %s\n", s.MaterialName, s.Stock, s.Required)
		}
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}
