package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/backend"
	"floorctl/internal/config"
	"floorctl/internal/logging"
	"floorctl/internal/trace"
	"floorctl/internal/ui"
	"floorctl/internal/viewstack"
)

// app holds what every subcommand needs once flags are resolved.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	tracing *trace.Provider
	store   catalog.Store
}

// flags are bound by the root command; zero values defer to the config file.
type flags struct {
	configPath string
	dataDir    string
	backend    string
	logFile    string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes one command line. Resources opened during setup are released
// even when the command fails.
func run(ctx context.Context, args []string) error {
	a := &app{}
	defer a.close(ctx)
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "floorctl",
		Short: "Operator console for the game-show floor",
		Long: `floorctl manages the categories and contestants of a game-show round.

Run without arguments to open the console. Categories are imported from JSON
or YAML files; each import step can be undone until the wizard finishes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default $FLOORCTL_CONFIG or ~/.floorctl/config.yaml)")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory holding the catalog database")
	pf.StringVar(&f.backend, "backend", "", "storage backend: bolt or sqlite")
	pf.StringVar(&f.logFile, "log-file", "", "log destination (default ~/.floorctl/floorctl.log)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newImportCmd(a), newCategoriesCmd(a), newContestantsCmd(a))
	return root
}

// setup resolves config (file, then env, then flags) and opens the store.
func (a *app) setup(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(logging.Options{Verbose: cfg.Verbose, File: cfg.LogFile})
	if err != nil {
		return err
	}

	a.tracing, err = trace.Setup(cmd.Context())
	if err != nil {
		a.logger.Warn("tracing disabled", zap.Error(err))
	}

	a.store, err = backend.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	a.logger.Debug("started",
		zap.String("command", cmd.Name()),
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("tracing", a.tracing.Enabled()),
	)
	return nil
}

func (a *app) close(ctx context.Context) {
	logger := a.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}
	if err := a.tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("flush traces", zap.Error(err))
	}
	_ = logger.Sync()
}

// stackOptions wires the engine to the process logger and tracer.
func (a *app) stackOptions() []viewstack.Option {
	return []viewstack.Option{
		viewstack.WithLogger(a.logger),
		viewstack.WithTracer(a.tracing.Tracer(viewstack.TracerName)),
	}
}

func (a *app) runConsole(ctx context.Context) error {
	console := ui.NewConsole(ctx, a.store, ui.Options{
		Logger: a.logger,
		Tracer: a.tracing.Tracer(viewstack.TracerName),
	})
	p := tea.NewProgram(console.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
