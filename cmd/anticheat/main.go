// Package main is the CLI entry point for anticheat.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/config"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/daemon"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/infra"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/policy"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anticheat",
	Short: "Anti-cheat protection for a single application",
	Long: `anticheat keeps one protected application in front of the user.
It pins the screen, blocks screen capture and reports every switch
away from the protected application, with how long the previous
session lasted.

Protections are applied through configured enforcement commands;
without them only switch monitoring is active.`,
	Version:      Version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Arm a protection profile and monitor app switches",
	Long: `Arms the configured profile (default "exam") for the protected app and
prints one JSON line per switch event until interrupted. Events are also
written to the encrypted journal when it is enabled.`,
	RunE: runRun,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the current foreground application",
	RunE:  runInspect,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent switch events from the journal",
	RunE:  runHistory,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List protection profiles",
	Run:   runProfiles,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath   string
	verbose      bool
	jsonOutput   bool
	historyLimit int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr in development format")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entries as JSON")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.ProtectedApp == "" {
		return errors.New("protected_app is required (set it in the config file or ANTICHEAT_PROTECTED_APP)")
	}

	profile, err := policy.NewRegistry().Resolve(cfg.Profile)
	if err != nil {
		return err
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Sync() }()

	protected := domain.AppIdentity(cfg.ProtectedApp)
	runner := &infra.RealCommandRunner{}
	inspector := infra.NewDefaultInspector(runner, infra.NewProcessManager())

	sinks := []domain.EventSink{daemon.NewWriterSink(os.Stdout, logger)}
	if cfg.JournalEnabled {
		journal, err := openJournal(cfg, logger)
		if err != nil {
			// The journal only observes; monitoring works without it
			logger.Warn("journal disabled", zap.Error(err))
		} else {
			defer journal.Close()
			sinks = append(sinks, journal)
		}
	}

	monitorConfig := daemon.DefaultMonitorConfig()
	monitorConfig.PollInterval = cfg.PollInterval()

	engine := usecase.NewEngine(protected, inspector, daemon.NewFanoutSink(sinks...), monitorConfig, logger)

	commands := cfg.EnforcementCommands()
	if commands.Configured() {
		engine.AttachHandle(infra.NewCommandHandle(commands, runner, logger))
	} else {
		logger.Warn("no enforcement commands configured, protections unavailable")
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("starting anticheat",
		zap.String("version", Version),
		zap.String("protected_app", cfg.ProtectedApp),
		zap.String("profile", profile.ID),
		zap.Duration("poll_interval", monitorConfig.PollInterval))

	host := daemon.NewHost(daemon.DefaultHostConfig(), engine, profile, logger)
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openJournal(cfg *config.Config, logger *zap.Logger) (*infra.EventJournal, error) {
	key, err := infra.EnsureKey(infra.NewFileKeyProvider(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("journal key: %w", err)
	}
	return infra.NewEventJournal(cfg.DataDir, key, domain.AppIdentity(cfg.ProtectedApp), logger)
}

func runInspect(cmd *cobra.Command, args []string) error {
	inspector := infra.NewDefaultInspector(&infra.RealCommandRunner{}, infra.NewProcessManager())

	ctx, cancel := context.WithTimeout(context.Background(), infra.DefaultCommandTimeout)
	defer cancel()

	app, err := inspector.CurrentForegroundApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect foreground app: %w", err)
	}
	if app == "" {
		app = domain.UnknownAppName
	}
	fmt.Println(app)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	provider := infra.NewFileKeyProvider(cfg.DataDir)
	if !provider.KeyExists() {
		fmt.Println("No journal yet. Run 'anticheat run' with journal_enabled = true.")
		return nil
	}
	key, err := provider.GetKey()
	if err != nil {
		return err
	}

	journal, err := infra.NewEventJournal(cfg.DataDir, key, domain.AppIdentity(cfg.ProtectedApp), zap.NewNop())
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No switch events recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DETECTED\tAPP\tPREVIOUS SESSION\tPROTECTED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.DetectedAt.Format(time.DateTime),
			e.AppName,
			time.Duration(e.DurationMs)*time.Millisecond,
			e.ProtectedApp)
	}
	return w.Flush()
}

func runProfiles(cmd *cobra.Command, args []string) {
	fmt.Println("\n=== Protection Profiles ===")

	for _, p := range policy.NewRegistry().GetAll() {
		def := ""
		if p.ID() == policy.DefaultProfileID {
			def = " (default)"
		}
		fmt.Printf("\n[%s] %s%s\n", p.ID(), p.Name(), def)
		fmt.Printf("  Screen pinning:      %s\n", onOff(p.Pinning()))
		fmt.Printf("  Screenshot blocking: %s\n", onOff(p.ScreenshotBlocking()))
		fmt.Printf("  Recording detection: %s\n", onOff(p.RecordingDetection()))
		fmt.Printf("  Switch monitoring:   %s\n", onOff(p.Monitoring()))
	}

	fmt.Println("\n===========================")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func createLogger(cfg *config.Config) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}

	execMode := infra.ExecModeForDataDir(cfg.DataDir)

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if err := os.MkdirAll(execMode.DataDir, 0700); err == nil {
		zc.OutputPaths = []string{execMode.LogPath}
		zc.ErrorOutputPaths = []string{execMode.LogPath}
	}

	logger, err := zc.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("anticheat %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
