package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/focuslog/corehub/internal/api"
	"github.com/focuslog/corehub/internal/api/middleware"
	"github.com/focuslog/corehub/internal/attribution"
	"github.com/focuslog/corehub/internal/config"
	"github.com/focuslog/corehub/internal/daemon"
	"github.com/focuslog/corehub/internal/hostlock"
	"github.com/focuslog/corehub/internal/ingest"
	"github.com/focuslog/corehub/internal/log"
	"github.com/focuslog/corehub/internal/persistence/sqlite"
	"github.com/focuslog/corehub/internal/privacy"
	"github.com/focuslog/corehub/internal/reportgen"
	"github.com/focuslog/corehub/internal/store"
	"github.com/focuslog/corehub/internal/tracking"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr   string
		dbPath       string
		blockSeconds int
		idleCutoff   int
		configPath   string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the corehub core service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveOptions{
				listenAddr:   listenAddr,
				dbPath:       dbPath,
				blockSeconds: blockSeconds,
				idleCutoff:   idleCutoff,
				configPath:   configPath,
				logLevel:     logLevel,
			})
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address: ip:port, bare ip, localhost, or localhost:port")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database file")
	cmd.Flags().IntVar(&blockSeconds, "block-seconds", 0, "default block length in seconds (0 = keep stored setting)")
	cmd.Flags().IntVar(&idleCutoff, "idle-cutoff-seconds", 0, "default idle cutoff in seconds (0 = keep stored setting)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an optional YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

type serveOptions struct {
	listenAddr   string
	dbPath       string
	blockSeconds int
	idleCutoff   int
	configPath   string
	logLevel     string
}

// runServe wires every stored dependency and runs until an interrupt
// signal, returning a non-nil error only on a startup validation
// failure (spec.md §6 "Exit status 0 on clean shutdown, non-zero on
// startup validation error").
func runServe(opts serveOptions) error {
	boot := config.DefaultBootstrap()
	boot, err := boot.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("serve: load config file: %w", err)
	}
	boot = boot.LoadEnv()

	if opts.listenAddr != "" {
		boot.ListenAddr = opts.listenAddr
	}
	boot.ListenAddr = config.NormalizeListenAddr(boot.ListenAddr)
	if opts.dbPath != "" {
		boot.DBPath = opts.dbPath
	}
	if opts.blockSeconds > 0 {
		boot.BlockSeconds = opts.blockSeconds
	}
	if opts.idleCutoff > 0 {
		boot.IdleCutoffSeconds = opts.idleCutoff
	}
	if opts.logLevel != "" {
		boot.LogLevel = opts.logLevel
	}

	log.Configure(log.Config{Level: boot.LogLevel, Service: "corehub", Version: version})
	logger := log.WithComponent("serve")

	guard, err := hostlock.Acquire(boot.DBPath)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer func() { _ = guard.Release() }()

	db, err := sqlite.Open(boot.DBPath, sqlite.DefaultConfig())
	if err != nil {
		return fmt.Errorf("serve: open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := sqlite.Migrate(db); err != nil {
		return fmt.Errorf("serve: migrate database: %w", err)
	}

	events := store.NewEventLog(db)
	rules := store.NewPrivacyRules(db)
	settingsStore := store.NewSettingsStore(db)
	if opts.blockSeconds > 0 || opts.idleCutoff > 0 {
		current, err := settingsStore.Load(context.Background())
		if err != nil {
			return fmt.Errorf("serve: load settings: %w", err)
		}
		if opts.blockSeconds > 0 {
			current.BlockSeconds = opts.blockSeconds
		}
		if opts.idleCutoff > 0 {
			current.IdleCutoffSeconds = opts.idleCutoff
		}
		if _, err := settingsStore.Save(context.Background(), current); err != nil {
			return fmt.Errorf("serve: save settings: %w", err)
		}
	}
	trackingStore := store.NewTrackingStore(db)
	reviews := store.NewReviewStore(db)
	trk := tracking.New(trackingStore)
	pipeline := ingest.New(events, rules, settingsStore, trk)
	reports := store.NewReportsStore(db)
	reportSettings := store.NewReportSettingsStore(db)
	scheduler := reportgen.New(reports, reportSettings, noProviderConfigured).
		WithBundleSource(reportBundleSource(events, rules, settingsStore))

	server := &api.Server{
		Events:         events,
		Rules:          rules,
		Settings:       settingsStore,
		ReportSettings: reportSettings,
		Tracking:       trk,
		Reviews:        reviews,
		Ingest:         pipeline,
		Service:        "corehub",
		Version:        version,
	}
	handler := server.NewRouter(middleware.StackConfig{
		AllowedOrigins:    []string{"*"},
		RequestsPerMinute: 600,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runReportScheduler(ctx, scheduler)

	d := daemon.New(daemon.DefaultConfig(boot.ListenAddr), handler)
	logger.Info().Str("addr", boot.ListenAddr).Str("db", boot.DBPath).Msg("corehub starting")
	return d.Run(ctx)
}

// runReportScheduler drives the scheduler's fixed 30 s tick (spec.md
// §5) until ctx is canceled.
func runReportScheduler(ctx context.Context, scheduler *reportgen.Scheduler) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			scheduler.Tick(ctx, now)
		}
	}
}

// reportBundleSource closes over the stores needed to rebuild a job's
// period (privacy-filtered events -> timeline segments -> blocks) into
// the stats bundle a provider consumes (spec.md §9, supplemented per
// original_source's generate_daily_report/generate_weekly_report).
func reportBundleSource(events *store.EventLog, rules *store.PrivacyRules, settingsStore *store.SettingsStore) reportgen.BundleSource {
	return func(ctx context.Context, job reportgen.Job) ([]byte, error) {
		settings, err := settingsStore.Load(ctx)
		if err != nil {
			return nil, err
		}
		ruleList, err := rules.List(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := events.Range(ctx, job.PeriodStart, job.PeriodEnd)
		if err != nil {
			return nil, err
		}
		filtered := privacy.Build(ruleList).FilterEvents(raw)

		segments := attribution.BuildTimeline(filtered, job.PeriodEnd, settings.IdleCutoffSeconds, settings.StoreTitles)
		blocks := attribution.BuildBlocks(filtered, job.PeriodEnd, settings.BlockSeconds, settings.IdleCutoffSeconds, settings.StoreTitles)

		bundle := reportgen.BuildBundle(segments, blocks, ruleList)
		return bundle.Marshal()
	}
}

// noProviderConfigured is the scheduler's producer until an external
// LLM provider is wired (spec.md §9 treats the generator as a
// black-box collaborator outside the core's scope).
func noProviderConfigured(ctx context.Context, prompt string, bundle []byte) (string, error) {
	return "", errors.New("reportgen: no provider configured")
}
