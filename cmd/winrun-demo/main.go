// Command winrun-demo is a sample winrun application.
//
// It opens a window (or takes over the terminal), logs every callback it
// receives and shows a live status panel. The quit key (Q) ends the run
// and the toggle key (C) shows or hides the cursor.
//
// Usage:
//
//	winrun-demo [flags]
//
// Examples:
//
//	# Pick a backend automatically
//	winrun-demo
//
//	# Run in the terminal and record the run
//	winrun-demo -backend terminal -journal /tmp/winrun.db
//
//	# Replay the latest recorded run
//	winrun-demo -journal /tmp/winrun.db -replay 0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"winrun/cmd/winrun-demo/internal/sound"
	"winrun/internal/config"
	"winrun/internal/inhibit"
	"winrun/internal/journal"
	"winrun/internal/launch"
	"winrun/internal/logging"
	"winrun/internal/metrics"
)

var (
	// Version information (set at build time)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

type flags struct {
	configPath  string
	backend     string
	journalPath string
	replayRun   int64
	realtime    bool
	listRuns    bool
	logLevel    string
	metricsAddr string
	audio       bool
	validate    bool
	version     bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("winrun-demo", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "configuration file (default: ./config.* or the user config directory)")
	fs.StringVar(&f.backend, "backend", "", "event loop backend: auto, gio, terminal")
	fs.StringVar(&f.journalPath, "journal", "", "SQLite journal to record into, or to replay from with -replay")
	fs.Int64Var(&f.replayRun, "replay", -1, "replay this run from the journal instead of opening a window (0 = latest)")
	fs.BoolVar(&f.realtime, "realtime", false, "replay with the recorded timing")
	fs.BoolVar(&f.listRuns, "list-runs", false, "list the runs in the journal and exit")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.metricsAddr, "metrics", "", "serve metrics on this address, e.g. 127.0.0.1:9464")
	fs.BoolVar(&f.audio, "audio", false, "click on mouse presses")
	fs.BoolVar(&f.validate, "validate-config", false, "check the configuration file against the schema and exit")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "winrun-demo - sample winrun application\n\n")
		fmt.Fprintf(fs.Output(), "Usage: winrun-demo [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return f, nil
}

// apply layers the command line over the loaded configuration.
func (f *flags) apply(cfg *config.Config) {
	if f.backend != "" {
		cfg.Window.Backend = f.backend
	}
	if f.journalPath != "" {
		cfg.Journal.Path = f.journalPath
		cfg.Journal.Enabled = true
	}
	if f.replayRun >= 0 {
		cfg.Window.Backend = string(launch.BackendReplay)
		cfg.Journal.ReplayRun = f.replayRun
		cfg.Journal.Enabled = false
	}
	if f.realtime {
		cfg.Journal.Realtime = true
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = f.metricsAddr
	}
	if f.audio {
		cfg.Demo.Audio = true
	}
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if f.version {
		fmt.Printf("winrun-demo %s (commit: %s, built: %s)\n", version, commit, buildTime)
		os.Exit(0)
	}

	path := f.configPath
	if path == "" {
		if path = config.FindConfigFile(); path == "" {
			path = config.ConfigPath()
		}
	}

	if f.validate {
		if err := config.ValidateFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%s: ok\n", path)
		os.Exit(0)
	}

	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = cfg.Clone()
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if f.listRuns {
		os.Exit(listRuns(cfg.Journal.Path))
	}

	backend, err := launch.ParseBackend(cfg.Window.Backend)
	if err == nil {
		backend, err = launch.Resolve(backend)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	launch.Main(backend, func() int {
		return run(cfg, loader, backend)
	})
}

func run(cfg *config.Config, loader *config.Loader, backend launch.Backend) int {
	logCfg := cfg.LoggingOptions()
	logCfg.Component = "winrun-demo"
	if backend == launch.BackendTerminal && (logCfg.Output == "stdout" || logCfg.Output == "stderr" || logCfg.Output == "both") {
		// The terminal is the window; keep log lines off it.
		logCfg.Output = "file"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		return 1
	}
	defer logger.Close()
	logging.SetDefault(logger)
	log := logger.Logger

	h, err := newDemoHandler(cfg.Window.Title, cfg.Demo, logger.WithComponent("handler").Logger)
	if err != nil {
		log.Error("invalid demo configuration", "error", err)
		return 2
	}

	loader.OnChange(func(old, next *config.Config) {
		if old == nil || old.Demo.CursorVisible != next.Demo.CursorVisible {
			h.SetCursorVisible(next.Demo.CursorVisible)
		}
	})
	if err := loader.Watch(); err != nil {
		log.Debug("config hot reload disabled", "path", loader.Path(), "error", err)
	} else {
		defer loader.Close()
	}

	if cfg.Inhibit.Screensaver {
		saver, err := inhibit.New("winrun")
		if err != nil {
			log.Debug("screensaver inhibition unavailable", "error", err)
		} else {
			defer saver.Close()
			h.saver = saver
			h.saverReason = cfg.Inhibit.Reason
		}
	}

	if cfg.Demo.Audio {
		clicks := sound.NewClicker(cfg.Demo.ToneHz, cfg.Demo.Volume)
		if err := clicks.Init(); err != nil {
			log.Warn("audio disabled", "error", err)
		} else {
			defer clicks.Close()
			h.clicks = clicks
		}
	}

	registry := metrics.Default()
	sessionMetrics := metrics.NewSessionMetrics(registry)
	if cfg.Metrics.Enabled {
		stop := serveMetrics(cfg.Metrics.ListenAddr, registry, log)
		defer stop()
	}

	opts := launch.Options{
		Backend:        backend,
		FrameInterval:  cfg.Window.FrameInterval(),
		ReplayRun:      cfg.Journal.ReplayRun,
		ReplayRealtime: cfg.Journal.Realtime,
		Logger:         logger.WithComponent("window").Logger,
		Metrics:        sessionMetrics,
	}
	if cfg.Journal.Enabled || backend == launch.BackendReplay {
		if err := cfg.EnsureDirectories(); err != nil {
			log.Error("create journal directory", "error", err)
			return 1
		}
		opts.JournalPath = cfg.Journal.Path
	}

	crash := logging.NewCrashHandler(&logging.CrashHandlerConfig{
		Version:   version,
		Component: "winrun-demo",
		OnCrash: func(r logging.CrashReport) {
			log.Error("handler panicked", "panic", r.PanicValue)
			logger.Sync()
		},
	})

	log.Info("starting", "version", version, "backend", backend, "title", cfg.Window.Title)
	crash.Guard(map[string]any{"backend": string(backend)}, func() {
		err = launch.Run(h, cfg.Window.Title, opts)
	})
	if err != nil {
		log.Error("run failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.Info("finished", "frames", h.st.frames)
	return 0
}

func serveMetrics(addr string, registry *metrics.Registry, log *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.HTTPHandler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	log.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func listRuns(path string) int {
	store, err := journal.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTARTED\tDURATION\tEVENTS\tCHAIN")
	for _, r := range runs {
		duration := "-"
		if !r.EndedAt.IsZero() {
			duration = r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		chain := "ok"
		if err := store.Verify(r.ID); err != nil {
			chain = "BROKEN"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Name, r.StartedAt.Local().Format(time.DateTime), duration, r.Events, chain)
	}
	if err := tw.Flush(); err != nil {
		return 1
	}
	return 0
}
