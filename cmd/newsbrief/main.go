package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/finews/newsbrief/pkg/config"
	"github.com/finews/newsbrief/pkg/content"
	"github.com/finews/newsbrief/pkg/domain"
	"github.com/finews/newsbrief/pkg/feed"
	"github.com/finews/newsbrief/pkg/llm"
	"github.com/finews/newsbrief/pkg/repository"
	"github.com/finews/newsbrief/pkg/scheduler"
	"github.com/finews/newsbrief/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"dotenv file loaded before config"`
	Once    bool   `long:"once" description:"run a single ingestion cycle and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	// variables from .env are visible to flag env mirrors and config expansion
	loadEnvFile(envFileFromArgs(os.Args[1:]))

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting newsbrief version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run builds every dependency from the config and runs the server and the scheduler
// until ctx is cancelled. With opts.Once it runs a single cycle instead.
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// re-setup logging to mask secrets known only after config load
	setupLog(opts.Debug, opts.NoColor, secrets(cfg)...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	sched := scheduler.NewScheduler(scheduler.Params{
		Pipeline:       newProcessor(cfg),
		Store:          repos.News,
		UpdateInterval: cfg.Schedule.UpdateInterval,
	})

	if opts.Once {
		report, err := sched.RunNow(ctx)
		if err != nil {
			return fmt.Errorf("cycle failed: %w", err)
		}
		log.Printf("[INFO] single cycle done, processed=%d, saved=%d, skipped=%d, failed=%d",
			report.Processed, report.Saved, report.Skipped, report.Failed)
		return nil
	}

	srv := server.New(cfg, repos.News, sched, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	sched.Start(gctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// newProcessor builds the feed pipeline, the article extractor is wired only when enabled
func newProcessor(cfg *config.Config) *scheduler.Processor {
	feeds := make([]domain.FeedSource, 0, len(cfg.Feeds))
	for _, f := range cfg.GetFeeds() {
		feeds = append(feeds, domain.FeedSource(f))
	}

	procCfg := scheduler.ProcessorConfig{
		Feeds:      feeds,
		Reader:     feed.NewReader(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		Cleaner:    content.NewCleaner(cfg.Content.MinLength),
		Summarizer: llm.NewSummarizer(cfg.GetLLMConfig()),
	}

	if extCfg := cfg.GetExtractionConfig(); extCfg.Enabled {
		procCfg.Extractor = content.NewHTTPExtractor(extCfg.Timeout, extCfg.UserAgent)
		log.Printf("[INFO] article extraction enabled, timeout %v", extCfg.Timeout)
	}

	log.Printf("[INFO] %d feeds configured, model %s", len(feeds), cfg.LLM.Model)
	return scheduler.NewProcessor(procCfg)
}

// secrets returns config values that must never show up in logs
func secrets(cfg *config.Config) []string {
	var res []string
	for _, s := range []string{cfg.LLM.APIKey, cfg.Server.TriggerToken} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// envFileFromArgs finds --env-file in raw args, flags are not parsed yet when .env is loaded
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--env-file" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--env-file="):
			return strings.TrimPrefix(arg, "--env-file=")
		}
	}
	if f := os.Getenv("ENV_FILE"); f != "" {
		return f
	}
	return ".env"
}

// loadEnvFile loads variables from a dotenv file without overriding the environment.
// A missing file is fine, the environment alone may be enough.
func loadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] can't load %s: %v", path, err)
	}
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
