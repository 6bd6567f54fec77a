package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/pflag"
	"github.com/trim21/errgo"
	_ "go.uber.org/automaxprocs"

	"github.com/wtfsayo/beerscape/internal/config"
	"github.com/wtfsayo/beerscape/internal/core"
	"github.com/wtfsayo/beerscape/internal/fetch"
	"github.com/wtfsayo/beerscape/internal/progress"
	"github.com/wtfsayo/beerscape/internal/stats"
	"github.com/wtfsayo/beerscape/internal/store"
	"github.com/wtfsayo/beerscape/internal/web"
)

func main() {
	var configFilePath = pflag.String("config-file", "config.toml", "path to config file")
	var downloadDir = pflag.String("download-dir", "", "directory for downloaded recipes (default from config)")
	var target = pflag.Int("target", 0, "stop once this many recipes exist locally (default from config)")
	var concurrency = pflag.Int("concurrency", 0, "number of concurrent requests (default from config)")
	var statusAddress = pflag.String("status-address", "", "serve live statistics as JSON on this address")
	var noProgress = pflag.Bool("no-progress", false, "disable the terminal progress bar")

	var profiling = pflag.Bool("profile", false, "enable profiling for CPU and Memory")
	var profileCpu = pflag.Bool("profile-cpu", false, "enable CPU profiling only")
	var profileMem = pflag.Bool("profile-memory", false, "enable Memory profiling only")

	// this avoids 'pflag: help requested' error when calling for help message.
	if slices.Contains(os.Args[1:], "--help") || slices.Contains(os.Args[1:], "-h") {
		pflag.Usage()
		fmt.Println("\nNote: extra options will override config file, but won't change config file.")
		return
	}

	pflag.Parse()

	if *profileCpu || *profileMem || *profiling {
		var opt = make([]func(*profile.Profile), 0, 2)
		if *profileCpu || *profiling {
			opt = append(opt, profile.CPUProfile)
		}
		if *profileMem || *profiling {
			opt = append(opt, profile.MemProfile)
		}
		defer profile.Start(opt...).Stop()
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadFromFile(*configFilePath)
	if err != nil {
		panic(errgo.Wrap(err, "failed to load config"))
	}

	if *downloadDir != "" {
		cfg.App.DownloadDir = *downloadDir
	}
	if *target != 0 {
		cfg.App.Target = *target
	}
	if *concurrency != 0 {
		cfg.App.Concurrency = *concurrency
	}

	if err := cfg.Validate(); err != nil {
		panic(errgo.Wrap(err, "invalid configuration"))
	}

	if err := os.MkdirAll(cfg.App.DownloadDir, os.ModePerm); err != nil {
		panic(errgo.Wrap(err, "failed to create download directory"))
	}

	app := core.New(cfg, fetch.New(cfg.App), store.New(cfg.App.DownloadDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *statusAddress != "" {
		srv := web.New(app.Stats())
		go func() {
			if err := srv.Start(*statusAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Err(err).Msg("status server stopped")
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	// the reporter runs until the engine is done, not until the signal
	runCtx, runDone := context.WithCancel(context.Background())

	var snap stats.Snapshot
	var runErr error

	w := conc.NewWaitGroup()
	w.Go(func() {
		snap, runErr = app.Run(ctx)
		runDone()
	})
	if !*noProgress {
		r := progress.New(app.Stats())
		w.Go(func() { r.Poll(runCtx) })
	}
	w.Wait()

	printSummary(snap)

	switch {
	case runErr == nil:
	case errors.Is(runErr, core.ErrRangeExhausted):
		log.Warn().Msg("ran out of candidate ids before reaching the target")
		os.Exit(1)
	case errors.Is(runErr, context.Canceled):
		log.Warn().Msg("interrupted")
		os.Exit(1)
	default:
		log.Fatal().Err(runErr).Msg("download run failed")
	}
}

func printSummary(snap stats.Snapshot) {
	fmt.Println("\nDownload Summary:")
	fmt.Println("----------------")
	fmt.Printf("Previously Existing: %d\n", snap.Existing)
	fmt.Printf("Newly Downloaded: %d\n", snap.Downloaded)
	fmt.Printf("Not Found: %d\n", snap.NotFound)
	fmt.Printf("Failed Attempts: %d (%d persistence)\n", snap.Failed, snap.PersistFailed)
	fmt.Printf("Total Attempts: %d\n", snap.Attempts)
	fmt.Printf("Data Downloaded: %s\n", humanize.IBytes(uint64(snap.Bytes)))
	fmt.Printf("Final Success Rate: %.1f%%\n", snap.SuccessRate()*100)
	fmt.Printf("Elapsed: %s\n", snap.Elapsed.Round(time.Second))
}
