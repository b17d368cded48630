package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/helperfetch/internal/config"
	"github.com/ligustah/helperfetch/internal/fetcher"
	fetchhttp "github.com/ligustah/helperfetch/internal/http"
	"github.com/ligustah/helperfetch/internal/progress"
	"github.com/ligustah/helperfetch/internal/store"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitSourceNotAccess = 3
	ExitStorageError    = 4
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("helperfetch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to a YAML configuration file")
	target := fs.String("target", "", "File to check and overwrite (default "+config.DefaultTarget+")")
	url := fs.String("url", "", "Remote file to fetch")
	bucket := fs.String("bucket", "", "Bucket URL holding the target instead of the local filesystem")
	gate := fs.String("gate", "", "Fetch when the target 'exists' (default) or is 'missing'")
	timeout := fs.Duration("timeout", 0, "Request timeout (0 disables)")
	strictStatus := fs.Bool("strict-status", false, "Fail on non-2xx responses instead of writing the body")
	verbose := fs.Bool("v", false, "Print diagnostics to stderr")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: helperfetch [options]

Check for the target file and, depending on -gate, refresh it from -url.
With no options the target is helper_functions.py in the working directory
and it is only refreshed when it already exists.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	// Flags given on the command line win, including explicit false and 0
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = *target
		case "url":
			cfg.URL = *url
		case "bucket":
			cfg.Bucket = *bucket
		case "gate":
			cfg.Gate = *gate
		case "timeout":
			cfg.Timeout = *timeout
		case "strict-status":
			cfg.StrictStatus = *strictStatus
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "\n[helperfetch] Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return fetch(ctx, cfg)
}

func fetch(ctx context.Context, cfg config.Config) int {
	reporter := progress.NewReporter(progress.Options{
		Output:  stdout,
		Log:     stderr,
		Verbose: cfg.Verbose,
	})

	gate, err := fetcher.ParseGate(cfg.Gate)
	if err != nil {
		reporter.Errorf("%v", err)
		return ExitInvalidArgs
	}

	var st store.Store = store.NewLocal("")
	if cfg.Bucket != "" {
		bkt, err := blob.OpenBucket(ctx, cfg.Bucket)
		if err != nil {
			reporter.Errorf("opening bucket: %v", err)
			return ExitStorageError
		}
		defer bkt.Close()
		st = store.NewBucket(bkt, map[string]string{"source_url": cfg.URL})
		reporter.Debugf("Using bucket %s", cfg.Bucket)
	}

	client := fetchhttp.NewClient(fetchhttp.Options{Timeout: cfg.Timeout})

	f := fetcher.New(client, st, fetcher.Options{
		Target:       cfg.Target,
		URL:          cfg.URL,
		Gate:         gate,
		StrictStatus: cfg.StrictStatus,
		Reporter:     reporter,
	})

	_, err = f.Run(ctx)
	if err == nil {
		return ExitSuccess
	}

	reporter.Errorf("%v", err)

	var netErr *fetcher.NetworkError
	var fsErr *fetcher.FilesystemError
	switch {
	case ctx.Err() != nil:
		return ExitGeneralError
	case errors.As(err, &netErr):
		return ExitSourceNotAccess
	case errors.As(err, &fsErr):
		return ExitStorageError
	default:
		return ExitGeneralError
	}
}
