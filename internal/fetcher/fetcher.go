package fetcher

import (
	"context"
	"fmt"
	"time"

	fetchhttp "github.com/ligustah/helperfetch/internal/http"
	"github.com/ligustah/helperfetch/internal/progress"
	"github.com/ligustah/helperfetch/internal/store"
)

// Gate decides which presence state of the target triggers a fetch.
type Gate int

const (
	// GateExists fetches only when the target already exists, replacing it.
	// Nothing happens when the target is absent.
	GateExists Gate = iota

	// GateMissing fetches only when the target is absent.
	GateMissing
)

// ParseGate converts a configuration value to a Gate.
func ParseGate(s string) (Gate, error) {
	switch s {
	case "exists":
		return GateExists, nil
	case "missing":
		return GateMissing, nil
	default:
		return 0, fmt.Errorf("fetcher: unknown gate %q", s)
	}
}

func (g Gate) String() string {
	switch g {
	case GateExists:
		return "exists"
	case GateMissing:
		return "missing"
	default:
		return fmt.Sprintf("Gate(%d)", int(g))
	}
}

// Allows reports whether a target with the given presence should be fetched.
func (g Gate) Allows(present bool) bool {
	if g == GateMissing {
		return !present
	}
	return present
}

// Outcome is the branch a run took.
type Outcome int

const (
	// Skipped means the gate did not allow a fetch and nothing was touched.
	Skipped Outcome = iota

	// Fetched means the body was retrieved and written to the target.
	Fetched
)

func (o Outcome) String() string {
	if o == Fetched {
		return "fetched"
	}
	return "skipped"
}

// Result describes a completed run.
type Result struct {
	Outcome    Outcome
	Present    bool  // Whether the target existed before the run
	Bytes      int64 // Bytes written, 0 when skipped
	StatusCode int   // HTTP status, 0 when skipped
}

// Getter performs a single GET.
type Getter interface {
	Get(ctx context.Context, url string) (*fetchhttp.Response, error)
}

// Options configures a Fetcher.
type Options struct {
	// Target is the name passed to the store.
	Target string

	// URL is the remote resource.
	URL string

	// Gate selects when to fetch. The zero value is GateExists.
	Gate Gate

	// StrictStatus treats non-2xx responses as a NetworkError.
	// By default the body is written whatever the status.
	StrictStatus bool

	// Reporter is an optional status reporter.
	Reporter *progress.Reporter
}

// Fetcher checks a target and conditionally refreshes it.
type Fetcher struct {
	getter Getter
	store  store.Store
	opts   Options
}

// New creates a Fetcher.
func New(getter Getter, st store.Store, opts Options) *Fetcher {
	return &Fetcher{getter: getter, store: st, opts: opts}
}

// Run performs one check and, if the gate allows, one fetch and write.
func (f *Fetcher) Run(ctx context.Context) (Result, error) {
	present, err := f.store.Exists(ctx, f.opts.Target)
	if err != nil {
		return Result{}, &FilesystemError{Op: "stat", Path: f.opts.Target, Err: err}
	}

	res := Result{Outcome: Skipped, Present: present}

	if !f.opts.Gate.Allows(present) {
		if f.opts.Reporter != nil {
			f.opts.Reporter.Skipped(f.opts.Target, present)
		}
		return res, nil
	}

	if f.opts.Reporter != nil {
		f.opts.Reporter.Downloading(f.opts.Target)
	}

	start := time.Now()
	resp, err := f.getter.Get(ctx, f.opts.URL)
	if err != nil {
		return res, &NetworkError{URL: f.opts.URL, Err: err}
	}

	if f.opts.StrictStatus {
		if err := resp.Err(); err != nil {
			return res, &NetworkError{URL: f.opts.URL, StatusCode: resp.StatusCode, Err: err}
		}
	}

	if err := f.store.Write(ctx, f.opts.Target, resp.Body); err != nil {
		return res, &FilesystemError{Op: "write", Path: f.opts.Target, Err: err}
	}

	res.Outcome = Fetched
	res.Bytes = int64(len(resp.Body))
	res.StatusCode = resp.StatusCode

	if f.opts.Reporter != nil {
		f.opts.Reporter.Fetched(f.opts.Target, res.Bytes, res.StatusCode, resp.ContentType, time.Since(start))
	}

	return res, nil
}
