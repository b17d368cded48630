package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Options configures the reporter.
type Options struct {
	// Output receives the status line.
	// Default: os.Stdout
	Output io.Writer

	// Log receives diagnostics.
	// Default: os.Stderr
	Log io.Writer

	// Verbose enables diagnostics other than errors.
	Verbose bool
}

// Reporter writes human-readable status for a fetch.
type Reporter struct {
	opts Options
}

// NewReporter creates a new reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	return &Reporter{opts: opts}
}

// Downloading prints the status line announcing a fetch of name.
func (r *Reporter) Downloading(name string) {
	fmt.Fprintf(r.opts.Output, "Downloading %s\n", name)
}

// Fetched records a completed write. contentType may be empty.
func (r *Reporter) Fetched(name string, size int64, status int, contentType string, elapsed time.Duration) {
	if contentType == "" {
		r.Debugf("Wrote %s to %s (HTTP %d, %s)", formatBytes(size), name, status, formatDuration(elapsed))
		return
	}
	r.Debugf("Wrote %s to %s (HTTP %d, %s, %s)", formatBytes(size), name, status, contentType, formatDuration(elapsed))
}

// Skipped records that the gate did not allow a fetch.
func (r *Reporter) Skipped(name string, present bool) {
	state := "absent"
	if present {
		state = "present"
	}
	r.Debugf("Skipping %s: target is %s", name, state)
}

// Debugf prints a diagnostic in verbose mode.
func (r *Reporter) Debugf(format string, args ...any) {
	if !r.opts.Verbose {
		return
	}
	fmt.Fprintf(r.opts.Log, "[helperfetch] "+format+"\n", args...)
}

// Errorf prints an error diagnostic regardless of verbosity.
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintf(r.opts.Log, "Error: "+format+"\n", args...)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
