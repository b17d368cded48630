// Package progress provides status reporting for fetches.
//
// The one status line goes to stdout; diagnostics go to stderr and are
// only printed in verbose mode, except for errors.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{Verbose: true})
//
//	reporter.Downloading("helper_functions.py")
//	reporter.Fetched("helper_functions.py", 4096, 200, "text/plain", elapsed)
//
// # Output Format
//
//	Downloading helper_functions.py
//	[helperfetch] Wrote 4.00 KB to helper_functions.py (HTTP 200, text/plain, 312ms)
package progress
