// Package fetcher refreshes a single file from a remote URL.
//
// A run checks whether the target is present, asks the [Gate] whether that
// presence warrants a fetch, and if so performs one GET and writes the body
// to the target unchanged.
//
// # Usage
//
//	f := fetcher.New(client, store.NewLocal(""), fetcher.Options{
//	    Target:   "helper_functions.py",
//	    URL:      url,
//	    Gate:     fetcher.GateExists,
//	    Reporter: reporter,
//	})
//
//	res, err := f.Run(ctx)
//
// # Errors
//
// Run returns a [*NetworkError] when the request fails and a
// [*FilesystemError] when the target cannot be checked or written. In
// either case the target is left as it was.
package fetcher
