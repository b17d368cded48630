// Package http provides the HTTP client used to fetch remote files.
//
// This package handles:
//   - A single GET per call, no retries
//   - Raw transfer (compression disabled, body returned untouched)
//   - Mapping of non-success status codes to sentinel errors
//
// # Usage
//
//	client := http.NewClient(http.Options{Timeout: 30 * time.Second})
//
//	resp, err := client.Get(ctx, url)
//	// resp.StatusCode, resp.Body
//
//	// Reject anything but 2xx
//	if err := resp.Err(); err != nil {
//	    ...
//	}
package http
