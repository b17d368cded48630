package fetcher

import "fmt"

// NetworkError is returned when the remote file could not be retrieved.
//
// This covers:
//   - DNS failures, refused connections and timeouts
//   - Errors reading the response body
//   - Non-2xx responses when Options.StrictStatus is set
//
// Use errors.As to extract it.
type NetworkError struct {
	URL        string // Requested URL
	StatusCode int    // Response status, 0 if no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FilesystemError is returned when the target could not be checked or written.
type FilesystemError struct {
	Op   string // "stat" or "write"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
