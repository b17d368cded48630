// Package config defines configuration for the helperfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (HELPERFETCH_ prefix)
//   - YAML configuration file
//
// Every field defaults to the value the fetch has always used, so an empty
// configuration reproduces the original behavior.
//
// # Structure
//
//	type Config struct {
//	    Target       string
//	    URL          string
//	    Bucket       string
//	    Gate         string
//	    Timeout      time.Duration
//	    StrictStatus bool
//	    Verbose      bool
//	}
//
// # YAML
//
//	target: helper_functions.py
//	url: https://example.com/helper_functions.py
//	bucket: s3://my-bucket?region=us-east-1
//	gate: missing
//	timeout: 30s
//	strict_status: true
package config
