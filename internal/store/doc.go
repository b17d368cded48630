// Package store abstracts where the fetched file lives.
//
// Two implementations are provided:
//   - [Local] reads and writes paths on the local filesystem
//   - [Bucket] reads and writes objects in any gocloud.dev/blob bucket
//
// Both guarantee that a failed Write leaves the previous content (or absence)
// of the target in place.
package store
