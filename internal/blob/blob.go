// Package blob provides the write side of evidence blob storage. A store is
// assumed durable once Write returns; evidence capture runs it synchronously
// inside the enclosing transaction so a failed write aborts the whole
// operation.
package blob

import "context"

// Store writes a blob at the given relative path and returns the location
// the metadata record should point at.
type Store interface {
	Write(ctx context.Context, path string, data []byte) (string, error)
}
