// Package assets backs the module-fetch endpoint (spec.md §6): on first use
// of a NAME import-source, the client fetches {base}/modules/{name} from a
// directory of dynamically-built shim modules that re-export libraries from
// a CDN. A Store is where those shim module bodies live; pkg/transport wires
// a Store behind the HTTP handler that answers that fetch.
//
// Grounded on the teacher's pkg/upload Store interface (upload.go), adapted
// from a one-shot Save/Claim temp-file handoff to a named, re-readable,
// upsertable key-value store — shim modules are served repeatedly by name,
// not claimed once and discarded.
package assets

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no module is stored under the requested name.
var ErrNotFound = errors.New("assets: module not found")

// Module is one stored shim module body.
type Module struct {
	// Name is the module name a client requests as {base}/modules/{Name}.
	Name string

	// ContentType is the MIME type served with the module body, normally
	// "text/javascript" for an ES module shim.
	ContentType string

	// Content is the module's source text.
	Content []byte

	// ModTime is when this module body was last written. pkg/transport
	// sends it as the Last-Modified header; it does not answer
	// If-Modified-Since requests with 304.
	ModTime time.Time
}

// Store is the interface for shim-module storage backends. Implement this
// to back the module-fetch endpoint with disk, S3, or any other durable
// store.
type Store interface {
	// Put writes (or overwrites) the module body stored under name.
	Put(ctx context.Context, name string, contentType string, content []byte) error

	// Get retrieves a module by name. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) (*Module, error)

	// Delete removes a module by name. Deleting an absent module is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns the names of every stored module.
	List(ctx context.Context) ([]string, error)
}
