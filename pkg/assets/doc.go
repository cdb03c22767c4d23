// Package assets implements the module-fetch backing store (SPEC_FULL.md
// §A, §C): the directory of dynamically-built shim modules that
// pkg/transport serves at {base}/modules/{name} for NAME import sources
// (spec.md §6). DiskStore backs local development; S3Store backs
// production deployments.
package assets
