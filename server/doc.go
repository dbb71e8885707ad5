// Package server exposes catalog search over a small HTTP API:
// GET /search runs the retrieval pipeline, POST /reload rebuilds the index
// from storage, and GET /healthz reports index state.
package server
