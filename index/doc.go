// Package index provides the in-memory vector index over stored catalog
// embeddings: a brute-force squared-L2 flat index, immutable per-model
// generations built from storage, and a service that swaps generations
// atomically so searches never observe a partially built index.
package index
