// Package embedjob precomputes embeddings for catalog items that are
// missing one or whose embedding was produced by an older model version.
//
// Items are processed in batches on a worker pool, with progress reporting
// and retry with exponential backoff around the embedding calls. The job is
// incremental: items already embedded with the current model version are
// left untouched, so rerunning it is cheap.
package embedjob
