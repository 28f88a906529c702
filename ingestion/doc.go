// Package ingestion provides pipeline orchestration for indexing document
// passages.
//
// The Pipeline type manages the indexing workflow for passages, including:
//   - Generating embeddings in concurrent batches
//   - Tagging passages with matching corpus concepts
//   - Adding the resulting chunks to storage
//
// Batches are processed concurrently using a worker pool to maximize
// throughput against slow embedding services.
package ingestion
