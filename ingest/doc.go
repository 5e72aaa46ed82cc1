// Package ingest loads graph exports into storage.
//
// ParseExport decodes the nested page/block JSON export and rebuilds the
// parent and children links. Importer bulk-loads the result, fanning block
// batches out across a worker pool. Watch re-imports an export file whenever
// it is rewritten on disk.
//
// Imports are upserts keyed by block uid, so re-importing the same export
// leaves the store unchanged.
package ingest
