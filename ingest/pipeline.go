// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/graphseek/storage"
)

// defaultBatchSize is the number of blocks written per storage call.
const defaultBatchSize = 256

// Importer bulk-loads parsed graph exports into storage. Blocks are written
// in batches across a worker pool; pages are written first so title scoping
// works for partially imported graphs.
type Importer struct {
	blocks    storage.BlockRepository
	pages     storage.PageRepository
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for concurrent batch writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(imp *Importer) error {
		if size < 1 {
			size = 1
		}
		if imp.pool != nil {
			imp.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		imp.pool = pool
		return nil
	}
}

// WithBatchSize sets how many blocks each storage write carries.
func WithBatchSize(n int) Option {
	return func(imp *Importer) error {
		if n < 1 {
			n = 1
		}
		imp.batchSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(imp *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		imp.logger = logger
		return nil
	}
}

// NewImporter creates a bulk importer over the given repositories.
func NewImporter(blocks storage.BlockRepository, pages storage.PageRepository, opts ...Option) (*Importer, error) {
	if blocks == nil {
		return nil, ErrBlockRepositoryRequired
	}
	if pages == nil {
		return nil, ErrPageRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	imp := &Importer{
		blocks:    blocks,
		pages:     pages,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(imp); optErr != nil {
			imp.Release()
			return nil, optErr
		}
	}
	return imp, nil
}

// Import parses an export stream and loads it. It returns the number of
// pages and blocks written. Re-importing the same export is an upsert, not a
// duplication.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (pages, blocks int, err error) {
	graph, err := ParseExport(r)
	if err != nil {
		return 0, 0, err
	}
	if err := imp.Load(ctx, graph); err != nil {
		return 0, 0, err
	}
	return len(graph.Pages), len(graph.Blocks), nil
}

// ImportFile opens path and imports its contents.
func (imp *Importer) ImportFile(ctx context.Context, path string) (pages, blocks int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	return imp.Import(ctx, f)
}

// Load writes an already-parsed graph. Pages are written synchronously;
// block batches fan out across the worker pool and the first write error
// cancels the remaining batches.
func (imp *Importer) Load(ctx context.Context, graph *Graph) error {
	if len(graph.Pages) > 0 {
		if err := imp.pages.PutPages(ctx, graph.Pages...); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(graph.Blocks); start += imp.batchSize {
		end := min(start+imp.batchSize, len(graph.Blocks))
		batch := graph.Blocks[start:end]

		group.Go(func() error {
			done := make(chan error, 1)
			if submitErr := imp.pool.Submit(func() {
				done <- imp.blocks.PutBlocks(groupCtx, batch...)
			}); submitErr != nil {
				// The pool rejected the task; write inline instead.
				return imp.blocks.PutBlocks(groupCtx, batch...)
			}
			select {
			case err := <-done:
				return err
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	imp.logger.Info("graph loaded",
		"pages", len(graph.Pages), "blocks", len(graph.Blocks))
	return nil
}

// Release releases the worker pool. The importer should not be used after
// calling Release.
func (imp *Importer) Release() {
	if imp.pool != nil {
		imp.pool.Release()
	}
}

