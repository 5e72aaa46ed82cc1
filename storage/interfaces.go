package storage

import (
	"context"
	"time"

	"github.com/poiesic/graphseek/core"
)

// TraversalRule selects one of the three fixed descendant-traversal shapes
// the query engine depends on. Each rule is implemented as its own iteration
// strategy in the backend; deeper rules are never derived from the unbounded
// one by post-filtering depth.
type TraversalRule int

const (
	// TraverseDirectChildren visits only the direct children of the root.
	TraverseDirectChildren TraversalRule = iota + 1
	// TraverseTwoLevels visits children and grandchildren of the root.
	TraverseTwoLevels
	// TraverseUnbounded visits the whole subtree below the root.
	TraverseUnbounded
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// BlockRepository provides operations over the hierarchical block store.
type BlockRepository interface {
	Repository

	// PutBlocks upserts one or more blocks. Blocks carry their own UIDs;
	// the edit-time index is kept consistent on update.
	PutBlocks(ctx context.Context, blocks ...*core.Block) error

	// GetBlock retrieves a single block by UID.
	// Returns ErrNotFound if the block doesn't exist.
	GetBlock(ctx context.Context, uid core.UID) (*core.Block, error)

	// GetBlocks retrieves multiple blocks by UID.
	// Returns only the blocks that exist (no error for missing blocks).
	GetBlocks(ctx context.Context, uids ...core.UID) ([]*core.Block, error)

	// DeleteBlocks removes blocks and their index entries by UID.
	// Returns ErrNotFound if any block doesn't exist.
	DeleteBlocks(ctx context.Context, uids ...core.UID) error

	// ChildrenOf retrieves the direct children of a block, in order.
	ChildrenOf(ctx context.Context, uid core.UID) ([]*core.Block, error)

	// Descendants retrieves the blocks below root selected by the given
	// traversal rule. The root itself is not included.
	Descendants(ctx context.Context, root core.UID, rule TraversalRule) ([]*core.Block, error)

	// AncestorPath retrieves the chain of ancestors of a block, nearest
	// parent first, up to and including the page-level root block.
	AncestorPath(ctx context.Context, uid core.UID) ([]*core.Block, error)

	// ForEachBlock iterates every stored block. Returning ErrStopIteration
	// from fn stops the scan without error.
	ForEachBlock(ctx context.Context, fn func(*core.Block) error) error

	// BlocksEditedBetween retrieves blocks where start <= EditTime < end,
	// ordered by edit time ascending.
	BlocksEditedBetween(ctx context.Context, start, end time.Time) ([]*core.Block, error)
}

// PageRepository provides operations over pages.
type PageRepository interface {
	Repository

	// PutPages upserts one or more pages, keeping the title index consistent.
	PutPages(ctx context.Context, pages ...*core.Page) error

	// GetPage retrieves a single page by UID.
	// Returns ErrNotFound if the page doesn't exist.
	GetPage(ctx context.Context, uid core.UID) (*core.Page, error)

	// GetPageByTitle retrieves a page by its exact title (case-insensitive).
	// Returns ErrNotFound if no such page exists.
	GetPageByTitle(ctx context.Context, title string) (*core.Page, error)

	// DeletePages removes pages by UID.
	// Returns ErrNotFound if any page doesn't exist.
	DeletePages(ctx context.Context, uids ...core.UID) error

	// ForEachPage iterates every stored page. Returning ErrStopIteration
	// from fn stops the scan without error.
	ForEachPage(ctx context.Context, fn func(*core.Page) error) error
}
