package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/storage"
)

// BlockRepository implements storage.BlockRepository for BadgerDB.
type BlockRepository struct {
	backend *Backend
}

var _ storage.BlockRepository = (*BlockRepository)(nil)

// NewBlockRepository creates a new BlockRepository.
func NewBlockRepository(backend *Backend) (*BlockRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &BlockRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *BlockRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *BlockRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutBlocks upserts one or more blocks, keeping the edit-time index consistent.
func (r *BlockRepository) PutBlocks(ctx context.Context, blocks ...*core.Block) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, block := range blocks {
			if err := core.ValidateBlock(block); err != nil {
				return err
			}

			key := makeBlockKey(block.UID)

			// Read old record to detect edit-time changes
			old, err := r.readBlock(tx, key)
			if err != nil {
				return err
			}
			if old != nil && !old.EditTime.Equal(block.EditTime) {
				if err := tx.Delete(makeBlockEditKey(old.EditTime, old.UID)); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalBlock(block)); err != nil {
				return err
			}

			editKey := makeBlockEditKey(block.EditTime, block.UID)
			if err := tx.Set(editKey, storage.MarshalUID(block.UID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetBlock retrieves a single block by UID.
func (r *BlockRepository) GetBlock(ctx context.Context, uid core.UID) (*core.Block, error) {
	var result *core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readBlock(tx, makeBlockKey(uid))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetBlocks retrieves multiple blocks by UID, skipping missing ones.
func (r *BlockRepository) GetBlocks(ctx context.Context, uids ...core.UID) ([]*core.Block, error) {
	var result []*core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, uid := range uids {
			block, err := r.readBlock(tx, makeBlockKey(uid))
			if err != nil {
				return err
			}
			if block != nil {
				result = append(result, block)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteBlocks removes blocks and their index entries by UID.
func (r *BlockRepository) DeleteBlocks(ctx context.Context, uids ...core.UID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, uid := range uids {
			key := makeBlockKey(uid)
			block, err := r.readBlock(tx, key)
			if err != nil {
				return err
			}
			if block == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeBlockEditKey(block.EditTime, block.UID)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ChildrenOf retrieves the direct children of a block, in stored order.
func (r *BlockRepository) ChildrenOf(ctx context.Context, uid core.UID) ([]*core.Block, error) {
	var result []*core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		parent, err := r.readBlock(tx, makeBlockKey(uid))
		if err != nil {
			return err
		}
		if parent == nil {
			return storage.ErrNotFound
		}
		result, err = r.readChildren(tx, parent)
		return err
	}, false)
	return result, err
}

// Descendants retrieves the blocks below root selected by the traversal rule.
// Each rule is its own iteration strategy; depth is never enforced by
// filtering a deeper walk.
func (r *BlockRepository) Descendants(ctx context.Context, root core.UID, rule storage.TraversalRule) ([]*core.Block, error) {
	var result []*core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		rootBlock, err := r.readBlock(tx, makeBlockKey(root))
		if err != nil {
			return err
		}
		if rootBlock == nil {
			return storage.ErrNotFound
		}

		switch rule {
		case storage.TraverseDirectChildren:
			result, err = r.readChildren(tx, rootBlock)
		case storage.TraverseTwoLevels:
			result, err = r.readTwoLevels(tx, rootBlock)
		case storage.TraverseUnbounded:
			result, err = r.readSubtree(ctx, tx, rootBlock)
		default:
			err = storage.ErrNotFound
		}
		return err
	}, false)
	return result, err
}

// readChildren resolves the direct children of a block.
func (r *BlockRepository) readChildren(tx *badger.Txn, parent *core.Block) ([]*core.Block, error) {
	children := make([]*core.Block, 0, len(parent.ChildrenUIDs))
	for _, uid := range parent.ChildrenUIDs {
		child, err := r.readBlock(tx, makeBlockKey(uid))
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}

// readTwoLevels resolves children and grandchildren in two explicit passes.
func (r *BlockRepository) readTwoLevels(tx *badger.Txn, root *core.Block) ([]*core.Block, error) {
	children, err := r.readChildren(tx, root)
	if err != nil {
		return nil, err
	}
	result := children
	for _, child := range children {
		grandchildren, err := r.readChildren(tx, child)
		if err != nil {
			return nil, err
		}
		result = append(result, grandchildren...)
	}
	return result, nil
}

// readSubtree walks the whole subtree breadth-first.
func (r *BlockRepository) readSubtree(ctx context.Context, tx *badger.Txn, root *core.Block) ([]*core.Block, error) {
	var result []*core.Block
	queue := []*core.Block{root}
	visited := map[core.UID]bool{root.UID: true}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue[0]
		queue = queue[1:]

		children, err := r.readChildren(tx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.UID] {
				continue
			}
			visited[child.UID] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result, nil
}

// AncestorPath retrieves the chain of ancestors of a block, nearest parent
// first, up to the page-level root block.
func (r *BlockRepository) AncestorPath(ctx context.Context, uid core.UID) ([]*core.Block, error) {
	var result []*core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		block, err := r.readBlock(tx, makeBlockKey(uid))
		if err != nil {
			return err
		}
		if block == nil {
			return storage.ErrNotFound
		}

		seen := map[core.UID]bool{block.UID: true}
		for block.ParentUID != "" {
			parent, err := r.readBlock(tx, makeBlockKey(block.ParentUID))
			if err != nil {
				return err
			}
			if parent == nil || seen[parent.UID] {
				break
			}
			seen[parent.UID] = true
			result = append(result, parent)
			block = parent
		}
		return nil
	}, false)
	return result, err
}

// ForEachBlock iterates every stored block record.
func (r *BlockRepository) ForEachBlock(ctx context.Context, fn func(*core.Block) error) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(blockRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		count := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
			if count%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			var block *core.Block
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				block, err = storage.UnmarshalBlock(val)
				return err
			}); err != nil {
				return err
			}
			if block == nil {
				continue
			}
			if err := fn(block); err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err == storage.ErrStopIteration {
		return nil
	}
	return err
}

// BlocksEditedBetween retrieves blocks where start <= EditTime < end.
func (r *BlockRepository) BlocksEditedBetween(ctx context.Context, start, end time.Time) ([]*core.Block, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Block
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialBlockEditKey(start)
		endKey := makePartialBlockEditKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) >= 0 {
				break
			}

			var uid core.UID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				uid, err = storage.UnmarshalUID(val)
				return err
			}); err != nil {
				return err
			}

			block, err := r.readBlock(tx, makeBlockKey(uid))
			if err != nil {
				return err
			}
			if block != nil {
				results = append(results, block)
			}
		}
		return nil
	}, false)
	return results, err
}

// readBlock reads and unmarshals a block, returning nil when absent.
func (r *BlockRepository) readBlock(tx *badger.Txn, key []byte) (*core.Block, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var block *core.Block
	err = item.Value(func(val []byte) error {
		var err error
		block, err = storage.UnmarshalBlock(val)
		return err
	})
	return block, err
}
