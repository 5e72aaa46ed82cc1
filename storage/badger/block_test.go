package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/storage"
)

// seedTree stores a small block tree:
//
//	rootAAAAA
//	├── childBBBB
//	│   └── grandCCCC
//	│       └── deepDDDDD
//	└── childEEEE
func seedTree(t *testing.T, ctx context.Context, repo storage.BlockRepository) {
	t.Helper()
	now := time.Now().UTC()
	blocks := []*core.Block{
		{UID: "rootAAAAA", PageUID: "pageUID01", PageTitle: "Project Notes", Content: "root",
			ChildrenUIDs: []core.UID{"childBBBB", "childEEEE"}, EditTime: now},
		{UID: "childBBBB", PageUID: "pageUID01", PageTitle: "Project Notes", Content: "first child",
			ParentUID: "rootAAAAA", ChildrenUIDs: []core.UID{"grandCCCC"}, EditTime: now},
		{UID: "grandCCCC", PageUID: "pageUID01", PageTitle: "Project Notes", Content: "grandchild",
			ParentUID: "childBBBB", ChildrenUIDs: []core.UID{"deepDDDDD"}, EditTime: now},
		{UID: "deepDDDDD", PageUID: "pageUID01", PageTitle: "Project Notes", Content: "great grandchild",
			ParentUID: "grandCCCC", EditTime: now},
		{UID: "childEEEE", PageUID: "pageUID01", PageTitle: "Project Notes", Content: "second child",
			ParentUID: "rootAAAAA", EditTime: now},
	}
	if err := repo.PutBlocks(ctx, blocks...); err != nil {
		t.Fatalf("Failed to seed tree: %v", err)
	}
}

func TestBlockBasics(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()

	block := &core.Block{
		UID:       "blockUID1",
		Content:   "Hello, graph!",
		PageUID:   "pageUID01",
		PageTitle: "Project Notes",
		EditTime:  time.Now().UTC(),
	}

	if err := blockRepo.PutBlocks(ctx, block); err != nil {
		t.Fatalf("Failed to put block: %v", err)
	}

	retrieved, err := blockRepo.GetBlock(ctx, "blockUID1")
	if err != nil {
		t.Fatalf("Failed to get block: %v", err)
	}
	if retrieved.Content != "Hello, graph!" {
		t.Fatalf("Expected 'Hello, graph!', got '%s'", retrieved.Content)
	}

	_, err = blockRepo.GetBlock(ctx, "missing123")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestBlockUpsertKeepsEditIndexConsistent(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	block := &core.Block{UID: "blockUID1", Content: "v1", PageUID: "pageUID01", EditTime: t0}
	if err := blockRepo.PutBlocks(ctx, block); err != nil {
		t.Fatalf("Failed to put block: %v", err)
	}

	block.Content = "v2"
	block.EditTime = t1
	if err := blockRepo.PutBlocks(ctx, block); err != nil {
		t.Fatalf("Failed to update block: %v", err)
	}

	// Only the new edit time should be indexed.
	early, err := blockRepo.BlocksEditedBetween(ctx, t0.Add(-time.Hour), t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Range query failed: %v", err)
	}
	if len(early) != 0 {
		t.Fatalf("Expected stale index entry to be gone, got %d blocks", len(early))
	}

	late, err := blockRepo.BlocksEditedBetween(ctx, t1.Add(-time.Hour), t1.Add(time.Hour))
	if err != nil {
		t.Fatalf("Range query failed: %v", err)
	}
	if len(late) != 1 || late[0].Content != "v2" {
		t.Fatalf("Expected updated block in range, got %v", late)
	}
}

func TestDescendantTraversalRules(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()
	seedTree(t, ctx, blockRepo)

	uids := func(blocks []*core.Block) map[core.UID]bool {
		set := make(map[core.UID]bool, len(blocks))
		for _, b := range blocks {
			set[b.UID] = true
		}
		return set
	}

	direct, err := blockRepo.Descendants(ctx, "rootAAAAA", storage.TraverseDirectChildren)
	if err != nil {
		t.Fatalf("Direct traversal failed: %v", err)
	}
	if got := uids(direct); len(got) != 2 || !got["childBBBB"] || !got["childEEEE"] {
		t.Fatalf("Direct children wrong: %v", got)
	}

	twoLevels, err := blockRepo.Descendants(ctx, "rootAAAAA", storage.TraverseTwoLevels)
	if err != nil {
		t.Fatalf("Two-level traversal failed: %v", err)
	}
	if got := uids(twoLevels); len(got) != 3 || !got["grandCCCC"] || got["deepDDDDD"] {
		t.Fatalf("Two-level set wrong: %v", got)
	}

	subtree, err := blockRepo.Descendants(ctx, "rootAAAAA", storage.TraverseUnbounded)
	if err != nil {
		t.Fatalf("Unbounded traversal failed: %v", err)
	}
	if got := uids(subtree); len(got) != 4 || !got["deepDDDDD"] {
		t.Fatalf("Unbounded set wrong: %v", got)
	}
}

func TestAncestorPath(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()
	seedTree(t, ctx, blockRepo)

	path, err := blockRepo.AncestorPath(ctx, "deepDDDDD")
	if err != nil {
		t.Fatalf("AncestorPath failed: %v", err)
	}

	want := []core.UID{"grandCCCC", "childBBBB", "rootAAAAA"}
	if len(path) != len(want) {
		t.Fatalf("Expected %d ancestors, got %d", len(want), len(path))
	}
	for i, uid := range want {
		if path[i].UID != uid {
			t.Errorf("path[%d] = %s, want %s", i, path[i].UID, uid)
		}
	}
}

func TestForEachBlockEarlyStop(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()
	seedTree(t, ctx, blockRepo)

	count := 0
	err = blockRepo.ForEachBlock(ctx, func(b *core.Block) error {
		count++
		if count == 2 {
			return storage.ErrStopIteration
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachBlock failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected scan to stop at 2, visited %d", count)
	}
}

func TestDeleteBlocks(t *testing.T) {
	blockRepo, pageRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { pageRepo.Close(); blockRepo.Close(); backend.Close() }()

	ctx := context.Background()
	seedTree(t, ctx, blockRepo)

	if err := blockRepo.DeleteBlocks(ctx, "childEEEE"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := blockRepo.GetBlock(ctx, "childEEEE"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := blockRepo.DeleteBlocks(ctx, "childEEEE"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for double delete, got %v", err)
	}
}
