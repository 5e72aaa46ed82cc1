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


// Command seeder populates a database with a small sample graph for local
// experimentation: a few topic pages, a handful of daily notes, and nested
// blocks with page references and attributes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/graphseek"
	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/ingest"
)

// seedBlock describes one sample block and its subtree.
type seedBlock struct {
	content  string
	children []seedBlock
}

// seedPage describes one sample page.
type seedPage struct {
	title  string
	blocks []seedBlock
}

var samplePages = []seedPage{
	{
		title: "Sourdough Baking",
		blocks: []seedBlock{
			{content: "starter maintenance", children: []seedBlock{
				{content: "feed 1:1:1 with rye flour every morning"},
				{content: "keep at 24C, refrigerate when travelling"},
			}},
			{content: "country loaf recipe", children: []seedBlock{
				{content: "autolyse 45 minutes before adding salt"},
				{content: "bulk ferment until the dough doubles", children: []seedBlock{
					{content: "stretch and fold four times in the first two hours"},
				}},
				{content: "bake at 250C in the dutch oven"},
			}},
			{content: "crumb too dense last time, try higher hydration #experiment"},
		},
	},
	{
		title: "Garden Plan",
		blocks: []seedBlock{
			{content: "spring planting", children: []seedBlock{
				{content: "tomatoes go against the south wall"},
				{content: "basil between the tomato rows, they grow well together"},
			}},
			{content: "soil:: sandy loam, pH 6.8"},
			{content: "order seeds from [[Suppliers]] before February"},
		},
	},
	{
		title: "Suppliers",
		blocks: []seedBlock{
			{content: "Meadow Seeds ships within a week"},
			{content: "the mill on Baker street sells rye flour in bulk"},
		},
	},
	{
		title: "Reading Notes",
		blocks: []seedBlock{
			{content: "The Art of Fermentation", children: []seedBlock{
				{content: "wild yeast is everywhere, capture differs by climate"},
				{content: "salt slows fermentation but strengthens gluten"},
			}},
		},
	},
}

var dailyBlocks = map[string][]seedBlock{
	"August 25th, 2026": {
		{content: "fed the starter earlier than usual"},
		{content: "TODO order bread flour from [[Suppliers]]"},
	},
	"August 26th, 2026": {
		{content: "tomatoes showing first fruit #garden"},
		{content: "mixed a test dough at 80% hydration", children: []seedBlock{
			{content: "much stickier, needed wet hands for folds"},
		}},
	},
	"August 27th, 2026": {
		{content: "the 80% loaf came out with an open crumb, keeping this ratio"},
	},
}

func main() {
	dbPath := flag.String("db", "graphseek.db", "Path to the BadgerDB database directory")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*dbPath); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(dbPath string) error {
	agent, err := graphseek.NewAgent(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer agent.Close()

	importer, err := agent.NewImporter()
	if err != nil {
		return err
	}
	defer importer.Release()

	graph := buildGraph()
	if err := importer.Load(context.Background(), graph); err != nil {
		return err
	}

	slog.Info("sample graph seeded",
		"db", dbPath, "pages", len(graph.Pages), "blocks", len(graph.Blocks))
	return nil
}

// buildGraph assembles the sample pages into an importable graph. Edit times
// are spread over the last days so recency ranking has something to order.
func buildGraph() *ingest.Graph {
	g := &ingest.Graph{}
	now := time.Now().UTC().Truncate(time.Hour)
	offset := 0

	addPage := func(title string, blocks []seedBlock) {
		page := &core.Page{
			UID:        core.UIDFromContent(title),
			Title:      title,
			CreateTime: now.Add(-72 * time.Hour),
			EditTime:   now,
		}
		g.Pages = append(g.Pages, page)
		for _, b := range blocks {
			addBlock(g, page, "", b, now, &offset)
		}
	}

	for _, p := range samplePages {
		addPage(p.title, p.blocks)
	}
	for title, blocks := range dailyBlocks {
		addPage(title, blocks)
	}
	return g
}

func addBlock(g *ingest.Graph, page *core.Page, parent core.UID, b seedBlock, base time.Time, offset *int) core.UID {
	*offset++
	block := &core.Block{
		UID:       core.UIDFromContent(page.Title + "/" + b.content),
		Content:   b.content,
		PageUID:   page.UID,
		PageTitle: page.Title,
		EditTime:  base.Add(-time.Duration(*offset) * time.Minute),
		ParentUID: parent,
	}
	g.Blocks = append(g.Blocks, block)

	for _, child := range b.children {
		childUID := addBlock(g, page, block.UID, child, base, offset)
		block.ChildrenUIDs = append(block.ChildrenUIDs, childUID)
	}
	return block.UID
}
