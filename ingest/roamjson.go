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
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/graphseek/core"
)

// exportBlock is one node of the nested export tree. Times are epoch
// milliseconds.
type exportBlock struct {
	String     string        `json:"string"`
	UID        string        `json:"uid"`
	EditTime   int64         `json:"edit-time"`
	CreateTime int64         `json:"create-time"`
	Children   []exportBlock `json:"children"`
}

// exportPage is one titled root of the export.
type exportPage struct {
	Title      string        `json:"title"`
	EditTime   int64         `json:"edit-time"`
	CreateTime int64         `json:"create-time"`
	Children   []exportBlock `json:"children"`
}

// Graph is a parsed export: pages plus the flattened block forest with
// parent and children links rebuilt.
type Graph struct {
	Pages  []*core.Page
	Blocks []*core.Block
}

// ParseExport decodes a graph export (a JSON array of pages with nested
// block children) and flattens it into pages and linked blocks. Blocks
// without a uid get a deterministic one derived from their content, so
// re-importing the same export is stable.
func ParseExport(r io.Reader) (*Graph, error) {
	var pages []exportPage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&pages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}

	g := &Graph{}
	for _, p := range pages {
		if p.Title == "" {
			return nil, fmt.Errorf("%w: page without title", ErrMalformedExport)
		}
		page := &core.Page{
			UID:        core.UIDFromContent(p.Title),
			Title:      p.Title,
			CreateTime: fromMillis(p.CreateTime),
			EditTime:   fromMillis(p.EditTime),
		}
		g.Pages = append(g.Pages, page)

		for i := range p.Children {
			if _, err := g.flattenBlock(&p.Children[i], page, ""); err != nil {
				return nil, err
			}
		}
	}
	g.addReferencedPages()
	return g, nil
}

// addReferencedPages creates a page record for every title referenced from
// block content ("[[Title]]", "#tag", "attribute::") that the export does not
// carry as a page of its own. Referencing a page is what brings it into
// existence; the record has no timestamps of its own.
func (g *Graph) addReferencedPages() {
	titled := make(map[string]bool, len(g.Pages))
	for _, p := range g.Pages {
		titled[p.Title] = true
	}
	for _, b := range g.Blocks {
		for _, title := range core.PageRefs(b.Content) {
			if titled[title] {
				continue
			}
			titled[title] = true
			g.Pages = append(g.Pages, &core.Page{
				UID:   core.UIDFromContent(title),
				Title: title,
			})
		}
	}
}

// flattenBlock appends the block and its subtree to the graph and returns
// the block's uid so the parent can record it in order.
func (g *Graph) flattenBlock(b *exportBlock, page *core.Page, parent core.UID) (core.UID, error) {
	uid := core.UID(b.UID)
	if uid == "" {
		uid = core.UIDFromContent(page.Title + "/" + b.String)
	}

	block := &core.Block{
		UID:       uid,
		Content:   b.String,
		PageUID:   page.UID,
		PageTitle: page.Title,
		EditTime:  fromMillis(b.EditTime),
		ParentUID: parent,
	}
	if err := core.ValidateBlock(block); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}
	g.Blocks = append(g.Blocks, block)

	for i := range b.Children {
		childUID, err := g.flattenBlock(&b.Children[i], page, uid)
		if err != nil {
			return "", err
		}
		block.ChildrenUIDs = append(block.ChildrenUIDs, childUID)
	}
	return uid, nil
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
