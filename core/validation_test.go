package core

import (
	"errors"
	"testing"
)

func textCondition(text string) SearchCondition {
	return SearchCondition{Text: text, Type: ConditionText, Match: MatchContains}
}

func TestValidateBlock(t *testing.T) {
	tests := []struct {
		name    string
		block   *Block
		wantErr error
	}{
		{
			name:    "valid block",
			block:   &Block{UID: "abcdefghi", PageUID: "pageuid12", Content: "hello"},
			wantErr: nil,
		},
		{
			name:    "valid empty content",
			block:   &Block{UID: "abcdefghi", PageUID: "pageuid12"},
			wantErr: nil,
		},
		{
			name:    "nil block",
			block:   nil,
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "missing uid",
			block:   &Block{PageUID: "pageuid12"},
			wantErr: ErrInvalidUID,
		},
		{
			name:    "missing page uid",
			block:   &Block{UID: "abcdefghi"},
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "self parent",
			block:   &Block{UID: "abcdefghi", PageUID: "pageuid12", ParentUID: "abcdefghi"},
			wantErr: ErrInvalidBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlock(tt.block)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	tests := []struct {
		name    string
		page    *Page
		wantErr error
	}{
		{"valid", &Page{UID: "pageuid12", Title: "Notes"}, nil},
		{"nil", nil, ErrInvalidPage},
		{"missing uid", &Page{Title: "Notes"}, ErrInvalidUID},
		{"missing title", &Page{UID: "pageuid12"}, ErrEmptyTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePage(tt.page)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchList(t *testing.T) {
	item := func(negate bool, texts ...string) SearchItem {
		var alts []SearchCondition
		for _, text := range texts {
			alts = append(alts, textCondition(text))
		}
		return SearchItem{Alternatives: alts, Negate: negate}
	}

	tests := []struct {
		name    string
		list    *SearchList
		wantErr error
	}{
		{
			name:    "valid two conjuncts",
			list:    &SearchList{Items: []SearchItem{item(false, "sugar"), item(false, "vanilla", "chocolate")}},
			wantErr: nil,
		},
		{
			name:    "valid with one negation",
			list:    &SearchList{Items: []SearchItem{item(false, "recipe"), item(true, "meat")}},
			wantErr: nil,
		},
		{
			name:    "nil list",
			list:    nil,
			wantErr: ErrInvalidSearchList,
		},
		{
			name:    "empty list",
			list:    &SearchList{},
			wantErr: ErrInvalidSearchList,
		},
		{
			name: "too many conjuncts",
			list: &SearchList{Items: []SearchItem{
				item(false, "a"), item(false, "b"), item(false, "c"),
				item(false, "d"), item(false, "e"),
			}},
			wantErr: ErrTooManyItems,
		},
		{
			name:    "two negations",
			list:    &SearchList{Items: []SearchItem{item(true, "a"), item(true, "b")}},
			wantErr: ErrMultipleExclusions,
		},
		{
			name:    "empty item",
			list:    &SearchList{Items: []SearchItem{{}}},
			wantErr: ErrEmptyItem,
		},
		{
			name:    "wildcard with sibling condition",
			list:    &SearchList{Items: []SearchItem{item(false, ".*", "budget")}},
			wantErr: ErrBareWildcardWithCondition,
		},
		{
			name:    "bare wildcard alone is fine",
			list:    &SearchList{Items: []SearchItem{item(false, ".*")}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchList(tt.list)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilters(t *testing.T) {
	t.Run("single exclusion ok", func(t *testing.T) {
		filters := []Filter{
			{RegexString: "(?i)(?:sugar)"},
			{RegexString: "(?i)(?:meat)", IsToExclude: true},
		}
		if err := ValidateFilters(filters); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("two exclusions rejected", func(t *testing.T) {
		filters := []Filter{
			{RegexString: "a", IsToExclude: true},
			{RegexString: "b", IsToExclude: true},
		}
		if !errors.Is(ValidateFilters(filters), ErrMultipleExclusions) {
			t.Error("expected ErrMultipleExclusions")
		}
	})

	t.Run("broken regex rejected", func(t *testing.T) {
		filters := []Filter{{RegexString: "("}}
		if !errors.Is(ValidateFilters(filters), ErrInvalidSearchList) {
			t.Error("expected ErrInvalidSearchList")
		}
	})
}
