package core

//go:generate go run ../cmd/musgen

import (
	"encoding/base64"
	"regexp"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// UID is the stable 9-character identifier of a block or page.
type UID string

// UIDLength is the canonical length of a block or page identifier.
const UIDLength = 9

// UIDFromContent generates a deterministic UID from text content using
// BLAKE2b hashing. Identical content produces identical UIDs.
func UIDFromContent(text string) UID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return UID(base64.RawURLEncoding.EncodeToString(sum)[:UIDLength])
}

// NewUID generates a fresh random UID.
func NewUID() UID {
	return UIDFromContent(uuid.NewString())
}

// Block is the atomic content unit of the graph. Content may embed page
// references ("[[X]]", "#X"), attributes ("X::"), or block references
// ("((uid))"). Blocks form a forest rooted at pages: every block has exactly
// one parent chain up to its page.
type Block struct {
	UID          UID
	Content      string
	PageUID      UID
	PageTitle    string
	EditTime     time.Time
	ParentUID    UID   // empty for page-level roots
	ChildrenUIDs []UID // ordered
}

// IsPageRoot reports whether the block sits directly under its page.
func (b *Block) IsPageRoot() bool {
	return b.ParentUID == ""
}

// Page is a titled root container of a block tree.
type Page struct {
	UID        UID
	Title      string
	CreateTime time.Time
	EditTime   time.Time
}

// dailyTitlePattern matches daily note page titles, e.g. "August 28th, 2026".
var dailyTitlePattern = regexp.MustCompile(
	`^(January|February|March|April|May|June|July|August|September|October|November|December) ` +
		`\d{1,2}(st|nd|rd|th), \d{4}$`)

// IsDaily reports whether the page is a daily note page (date-titled).
func (p *Page) IsDaily() bool {
	return IsDailyTitle(p.Title)
}

// IsDailyTitle reports whether a page title follows the daily note pattern.
func IsDailyTitle(title string) bool {
	return dailyTitlePattern.MatchString(title)
}

var (
	pageRefPattern  = regexp.MustCompile(`\[\[([^\[\]]+)\]\]|#([\w-]+)|(?m)^([\w-]+)::`)
	blockRefPattern = regexp.MustCompile(`\(\(([\w-]{9})\)\)`)
)

// PageRefs extracts the page titles referenced in content, in order of
// appearance. Covers "[[Title]]", "#tag" and "attribute::" forms.
func PageRefs(content string) []string {
	var refs []string
	for _, m := range pageRefPattern.FindAllStringSubmatch(content, -1) {
		for _, g := range m[1:] {
			if g != "" {
				refs = append(refs, g)
				break
			}
		}
	}
	return refs
}

// BlockRefs extracts the block UIDs referenced in content via "((uid))".
func BlockRefs(content string) []UID {
	var refs []UID
	for _, m := range blockRefPattern.FindAllStringSubmatch(content, -1) {
		refs = append(refs, UID(m[1]))
	}
	return refs
}

// ConditionType identifies what kind of content a condition tests.
type ConditionType int

const (
	// ConditionText matches free text inside block content.
	ConditionText ConditionType = iota + 1
	// ConditionPageRef matches a page reference in any of its syntaxes.
	ConditionPageRef
	// ConditionBlockRef matches a block reference "((uid))".
	ConditionBlockRef
	// ConditionRegex treats the condition text as a raw regular expression.
	ConditionRegex
)

// MatchType identifies how condition text is compared against content.
type MatchType int

const (
	// MatchContains is a substring match (the default).
	MatchContains MatchType = iota + 1
	// MatchExact is a word-boundary-anchored, case-sensitive match.
	MatchExact
	// MatchRegex compares using the condition text as a regular expression.
	MatchRegex
)

// SearchCondition is one atomic test against block content.
type SearchCondition struct {
	Text              string
	Type              ConditionType
	Match             MatchType
	Negate            bool
	SemanticExpansion bool
	CaseSensitive     bool
}

// MaxSearchItems caps the number of conjunctive items in a search list.
// More conjuncts multiply query cost without improving precision in practice.
const MaxSearchItems = 4

// SearchItem is one conjunct of a search list: its alternatives are joined
// by OR. Negate marks the item as an exclusion (at most one per list).
// TopBlock marks the item as hierarchy-pinned: it must match an ancestor
// rather than the result block itself.
type SearchItem struct {
	Alternatives []SearchCondition
	Negate       bool
	TopBlock     bool
}

// SearchList is the compiled symbolic query: an ordered sequence of items
// joined by AND.
type SearchList struct {
	Items []SearchItem
}

// HasHierarchy reports whether any item carries a hierarchy role.
func (l *SearchList) HasHierarchy() bool {
	for _, item := range l.Items {
		if item.TopBlock {
			return true
		}
	}
	return false
}

// Filter is the compiled form of one search list item: an OR-joined regular
// expression plus exclusion and hierarchy-role flags.
type Filter struct {
	RegexString      string
	IsToExclude      bool
	IsTopBlockFilter bool
}

// Compile builds the regular expression for the filter.
func (f Filter) Compile() (*regexp.Regexp, error) {
	return regexp.Compile(f.RegexString)
}

// MatchResult is a block that satisfied some subset of filters, with sample
// matching descendant contents attached for display and ranking.
type MatchResult struct {
	UID                  UID
	Content              string
	EditTime             time.Time
	PageTitle            string
	ChildMatchingContent []string
}

// DepthLimitation selects how many hierarchy levels below a matching anchor
// block are searched for remaining conditions. Values 0, 1 and 2 come
// straight from the interpreter schema; DepthUnbounded means no restriction
// was requested.
type DepthLimitation int

const (
	// DepthUnbounded searches the whole subtree of an anchor block.
	DepthUnbounded DepthLimitation = -1
	// DepthSameBlock requires all conditions on the block itself.
	DepthSameBlock DepthLimitation = 0
	// DepthDirectChildren searches the anchor and its direct children.
	DepthDirectChildren DepthLimitation = 1
	// DepthTwoLevels searches the anchor, children and grandchildren.
	DepthTwoLevels DepthLimitation = 2
)

// PagesScopeKind identifies how results are limited by page.
type PagesScopeKind int

const (
	// ScopeAllPages applies no page limitation.
	ScopeAllPages PagesScopeKind = iota
	// ScopeDailyPages limits results to daily note pages.
	ScopeDailyPages
	// ScopeTitlePattern limits results to pages whose title matches a pattern.
	ScopeTitlePattern
)

// PagesLimitation scopes a query to a subset of pages.
type PagesLimitation struct {
	Kind         PagesScopeKind
	TitlePattern string // used when Kind == ScopeTitlePattern
}

// Allows reports whether a block on the given page falls inside the scope.
func (p PagesLimitation) Allows(pageTitle string) bool {
	switch p.Kind {
	case ScopeDailyPages:
		return IsDailyTitle(pageTitle)
	case ScopeTitlePattern:
		matched, err := regexp.MatchString("(?i)"+p.TitlePattern, pageTitle)
		return err == nil && matched
	default:
		return true
	}
}

// Period is a time window over block edit times. Begin and End are dates;
// the window covers [start of Begin's day, start of the day after End), so a
// block edited at 23:59:59 on the end date is still inside.
type Period struct {
	Begin time.Time
	End   time.Time
}

// IsZero reports whether no period was requested.
func (p Period) IsZero() bool {
	return p.Begin.IsZero() && p.End.IsZero()
}

// Contains reports whether t falls inside the period, inclusive of the whole
// end day.
func (p Period) Contains(t time.Time) bool {
	if p.IsZero() {
		return true
	}
	if !p.Begin.IsZero() {
		begin := p.Begin.Truncate(24 * time.Hour)
		if t.Before(begin) {
			return false
		}
	}
	if !p.End.IsZero() {
		endOfDay := p.End.Truncate(24 * time.Hour).Add(24 * time.Hour)
		if !t.Before(endOfDay) {
			return false
		}
	}
	return true
}
