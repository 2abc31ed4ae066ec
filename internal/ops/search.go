package ops

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

// Search limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	MaxQueryLength     = 200
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // required
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// SearchResultItem is a workspace summary plus where the query matched.
type SearchResultItem struct {
	Summary
	// Matches lists "name", "description", and "tab:<title>" for each hit.
	Matches []string `json:"matches"`
	score   int
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// Search finds workspaces whose name, description, or tab titles contain
// every query term, case-insensitively. Name hits rank above description
// hits, which rank above tab hits; ties keep creation order.
func Search(ctx context.Context, d *Deps, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}

	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(workspace.NormalizeName(query))
	current := m.GetCurrentWorkspaceID()

	var hits []SearchResultItem
	for _, w := range m.GetWorkspaces() {
		if item, ok := matchWorkspace(w, terms); ok {
			item.Summary = summarize(w, current)
			hits = append(hits, item)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	offset := max(input.Offset, 0)

	items := []SearchResultItem{}
	for i := offset; i < len(hits) && len(items) < limit; i++ {
		items = append(items, hits[i])
	}

	return &SearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < len(hits),
			Total:   len(hits),
		},
		Sort: "relevance",
	}, nil
}

type searchField struct {
	label  string
	text   string
	weight int
}

func matchWorkspace(w workspace.Workspace, terms []string) (SearchResultItem, bool) {
	fields := []searchField{
		{"name", w.Name, 10},
		{"description", w.Description, 3},
	}
	for _, t := range w.Tabs {
		fields = append(fields, searchField{"tab:" + t.Title, t.Title, 1})
	}

	item := SearchResultItem{Matches: []string{}}
	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(workspace.NormalizeName(f.text), term) {
				found = true
				item.score += f.weight
			}
		}
		if !found {
			return SearchResultItem{}, false
		}
	}

	for _, f := range fields {
		text := workspace.NormalizeName(f.text)
		for _, term := range terms {
			if strings.Contains(text, term) {
				item.Matches = append(item.Matches, f.label)
				break
			}
		}
	}
	return item, true
}
