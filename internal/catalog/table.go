// Package catalog holds the anime dataset as a typed, read-only table.
package catalog

import (
	"slices"
	"sort"
	"strings"
)

// Table is safe for concurrent reads; nothing mutates it after load.
type Table struct {
	columns []string
	items   []Item
	byID    map[int][]int
}

func newTable(columns []string, items []Item) *Table {
	byID := make(map[int][]int, len(items))
	for pos, item := range items {
		byID[item.ID] = append(byID[item.ID], pos)
	}

	return &Table{
		columns: columns,
		items:   items,
		byID:    byID,
	}
}

func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

func (t *Table) Len() int {
	return len(t.items)
}

// All returns every row in canonical (file) order.
// The result has no spare capacity, so appending to it never touches the table.
func (t *Table) All() []Item {
	return t.items[:len(t.items):len(t.items)]
}

// Get returns the first row carrying id.
func (t *Table) Get(id int) (Item, bool) {
	positions, ok := t.byID[id]
	if !ok {
		return Item{}, false
	}
	return t.items[positions[0]], true
}

// RowsByIDs returns every row whose id is in ids, in canonical order.
// Input order and duplicate ids have no effect on the result.
func (t *Table) RowsByIDs(ids []int) []Item {
	seen := make(map[int]struct{}, len(ids))
	var positions []int
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		positions = append(positions, t.byID[id]...)
	}
	sort.Ints(positions)

	rows := make([]Item, 0, len(positions))
	for _, pos := range positions {
		rows = append(rows, t.items[pos])
	}
	return rows
}

// RowsByGenres returns rows where at least one requested genre is a substring
// of the row's Genres text. Matching is case-sensitive.
func (t *Table) RowsByGenres(genres []string) []Item {
	if len(genres) == 0 {
		return t.All()
	}

	var rows []Item
	for _, item := range t.items {
		if matchesAny(item.Genres, genres) {
			rows = append(rows, item)
		}
	}
	return rows
}

func matchesAny(field string, genres []string) bool {
	for _, genre := range genres {
		if strings.Contains(field, genre) {
			return true
		}
	}
	return false
}

// Genres lists the distinct comma-separated genre names across the table.
func (t *Table) Genres() []string {
	set := make(map[string]struct{})
	for _, item := range t.items {
		for _, g := range strings.Split(item.Genres, ",") {
			g = strings.TrimSpace(g)
			if g != "" {
				set[g] = struct{}{}
			}
		}
	}

	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}
