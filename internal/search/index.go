// Package search implements ranked keyword search over the component
// catalog. The index is a precomputed lowercase view over the store, built
// once at startup and never mutated.
package search

import (
	"sort"
	"strings"

	"github.com/loomkit/loom/internal/catalog"
)

// ExactMatchScore is the fixed score assigned by the exact-name fast path.
// It must exceed any score reachable through term matching so exact lookups
// are never out-ranked by a fuzzy match on a different component.
const ExactMatchScore = 100

// Field weights for term matching. The relative ordering
// (alias > name > use-case > description > kind > prop) is load-bearing:
// consumers assert specific components rank first for fixed queries.
const (
	weightName        = 10
	weightNameExact   = 5 // bonus on top of weightName
	weightKind        = 3
	weightDescription = 5
	weightUseCase     = 7 // per matching use case
	weightAlias       = 8
	weightAliasExact  = 5 // bonus on exact alias equality to the full query
	weightProp        = 2
)

// Result pairs a catalog record with its relevance score.
type Result struct {
	Record *catalog.ComponentRecord
	Score  int
}

// entry is the denormalized lowercase view of one record.
type entry struct {
	record      *catalog.ComponentRecord
	name        string
	kind        string
	description string
	useCases    []string
	aliases     []string
	props       []string
}

// Index holds the precomputed search entries in catalog order.
type Index struct {
	entries []entry
}

// New builds the index over every record in the store.
func New(store *catalog.Store) *Index {
	records := store.List(0)
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entry{
			record:      rec,
			name:        strings.ToLower(rec.Name),
			kind:        strings.ToLower(rec.Kind),
			description: strings.ToLower(rec.Description),
			useCases:    lowerAll(rec.UseCases),
			aliases:     lowerAll(rec.Aliases),
			props:       lowerAll(rec.PropNames),
		})
	}
	return &Index{entries: entries}
}

// Search returns matching records ordered by descending score, with catalog
// order breaking ties. An exact (case-insensitive) name match short-circuits
// with ExactMatchScore.
func (idx *Index) Search(query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	// Fast path: exact name lookup
	for i := range idx.entries {
		if idx.entries[i].name == q {
			return []Result{{Record: idx.entries[i].record, Score: ExactMatchScore}}
		}
	}

	terms := strings.Fields(q)
	if len(terms) == 0 {
		return nil
	}

	var results []Result
	for i := range idx.entries {
		score := idx.entries[i].score(terms, q)
		if score > 0 {
			results = append(results, Result{Record: idx.entries[i].record, Score: score})
		}
	}

	// Stable: catalog order breaks ties
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	return results
}

// score accumulates weighted hits for every term against the entry's fields.
func (e *entry) score(terms []string, fullQuery string) int {
	score := 0
	for _, term := range terms {
		if strings.Contains(e.name, term) {
			score += weightName
			if term == e.name {
				score += weightNameExact
			}
		}
		if e.kind != "" && strings.Contains(e.kind, term) {
			score += weightKind
		}
		if e.description != "" && strings.Contains(e.description, term) {
			score += weightDescription
		}
		for _, uc := range e.useCases {
			if strings.Contains(uc, term) {
				score += weightUseCase
			}
		}
		for _, alias := range e.aliases {
			if strings.Contains(alias, term) {
				score += weightAlias
				if alias == fullQuery {
					score += weightAliasExact
				}
			}
		}
		for _, prop := range e.props {
			if strings.Contains(prop, term) {
				score += weightProp
			}
		}
	}
	return score
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
