// Package region infers state/province abbreviations from university names
// using static per-country region and city tables.
package region

import (
	"maps"
	"sort"
	"strings"
)

// Table maps full region names (and optionally city names) of one country to
// region abbreviations.
type Table struct {
	Country string            `yaml:"country"`
	Aliases []string          `yaml:"aliases,omitempty"`
	Regions map[string]string `yaml:"regions"`
	Cities  map[string]string `yaml:"cities,omitempty"`
}

// entry is a single name → abbreviation pair with its folded form precomputed.
type entry struct {
	name   string
	folded string
	abbr   string
}

// compiled is the frozen, ordered form of a Table.
type compiled struct {
	country string
	regions []entry
	cities  []entry
	byName  map[string]string // folded region name → abbr
	codes   map[string]bool
}

// Registry holds compiled tables keyed by folded country name. A Registry is
// immutable after construction and safe for concurrent reads.
type Registry struct {
	tables map[string]*compiled
}

// NewRegistry compiles the given tables. Later tables for the same country
// are merged over earlier ones, entry by entry.
func NewRegistry(tables ...Table) *Registry {
	merged := make(map[string]*Table)
	var order []string

	for _, t := range tables {
		key := Fold(t.Country)
		if key == "" {
			continue
		}
		cur, ok := merged[key]
		if !ok {
			cur = &Table{
				Country: t.Country,
				Regions: make(map[string]string),
				Cities:  make(map[string]string),
			}
			merged[key] = cur
			order = append(order, key)
		}
		cur.Aliases = append(cur.Aliases, t.Aliases...)
		maps.Copy(cur.Regions, t.Regions)
		maps.Copy(cur.Cities, t.Cities)
	}

	r := &Registry{tables: make(map[string]*compiled, len(merged))}
	for _, key := range order {
		t := merged[key]
		c := compile(*t)
		r.tables[key] = c
		for _, alias := range t.Aliases {
			if a := Fold(alias); a != "" {
				if _, taken := r.tables[a]; !taken {
					r.tables[a] = c
				}
			}
		}
	}
	return r
}

func compile(t Table) *compiled {
	c := &compiled{
		country: t.Country,
		regions: sortedEntries(t.Regions),
		cities:  sortedEntries(t.Cities),
		byName:  make(map[string]string, len(t.Regions)),
		codes:   make(map[string]bool, len(t.Regions)),
	}
	for _, e := range c.regions {
		c.byName[e.folded] = e.abbr
		c.codes[e.abbr] = true
	}
	return c
}

// sortedEntries orders entries longest folded name first, then lexically,
// so that "West Virginia" is tried before "Virginia".
func sortedEntries(m map[string]string) []entry {
	out := make([]entry, 0, len(m))
	for name, abbr := range m {
		f := Fold(name)
		abbr = strings.ToUpper(strings.TrimSpace(abbr))
		if f == "" || abbr == "" {
			continue
		}
		out = append(out, entry{name: name, folded: f, abbr: abbr})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].folded) != len(out[j].folded) {
			return len(out[i].folded) > len(out[j].folded)
		}
		return out[i].folded < out[j].folded
	})
	return out
}

// Countries returns the canonical country names that have a table, sorted.
func (r *Registry) Countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.tables {
		if !seen[c.country] {
			seen[c.country] = true
			out = append(out, c.country)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether a table exists for the country.
func (r *Registry) Has(country string) bool {
	_, ok := r.tables[Fold(country)]
	return ok
}

func (r *Registry) lookup(country string) *compiled {
	return r.tables[Fold(country)]
}
