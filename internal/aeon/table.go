package aeon

import (
	"fmt"
	"sort"
)

// Table is an immutable lookup structure over instruction templates. It is
// built and validated once and can then be shared freely between goroutines.
type Table struct {
	byLength map[int][]*Template
}

// NewTable compiles and validates the given templates into a lookup table.
// Validation fails if a template's pattern is malformed, an operand spec
// references a missing field, or two templates of the same length and
// priority can match the same instruction word.
func NewTable(templates []Template) (*Table, error) {
	table := &Table{
		byLength: map[int][]*Template{},
	}

	for i := range templates {
		tpl := &templates[i]
		if err := tpl.compile(); err != nil {
			return nil, err
		}
		table.byLength[tpl.Length] = append(table.byLength[tpl.Length], tpl)
	}

	for _, group := range table.byLength {
		if err := checkOverlaps(group); err != nil {
			return nil, err
		}

		// higher priority first, then more specific masks, declaration
		// order last so lookups are deterministic
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Priority != group[j].Priority {
				return group[i].Priority > group[j].Priority
			}
			return group[i].maskSpecificity() > group[j].maskSpecificity()
		})
	}

	return table, nil
}

// checkOverlaps rejects same-priority templates that can both match one
// instruction word. Overlaps across different priorities are fine, lookup
// order resolves them.
func checkOverlaps(group []*Template) error {
	for i, tpl := range group {
		for _, other := range group[i+1:] {
			if tpl.Priority != other.Priority {
				continue
			}
			if tpl.overlaps(other) {
				return fmt.Errorf("templates %s (%q) and %s (%q) overlap at priority %d",
					tpl.Mnemonic, tpl.Pattern, other.Mnemonic, other.Pattern, tpl.Priority)
			}
		}
	}
	return nil
}

// Lookup returns the best matching template for an instruction word of the
// given byte length, or false if no template matches.
func (t *Table) Lookup(length int, word uint32) (*Template, bool) {
	for _, tpl := range t.byLength[length] {
		if tpl.Match(word) {
			return tpl, true
		}
	}
	return nil, false
}

// Size returns the number of templates in the table.
func (t *Table) Size() int {
	size := 0
	for _, group := range t.byLength {
		size += len(group)
	}
	return size
}
