// Package evidence gathers cross-lingual evidence for a translation-memory
// match by round-tripping its sub-segments through machine-translation
// providers.
package evidence

import (
	"sort"

	"github.com/valpere/edithints/internal/segment"
)

// Dictionary aligns source-language sub-segment texts with the
// target-language texts they were translated to or from. Keys and values are
// normalized; duplicate pairs collapse.
type Dictionary struct {
	pairs map[string]map[string]struct{}
	size  int
}

func NewDictionary() *Dictionary {
	return &Dictionary{pairs: make(map[string]map[string]struct{})}
}

// Add records that source and target are translations of each other. Pairs
// with an empty side are ignored.
func (d *Dictionary) Add(source, target string) {
	source, target = segment.Normalize(source), segment.Normalize(target)
	if source == "" || target == "" {
		return
	}
	targets, ok := d.pairs[source]
	if !ok {
		targets = make(map[string]struct{})
		d.pairs[source] = targets
	}
	if _, dup := targets[target]; !dup {
		targets[target] = struct{}{}
		d.size++
	}
}

// Has reports whether the pair is present.
func (d *Dictionary) Has(source, target string) bool {
	if d == nil {
		return false
	}
	_, ok := d.pairs[segment.Normalize(source)][segment.Normalize(target)]
	return ok
}

// Targets returns the texts aligned with source, sorted.
func (d *Dictionary) Targets(source string) []string {
	if d == nil {
		return nil
	}
	return sortedKeys(d.pairs[segment.Normalize(source)])
}

// Sources returns every source text, sorted.
func (d *Dictionary) Sources() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.pairs))
	for s := range d.pairs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct pairs.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

// Each calls fn for every pair in sorted order.
func (d *Dictionary) Each(fn func(source, target string)) {
	for _, s := range d.Sources() {
		for _, t := range sortedKeys(d.pairs[s]) {
			fn(s, t)
		}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
