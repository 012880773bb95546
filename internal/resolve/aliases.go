package resolve

import (
	"sort"

	"github.com/google/uuid"
	"github.com/ramckay/voiceloom/internal/model"
)

// aliasBuilder is the mutable union-find structure over candidate names.
// It is scoped to a single analysis job and discarded once the immutable
// registry is produced.
type aliasBuilder struct {
	parent    map[string]string
	mentions  map[string]int
	attrCount map[string]int
	attrLocs  map[string][]model.Location
	firstSeen map[string]model.Location
	order     []string // first-appearance order, for deterministic output
}

func newAliasBuilder() *aliasBuilder {
	return &aliasBuilder{
		parent:    make(map[string]string),
		mentions:  make(map[string]int),
		attrCount: make(map[string]int),
		attrLocs:  make(map[string][]model.Location),
		firstSeen: make(map[string]model.Location),
	}
}

// observe records one occurrence of a cleaned candidate name
func (b *aliasBuilder) observe(name string, loc model.Location, attributed bool) {
	if _, seen := b.parent[name]; !seen {
		b.parent[name] = name
		b.firstSeen[name] = loc
		b.order = append(b.order, name)
	}
	b.mentions[name]++
	if attributed {
		b.attrCount[name]++
		b.attrLocs[name] = append(b.attrLocs[name], loc)
	}
}

func (b *aliasBuilder) find(name string) string {
	root := name
	for b.parent[root] != root {
		root = b.parent[root]
	}
	for b.parent[name] != root {
		b.parent[name], name = root, b.parent[name]
	}
	return root
}

func (b *aliasBuilder) union(a, c string) {
	ra, rc := b.find(a), b.find(c)
	if ra != rc {
		b.parent[rc] = ra
	}
}

// coAttributed reports whether both names were attributed as speaker within
// the same paragraph-adjacency window. Two distinct speakers in one exchange
// must never merge.
func (b *aliasBuilder) coAttributed(a, c string) bool {
	for _, la := range b.attrLocs[a] {
		for _, lc := range b.attrLocs[c] {
			if la.Chapter != lc.Chapter {
				continue
			}
			d := la.Paragraph - lc.Paragraph
			if d >= -1 && d <= 1 {
				return true
			}
		}
	}
	return false
}

// candidates returns names eligible for the registry: anything attributed
// at least once, or mentioned more than once in narration.
func (b *aliasBuilder) candidates() []string {
	var out []string
	for _, name := range b.order {
		if b.attrCount[name] > 0 || b.mentions[name] >= 2 {
			out = append(out, name)
		}
	}
	return out
}

// mergeAliases applies the two merge rules transitively over all candidates.
// Rule (a): strict word-boundary substring of the other form.
// Rule (b): known diminutive of the other form, provided the two are never
// co-attributed within the adjacency window.
func (b *aliasBuilder) mergeAliases(names []string) {
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			x, y := names[i], names[j]
			switch {
			case wordSubstring(x, y) || wordSubstring(y, x):
				b.union(x, y)
			case diminutiveOf(x, y) && !b.coAttributed(x, y):
				b.union(x, y)
			}
		}
	}
}

// Registry is the immutable character registry produced by resolution
type Registry struct {
	Characters []*model.Character
	byAlias    map[string]*model.Character
}

// Lookup resolves a cleaned name to its character
func (r *Registry) Lookup(name string) (*model.Character, bool) {
	c, ok := r.byAlias[CleanName(name)]
	return c, ok
}

// build collapses the union-find classes into the immutable registry.
// Canonical display name is the most frequently occurring full form.
func (b *aliasBuilder) build() *Registry {
	names := b.candidates()
	b.mergeAliases(names)

	classes := make(map[string][]string)
	for _, name := range names {
		root := b.find(name)
		classes[root] = append(classes[root], name)
	}

	reg := &Registry{byAlias: make(map[string]*model.Character)}
	for _, aliases := range classes {
		sort.Strings(aliases)
		canonical := b.canonicalName(aliases)
		c := &model.Character{
			ID:      uuid.NewString(),
			Name:    canonical,
			Aliases: aliases,
			Status:  model.StatusInsufficientData,
		}
		reg.Characters = append(reg.Characters, c)
		for _, a := range aliases {
			reg.byAlias[a] = c
		}
	}

	// Order characters by earliest appearance of any alias, then by name
	sort.SliceStable(reg.Characters, func(i, j int) bool {
		li := b.earliest(reg.Characters[i].Aliases)
		lj := b.earliest(reg.Characters[j].Aliases)
		if li != lj {
			return li.Before(lj)
		}
		return reg.Characters[i].Name < reg.Characters[j].Name
	})
	return reg
}

// canonicalName picks the most frequent form; ties prefer the fuller form,
// then the earlier-seen one.
func (b *aliasBuilder) canonicalName(aliases []string) string {
	best := aliases[0]
	for _, a := range aliases[1:] {
		switch {
		case b.mentions[a] > b.mentions[best]:
			best = a
		case b.mentions[a] == b.mentions[best]:
			if len(a) > len(best) || (len(a) == len(best) && b.firstSeen[a].Before(b.firstSeen[best])) {
				best = a
			}
		}
	}
	return best
}

func (b *aliasBuilder) earliest(aliases []string) model.Location {
	loc := b.firstSeen[aliases[0]]
	for _, a := range aliases[1:] {
		if b.firstSeen[a].Before(loc) {
			loc = b.firstSeen[a]
		}
	}
	return loc
}
