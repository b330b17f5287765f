package flock

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-flock/engine/game_object"
)

// Group is one generation of live flock instances. A group is replaced as a whole, never edited
// by regeneration.
type Group struct {
	Generation uint64
	Instances  []game_object.GameObject
}

// Count returns the number of instances.
func (g *Group) Count() int {
	if g == nil {
		return 0
	}
	return len(g.Instances)
}

// CountFor returns the number of instances cloned from the named template.
func (g *Group) CountFor(name string) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, obj := range g.Instances {
		if obj.Model() != nil && obj.Model().Name() == name {
			n++
		}
	}
	return n
}

// Names returns the distinct template names in the group, sorted.
func (g *Group) Names() []string {
	if g == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, obj := range g.Instances {
		if obj.Model() != nil {
			seen[obj.Model().Name()] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
