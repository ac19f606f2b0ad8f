package models

// Group is the ordered sequence of items extracted from one source image.
//
// ImageURL is the representative URL for the group, taken from the first
// item assigned to it.
type Group struct {
	Key      string
	ImageURL string
	Items    []ClothingItem
}

// Grouping maps source image keys to their item groups while preserving
// the order in which each key first appeared in the input.
type Grouping struct {
	order      []string
	groups     map[string]*Group
	mismatched []string
}

// GroupByImage partitions items by their source image key in a single
// pass over the input.
//
// Every input item lands in exactly one group, per-group item order
// matches input order, and key order equals first-appearance order.
// An empty input yields an empty grouping; an empty-string key is a
// valid grouping key.
func GroupByImage(items []ClothingItem) *Grouping {
	g := &Grouping{groups: make(map[string]*Group)}

	for _, item := range items {
		group, ok := g.groups[item.SourceImageKey]
		if !ok {
			group = &Group{Key: item.SourceImageKey, ImageURL: item.ImageURL}
			g.groups[item.SourceImageKey] = group
			g.order = append(g.order, item.SourceImageKey)
		} else if item.ImageURL != group.ImageURL {
			g.mismatched = append(g.mismatched, item.SourceImageKey)
		}
		group.Items = append(group.Items, item)
	}

	return g
}

// Keys returns the group keys in first-appearance order.
func (g *Grouping) Keys() []string {
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys
}

// Get returns the group for key, if present.
func (g *Grouping) Get(key string) (*Group, bool) {
	group, ok := g.groups[key]
	return group, ok
}

// Contains reports whether key has a group.
func (g *Grouping) Contains(key string) bool {
	_, ok := g.groups[key]
	return ok
}

// Groups returns all groups in first-appearance order.
func (g *Grouping) Groups() []*Group {
	groups := make([]*Group, 0, len(g.order))
	for _, key := range g.order {
		groups = append(groups, g.groups[key])
	}
	return groups
}

// Len returns the number of groups.
func (g *Grouping) Len() int {
	return len(g.order)
}

// MismatchedURLs returns the keys whose items disagreed on the image URL.
// The first-seen URL stays representative; callers may want to log these.
func (g *Grouping) MismatchedURLs() []string {
	return g.mismatched
}
