package draft

import (
	"slices"
	"strings"
)

// Tags returns the tags in insertion order.
func (d Draft) Tags() []string {
	out := make([]string, len(d.tags))
	copy(out, d.tags)
	return out
}

// AddTag trims raw and appends it unless it is empty or already present
// (exact, case-sensitive match).
func (d Draft) AddTag(raw string) Draft {
	tag := strings.TrimSpace(raw)
	if tag == "" || slices.Contains(d.tags, tag) {
		return d
	}
	tags := make([]string, len(d.tags), len(d.tags)+1)
	copy(tags, d.tags)
	d.tags = append(tags, tag)
	return d
}

// RemoveTag drops the exact-match tag. A missing tag is a no-op.
func (d Draft) RemoveTag(tag string) Draft {
	i := slices.Index(d.tags, tag)
	if i < 0 {
		return d
	}
	d.tags = slices.Delete(slices.Clone(d.tags), i, i+1)
	return d
}
