package model

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

var tagStrip = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeTag lowercases and trims a tag and drops characters outside
// [a-z0-9_-].
func NormalizeTag(name string) string {
	return tagStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// normalizeTags normalizes, drops empties and deduplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		n := NormalizeTag(tag)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// TagStat is one entry of the tag registry.
type TagStat struct {
	Name      string
	TaskCount int
}

// TagRegistry counts how many tasks carry each normalized tag.
func TagRegistry(tasks []Task) map[string]int {
	reg := make(map[string]int)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			if n := NormalizeTag(tag); n != "" {
				reg[n]++
			}
		}
	}
	return reg
}

// FrequentTags returns the n most used tags, ties broken by name.
func FrequentTags(reg map[string]int, n int) []TagStat {
	stats := sortedStats(reg)
	if n >= 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// SearchTags returns up to 10 tags containing query, prefix matches first,
// then by usage.
func SearchTags(reg map[string]int, query string) []TagStat {
	q := NormalizeTag(query)
	if q == "" {
		return nil
	}
	var out []TagStat
	for _, s := range sortedStats(reg) {
		if strings.Contains(s.Name, q) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.HasPrefix(out[i].Name, q) && !strings.HasPrefix(out[j].Name, q)
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func sortedStats(reg map[string]int) []TagStat {
	stats := make([]TagStat, 0, len(reg))
	for name, count := range reg {
		stats = append(stats, TagStat{Name: name, TaskCount: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TaskCount != stats[j].TaskCount {
			return stats[i].TaskCount > stats[j].TaskCount
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// RenameTag replaces oldName with newName on every task. Tasks that already
// carry newName just lose oldName. It returns the number of tasks changed.
func (d *Document) RenameTag(oldName, newName string) int {
	from, to := NormalizeTag(oldName), NormalizeTag(newName)
	if from == "" || to == "" || from == to {
		return 0
	}
	changed := 0
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if !slices.ContainsFunc(t.Tags, func(s string) bool { return NormalizeTag(s) == from }) {
			continue
		}
		tags := slices.DeleteFunc(slices.Clone(t.Tags), func(s string) bool { return NormalizeTag(s) == from })
		if !slices.ContainsFunc(tags, func(s string) bool { return NormalizeTag(s) == to }) {
			tags = append(tags, to)
		}
		if len(tags) > MaxTagsPerTask {
			tags = tags[:MaxTagsPerTask]
		}
		t.Tags = tags
		changed++
	}
	return changed
}

// DeleteTag removes a tag from every task and returns the number of tasks
// changed.
func (d *Document) DeleteTag(name string) int {
	n := NormalizeTag(name)
	changed := 0
	for i := range d.Tasks {
		t := &d.Tasks[i]
		before := len(t.Tags)
		t.Tags = slices.DeleteFunc(t.Tags, func(s string) bool { return NormalizeTag(s) == n })
		if len(t.Tags) != before {
			changed++
		}
	}
	return changed
}

// TagColor picks a stable palette slot for a tag name.
func TagColor(name string, paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash << 5) - hash
	}
	return int(uint32(hash) % uint32(paletteSize))
}
