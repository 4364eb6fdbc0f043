package core

import (
	"regexp"
	"sort"
	"strings"
)

// tagCleaner collapses runs of characters that carry no meaning in a tag.
// "+", ".", "#" and "-" are kept because they appear in technology names
// (c++, .net, c#, scikit-learn).
var tagCleaner = regexp.MustCompile(`[^a-z0-9+.#-]+`)

// NormalizeTag normalizes a single raw tag: trim, lowercase, collapse
// internal whitespace and punctuation to "-", strip leading/trailing dashes.
// Returns "" when nothing survives normalization.
func NormalizeTag(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = tagCleaner.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

// NormalizeTags normalizes raw tags into a sorted set: each tag is run
// through NormalizeTag, empties are dropped, and duplicates collapse.
func NormalizeTags(raw []string) []string {
	set := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		if clean := NormalizeTag(t); clean != "" {
			set[clean] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// CanonicalText builds the text blob a record is embedded from. Field order
// and formatting are fixed so that identical records always produce
// identical text; absent fields contribute an empty value, never a
// placeholder.
func CanonicalText(record *ProjectRecord) string {
	var b strings.Builder
	b.WriteString("Project name: ")
	b.WriteString(record.Name)
	b.WriteString("\nShort description: ")
	b.WriteString(StringValue(record.ShortDescription))
	b.WriteString("\nLong description: ")
	b.WriteString(StringValue(record.LongDescription))
	b.WriteString("\nTags: ")
	b.WriteString(strings.Join(record.Tags, ", "))
	b.WriteString("\nBatch: ")
	b.WriteString(StringValue(record.Batch))
	b.WriteString("\nSource: ")
	b.WriteString(string(record.Source))
	return b.String()
}
