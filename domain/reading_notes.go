package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// SentinelTag is always part of a digest's tag set.
const SentinelTag = "readingnotes"

// ReadingNotes is a digest: a numbered collection of reading notes grouped by
// category. CategoryOrder records first-seen insertion order, since the map
// itself is unordered; rendering and grouping iterate it.
type ReadingNotes struct {
	Number        string                   `json:"number"`
	Title         string                   `json:"title"`
	PublishedURL  string                   `json:"published_url,omitempty"`
	Tags          string                   `json:"tags,omitempty"`
	Intro         string                   `json:"intro,omitempty"`
	Notes         map[string][]ReadingNote `json:"notes"`
	CategoryOrder []string                 `json:"category_order,omitempty"`
}

// NewReadingNotes creates an empty digest with the conventional title.
func NewReadingNotes(number string) *ReadingNotes {
	return &ReadingNotes{
		Number: number,
		Title:  fmt.Sprintf("Reading Notes #%s", number),
		Notes:  map[string][]ReadingNote{},
	}
}

// AddNote appends a note to its category, preserving input order within the
// category and first-seen order across categories.
func (r *ReadingNotes) AddNote(note ReadingNote) {
	category := note.DeriveCategory()
	if r.Notes == nil {
		r.Notes = map[string][]ReadingNote{}
	}
	if _, ok := r.Notes[category]; !ok {
		r.CategoryOrder = append(r.CategoryOrder, category)
	}
	r.Notes[category] = append(r.Notes[category], note)
}

// categories returns the category keys in a stable iteration order: the
// recorded insertion order, falling back to sorted keys for digests
// deserialized from snapshots that predate category_order.
func (r *ReadingNotes) categories() []string {
	if len(r.CategoryOrder) == len(r.Notes) {
		return r.CategoryOrder
	}
	keys := make([]string, 0, len(r.Notes))
	for k := range r.Notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UniqueTags decomposes every note's dot-delimited tags, lowercases them,
// unions them with the sentinel tag and returns the sorted, comma-joined
// result.
func (r *ReadingNotes) UniqueTags() string {
	unique := map[string]struct{}{}

	for _, notes := range r.Notes {
		for _, note := range notes {
			if note.Tags == "" {
				continue
			}
			for _, tag := range strings.Split(strings.ToLower(note.Tags), ".") {
				if tag != "" {
					unique[tag] = struct{}{}
				}
			}
		}
	}
	unique[SentinelTag] = struct{}{}

	tags := make([]string, 0, len(unique))
	for tag := range unique {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, ",")
}

// ToMarkdown renders the digest deterministically: YAML front matter with
// Title and Tags, the underlined title, the intro, then one "## category"
// section per category in map order with each note as a list item.
func (r *ReadingNotes) ToMarkdown() string {
	var md strings.Builder

	md.WriteString("---\n")
	fmt.Fprintf(&md, "Title: %s\n", r.Title)
	fmt.Fprintf(&md, "Tags: %s\n", r.Tags)
	md.WriteString("---\n")

	md.WriteString(r.Title + "\n")
	md.WriteString(strings.Repeat("=", utf8.RuneCountInString(r.Title)))
	md.WriteString("\n\n" + r.Intro + "\n")

	for _, category := range r.categories() {
		fmt.Fprintf(&md, "\n\n## %s\n\n", category)
		for _, note := range r.Notes[category] {
			md.WriteString(note.ToMarkdown() + "\n")
		}
	}

	return md.String()
}
