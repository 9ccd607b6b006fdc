package domain

import (
	"fmt"
	"strings"
)

// ReadingNote is an in-memory projection joining a note with the display
// fields of the post it references. It is never persisted directly; digests
// carry it inside their JSON snapshot.
type ReadingNote struct {
	Comment        string `json:"comment"`
	Tags           string `json:"tags,omitempty"`
	PostID         string `json:"post_id"`
	Author         string `json:"author,omitempty"`
	Title          string `json:"title"`
	URL            string `json:"url,omitempty"`
	Category       string `json:"category,omitempty"`
	ReadingNotesID string `json:"reading_notes_id,omitempty"`
	PartitionKey   string `json:"partition_key,omitempty"`
	RowKey         string `json:"row_key,omitempty"`
}

// DeriveCategory returns the display category of the note: the explicit
// Category when set, otherwise the first dot-delimited segment of Tags run
// through the category lookup.
func (n ReadingNote) DeriveCategory() string {
	if n.Category != "" {
		return n.Category
	}
	code := ""
	if n.Tags != "" {
		code = strings.SplitN(n.Tags, ".", 2)[0]
	}
	return GetCategory(code)
}

// ToMarkdown renders the note as a digest list item. The link target falls
// back to a literal "#" when the note has no URL, and the author clause is
// omitted when absent.
func (n ReadingNote) ToMarkdown() string {
	var md strings.Builder

	md.WriteString("\n- ")
	if n.URL != "" {
		fmt.Fprintf(&md, "**[%s](%s)** ", n.Title, n.URL)
	} else {
		fmt.Fprintf(&md, "**[%s](#)** ", n.Title)
	}
	if n.Author != "" {
		fmt.Fprintf(&md, " (%s) ", n.Author)
	}
	fmt.Fprintf(&md, "- %s", n.Comment)

	return md.String()
}
