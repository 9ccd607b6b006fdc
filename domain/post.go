package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a bookmarked article saved during the pre-read process.
// IsRead is tri-state: nil means the read flag was never set.
type Post struct {
	Keys

	ID            string `json:"id" dynamodbav:"id"`
	Title         string `json:"title" dynamodbav:"title"`
	Author        string `json:"author,omitempty" dynamodbav:"author,omitempty"`
	DatePublished string `json:"date_published,omitempty" dynamodbav:"date_published,omitempty"`
	URL           string `json:"url" dynamodbav:"url"`
	Domain        string `json:"domain,omitempty" dynamodbav:"domain,omitempty"`
	Dek           string `json:"dek,omitempty" dynamodbav:"dek,omitempty"`
	LeadImageURL  string `json:"lead_image_url,omitempty" dynamodbav:"lead_image_url,omitempty"`
	Excerpt       string `json:"excerpt,omitempty" dynamodbav:"excerpt,omitempty"`
	WordCount     int    `json:"word_count,omitempty" dynamodbav:"word_count,omitempty"`
	IsRead        *bool  `json:"is_read,omitempty" dynamodbav:"is_read,omitempty"`
}

// NewPost creates a post with a generated row key. The partition key is the
// creation year-month, which groups bookmarks saved in the same month.
func NewPost() Post {
	id := uuid.New().String()
	return Post{
		Keys: Keys{
			PartitionKey: time.Now().UTC().Format("2006-01"),
			RowKey:       id,
		},
		ID: id,
	}
}

// MarkRead sets the read flag.
func (p *Post) MarkRead() {
	read := true
	p.IsRead = &read
}

// Read reports the read flag, treating an absent flag as unread.
func (p Post) Read() bool {
	return p.IsRead != nil && *p.IsRead
}

// PostListing is a row of the post list views: the post's display fields plus
// the comment of the note referencing it, empty when no note matches.
type PostListing struct {
	Keys

	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	DatePublished string `json:"date_published"`
	Excerpt       string `json:"excerpt,omitempty"`
	IsRead        bool   `json:"is_read"`
	Note          string `json:"note"`
	NoteID        string `json:"note_id"`
}
