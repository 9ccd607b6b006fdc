package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is a comment attached to exactly one post via PostID. The reference is
// a plain string key with no enforced integrity; a dangling PostID is
// tolerated and simply drops out of digest joins. The partition key is the
// digest number the note is collected under.
type Note struct {
	Keys

	Comment   string    `json:"comment" dynamodbav:"comment"`
	DateAdded time.Time `json:"date_added" dynamodbav:"date_added"`
	Tags      string    `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	PostID    string    `json:"post_id" dynamodbav:"post_id"`
	Category  string    `json:"category,omitempty" dynamodbav:"category,omitempty"`
}

// NewNote creates a note under the given digest number with a generated row
// key.
func NewNote(digestNumber string) Note {
	return Note{
		Keys: Keys{
			PartitionKey: digestNumber,
			RowKey:       uuid.New().String(),
		},
		DateAdded: time.Now().UTC(),
	}
}

// Validate reports whether the note carries a non-blank comment.
func (n Note) Validate() bool {
	return strings.TrimSpace(n.Comment) != ""
}
