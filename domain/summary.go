package domain

// Summary points at a rendered digest artifact. By convention one summary
// corresponds to one digest through the shared Id/Number, but nothing
// enforces it.
type Summary struct {
	Keys

	ID           string `json:"id" dynamodbav:"id"`
	Title        string `json:"title" dynamodbav:"title"`
	FileName     string `json:"filename,omitempty" dynamodbav:"filename,omitempty"`
	IsGenerated  string `json:"isgenerated,omitempty" dynamodbav:"isgenerated,omitempty"`
	PublishedURL string `json:"publishedurl,omitempty" dynamodbav:"publishedurl,omitempty"`
}
