package domain

// SettingsKey is the fixed partition and row key of the settings singleton.
const SettingsKey = "setting"

// Settings is the singleton configuration record. It is lazily created with
// fixed defaults the first time it is read.
type Settings struct {
	Keys

	LastBookmarkDate    string `json:"last_bookmark_date" dynamodbav:"last_bookmark_date"`
	ReadingNotesCounter string `json:"reading_notes_counter" dynamodbav:"reading_notes_counter"`
	FavoriteDomains     string `json:"favorite_domains,omitempty" dynamodbav:"favorite_domains,omitempty"`
	BlockedDomains      string `json:"blocked_domains,omitempty" dynamodbav:"blocked_domains,omitempty"`
	SummaryPrompt       string `json:"summary_prompt,omitempty" dynamodbav:"summary_prompt,omitempty"`
	SearchPrompt        string `json:"search_prompt,omitempty" dynamodbav:"search_prompt,omitempty"`
}

// DefaultSettings returns the seed record stored on first read.
func DefaultSettings() Settings {
	return Settings{
		Keys: Keys{
			PartitionKey: SettingsKey,
			RowKey:       SettingsKey,
		},
		LastBookmarkDate:    "2023-04-06T07:31:44",
		ReadingNotesCounter: "623",
	}
}
