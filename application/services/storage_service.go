package services

import (
	"context"
	"fmt"
	"sort"

	"notebookmark-backend/application/ports"
	"notebookmark-backend/domain"
	apperrors "notebookmark-backend/pkg/errors"

	"go.uber.org/zap"
)

// Blob containers used for digest artifacts.
const (
	ReadingNotesContainer = "readingnotes"
	MarkdownContainer     = "final-markdown"
)

// StorageService is the storage and aggregation layer: entity persistence,
// cross-entity joins and digest artifact round-trips. Each call is
// independent; there is no shared mutable state and no transaction spanning
// entities, so a crash between two writes leaves a valid but inconsistent
// state reconciled only by the idempotent read-status sweep.
type StorageService struct {
	posts     ports.Table[domain.Post]
	notes     ports.Table[domain.Note]
	summaries ports.Table[domain.Summary]
	settings  ports.Table[domain.Settings]
	blobs     ports.BlobStore
	logger    *zap.Logger
}

// NewStorageService creates a storage service over the given table handles
// and blob store.
func NewStorageService(
	posts ports.Table[domain.Post],
	notes ports.Table[domain.Note],
	summaries ports.Table[domain.Summary],
	settings ports.Table[domain.Settings],
	blobs ports.BlobStore,
	logger *zap.Logger,
) *StorageService {
	return &StorageService{
		posts:     posts,
		notes:     notes,
		summaries: summaries,
		settings:  settings,
		blobs:     blobs,
		logger:    logger,
	}
}

// ListPosts returns the posts whose read flag equals isRead, left-outer-joined
// with all notes on Post.RowKey == Note.PostID and ordered by storage
// timestamp ascending. A post with no note yields one row with empty note
// fields; a post referenced by several notes yields one row per note.
func (s *StorageService) ListPosts(ctx context.Context, isRead bool) ([]domain.PostListing, error) {
	posts, err := s.posts.Query(ctx, ports.Equals("is_read", isRead))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query posts").WithCause(err)
	}
	notes, err := s.notes.Query(ctx, ports.All())
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query notes").WithCause(err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.Before(posts[j].Timestamp)
	})

	listings := make([]domain.PostListing, 0, len(posts))
	for _, post := range posts {
		matched := false
		for _, note := range notes {
			if note.PostID == post.RowKey {
				listings = append(listings, newListing(post, note.Comment, note.RowKey))
				matched = true
			}
		}
		if !matched {
			listings = append(listings, newListing(post, "", ""))
		}
	}
	return listings, nil
}

func newListing(post domain.Post, note, noteID string) domain.PostListing {
	datePublished := post.DatePublished
	if datePublished == "" {
		datePublished = post.Timestamp.Format("2006-01-02")
	}
	return domain.PostListing{
		Keys:          post.Keys,
		ID:            post.ID,
		Title:         post.Title,
		URL:           post.URL,
		DatePublished: datePublished,
		Excerpt:       post.Excerpt,
		IsRead:        post.Read(),
		Note:          note,
		NoteID:        noteID,
	}
}

// GetPost looks a post up by row key. A miss returns nil, not an error.
func (s *StorageService) GetPost(ctx context.Context, rowKey string) (*domain.Post, error) {
	posts, err := s.posts.Query(ctx, ports.Equals("RowKey", rowKey))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query post").WithCause(err)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// SavePost creates or replaces a post, last writer winning.
func (s *StorageService) SavePost(ctx context.Context, post domain.Post) error {
	if err := s.posts.Upsert(ctx, post); err != nil {
		return apperrors.NewDatabaseError("failed to save post").WithCause(err)
	}
	return nil
}

// DeletePost removes a post by row key and reports whether it existed.
func (s *StorageService) DeletePost(ctx context.Context, rowKey string) (bool, error) {
	post, err := s.GetPost(ctx, rowKey)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, nil
	}
	existed, err := s.posts.Delete(ctx, post.PartitionKey, post.RowKey)
	if err != nil {
		return false, apperrors.NewDatabaseError("failed to delete post").WithCause(err)
	}
	return existed, nil
}

// MarkPostRead flags the referenced post as read. A dangling post id is a
// no-op.
func (s *StorageService) MarkPostRead(ctx context.Context, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil || post == nil {
		return err
	}
	post.MarkRead()
	return s.SavePost(ctx, *post)
}

// CreateOrReplaceNote upserts a note. Comment validation is the caller's
// contract; a later save with the same row key replaces the note.
func (s *StorageService) CreateOrReplaceNote(ctx context.Context, note domain.Note) error {
	if err := s.notes.Upsert(ctx, note); err != nil {
		return apperrors.NewDatabaseError("failed to save note").WithCause(err)
	}
	return nil
}

// GetNotes returns all notes.
func (s *StorageService) GetNotes(ctx context.Context) ([]domain.Note, error) {
	notes, err := s.notes.Query(ctx, ports.All())
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query notes").WithCause(err)
	}
	return notes, nil
}

// NotesForDigest returns the reading-note projections for the digest: notes
// partitioned under the digest id, inner-joined with their referenced posts.
// Notes whose post is missing are dropped rather than yielding partial rows.
func (s *StorageService) NotesForDigest(ctx context.Context, digestID string) ([]domain.ReadingNote, error) {
	notes, err := s.notes.Query(ctx, ports.Equals("PartitionKey", digestID))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query notes").WithCause(err)
	}
	if len(notes) == 0 {
		return []domain.ReadingNote{}, nil
	}

	seen := map[string]struct{}{}
	postIDs := make([]string, 0, len(notes))
	for _, note := range notes {
		if _, ok := seen[note.PostID]; !ok && note.PostID != "" {
			seen[note.PostID] = struct{}{}
			postIDs = append(postIDs, note.PostID)
		}
	}
	if len(postIDs) == 0 {
		return []domain.ReadingNote{}, nil
	}

	posts, err := s.posts.Query(ctx, ports.AnyOf("RowKey", postIDs...))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query posts").WithCause(err)
	}
	byRowKey := make(map[string]domain.Post, len(posts))
	for _, post := range posts {
		byRowKey[post.RowKey] = post
	}

	result := make([]domain.ReadingNote, 0, len(notes))
	for _, note := range notes {
		post, ok := byRowKey[note.PostID]
		if !ok {
			continue
		}
		result = append(result, domain.ReadingNote{
			Comment:        note.Comment,
			Tags:           note.Tags,
			PostID:         note.PostID,
			Author:         post.Author,
			Title:          post.Title,
			URL:            post.URL,
			Category:       note.Category,
			ReadingNotesID: note.PartitionKey,
			PartitionKey:   note.PartitionKey,
			RowKey:         note.RowKey,
		})
	}
	return result, nil
}

// GroupByCategory groups reading notes by display category, deriving one from
// the tags when the note has none. Categories keep first-seen order; notes
// keep input order within their category.
func (s *StorageService) GroupByCategory(notes []domain.ReadingNote) (map[string][]domain.ReadingNote, []string) {
	grouped := map[string][]domain.ReadingNote{}
	var order []string

	for _, note := range notes {
		category := note.DeriveCategory()
		if _, ok := grouped[category]; !ok {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], note)
	}
	return grouped, order
}

// UniqueTags returns the digest's unioned tag set, sorted and comma-joined.
func (s *StorageService) UniqueTags(digest *domain.ReadingNotes) string {
	return digest.UniqueTags()
}

// UpdateReadStatusFromNotes marks every post referenced by at least one note
// as read. Posts without a referencing note are never touched, so the sweep
// is idempotent and never resets a post to unread.
func (s *StorageService) UpdateReadStatusFromNotes(ctx context.Context) error {
	notes, err := s.GetNotes(ctx)
	if err != nil {
		return err
	}
	for _, note := range notes {
		if note.PostID == "" {
			continue
		}
		if err := s.MarkPostRead(ctx, note.PostID); err != nil {
			return err
		}
	}
	return nil
}

// GetSettings returns the settings singleton, creating it with the seed
// defaults on first read.
func (s *StorageService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	existing, err := s.settings.Query(ctx, ports.Equals("RowKey", domain.SettingsKey))
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query settings").WithCause(err)
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	defaults := domain.DefaultSettings()
	if err := s.settings.Upsert(ctx, defaults); err != nil {
		return nil, apperrors.NewDatabaseError("failed to initialize settings").WithCause(err)
	}
	s.logger.Info("initialized settings with defaults",
		zap.String("counter", defaults.ReadingNotesCounter))
	return &defaults, nil
}

// SaveSettings replaces the settings record.
func (s *StorageService) SaveSettings(ctx context.Context, settings domain.Settings) error {
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return apperrors.NewDatabaseError("failed to save settings").WithCause(err)
	}
	return nil
}

// NextDigestNumber returns the stored digest counter as-is. Incrementing and
// persisting the next value is the caller's responsibility.
func (s *StorageService) NextDigestNumber(ctx context.Context) (string, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	if settings.ReadingNotesCounter == "" {
		return "0", nil
	}
	return settings.ReadingNotesCounter, nil
}

// Summaries returns all digest summary records.
func (s *StorageService) Summaries(ctx context.Context) ([]domain.Summary, error) {
	summaries, err := s.summaries.Query(ctx, ports.All())
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query summaries").WithCause(err)
	}
	return summaries, nil
}

// SaveSummary creates or replaces a summary record.
func (s *StorageService) SaveSummary(ctx context.Context, summary domain.Summary) error {
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return apperrors.NewDatabaseError("failed to save summary").WithCause(err)
	}
	return nil
}

// SaveDigest persists the digest as a JSON blob named by convention and
// returns its URL, or an empty string when the upload failed.
func (s *StorageService) SaveDigest(ctx context.Context, digest *domain.ReadingNotes) string {
	name := fmt.Sprintf("readingnotes-%s.json", digest.Number)
	return s.blobs.SaveJSON(ctx, ReadingNotesContainer, name, digest)
}

// LoadDigest loads the digest JSON for the given number. A missing blob
// returns nil, not an error.
func (s *StorageService) LoadDigest(ctx context.Context, number string) (*domain.ReadingNotes, error) {
	name := fmt.Sprintf("readingnotes-%s.json", number)
	var digest domain.ReadingNotes
	if !s.blobs.LoadJSON(ctx, ReadingNotesContainer, name, &digest) {
		return nil, nil
	}
	return &digest, nil
}

// SaveDigestMarkdown stores the rendered markdown of a digest and returns its
// URL, or an empty string when the upload failed.
func (s *StorageService) SaveDigestMarkdown(ctx context.Context, markdown, number string) string {
	name := fmt.Sprintf("readingnotes-%s.md", number)
	return s.blobs.SaveText(ctx, MarkdownContainer, name, markdown)
}
