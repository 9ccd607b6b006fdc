package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"notebookmark-backend/application/ports"
	"notebookmark-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTable is an in-memory ports.Table. Entities keep insertion order so
// assertions stay deterministic; the match func evaluates one equality
// condition against an entity.
type fakeTable[T domain.Entity] struct {
	entities []T
	match    func(entity T, cond ports.Condition) bool
}

func (f *fakeTable[T]) Query(_ context.Context, filter ports.Filter) ([]T, error) {
	if filter.IsEmpty() {
		return append([]T(nil), f.entities...), nil
	}
	var out []T
	for _, e := range f.entities {
		for _, cond := range filter.Any {
			if f.match(e, cond) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTable[T]) Upsert(_ context.Context, entity T) error {
	keys := entity.EntityKeys()
	for i, existing := range f.entities {
		ek := existing.EntityKeys()
		if ek.PartitionKey == keys.PartitionKey && ek.RowKey == keys.RowKey {
			f.entities[i] = entity
			return nil
		}
	}
	f.entities = append(f.entities, entity)
	return nil
}

func (f *fakeTable[T]) Delete(_ context.Context, partitionKey, rowKey string) (bool, error) {
	for i, existing := range f.entities {
		keys := existing.EntityKeys()
		if keys.PartitionKey == partitionKey && keys.RowKey == rowKey {
			f.entities = append(f.entities[:i], f.entities[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func matchPost(p domain.Post, cond ports.Condition) bool {
	switch cond.Field {
	case "PartitionKey":
		return cond.Value == p.PartitionKey
	case "RowKey":
		return cond.Value == p.RowKey
	case "is_read":
		want, ok := cond.Value.(bool)
		return ok && p.IsRead != nil && *p.IsRead == want
	}
	return false
}

func matchNote(n domain.Note, cond ports.Condition) bool {
	switch cond.Field {
	case "PartitionKey":
		return cond.Value == n.PartitionKey
	case "RowKey":
		return cond.Value == n.RowKey
	case "post_id":
		return cond.Value == n.PostID
	}
	return false
}

func matchKeysOnly[T domain.Entity](e T, cond ports.Condition) bool {
	keys := e.EntityKeys()
	switch cond.Field {
	case "PartitionKey":
		return cond.Value == keys.PartitionKey
	case "RowKey":
		return cond.Value == keys.RowKey
	}
	return false
}

// fakeBlobStore keeps blobs in memory and hands out fake URLs.
type fakeBlobStore struct {
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) key(container, name string) string {
	return container + "/" + name
}

func (f *fakeBlobStore) SaveJSON(_ context.Context, container, name string, v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	f.blobs[f.key(container, name)] = data
	return fmt.Sprintf("https://blobs.test/%s/%s", container, name)
}

func (f *fakeBlobStore) SaveText(_ context.Context, container, name, text string) string {
	f.blobs[f.key(container, name)] = []byte(text)
	return fmt.Sprintf("https://blobs.test/%s/%s", container, name)
}

func (f *fakeBlobStore) LoadJSON(_ context.Context, container, name string, out any) bool {
	data, ok := f.blobs[f.key(container, name)]
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

type fixture struct {
	service *StorageService
	posts   *fakeTable[domain.Post]
	notes   *fakeTable[domain.Note]
	blobs   *fakeBlobStore
}

func newFixture() *fixture {
	posts := &fakeTable[domain.Post]{match: matchPost}
	notes := &fakeTable[domain.Note]{match: matchNote}
	summaries := &fakeTable[domain.Summary]{match: matchKeysOnly[domain.Summary]}
	settings := &fakeTable[domain.Settings]{match: matchKeysOnly[domain.Settings]}
	blobs := newFakeBlobStore()

	return &fixture{
		service: NewStorageService(posts, notes, summaries, settings, blobs, zap.NewNop()),
		posts:   posts,
		notes:   notes,
		blobs:   blobs,
	}
}

func unreadPost(rowKey, title string, ts time.Time) domain.Post {
	read := false
	return domain.Post{
		Keys: domain.Keys{
			PartitionKey: "2026-08",
			RowKey:       rowKey,
			Timestamp:    ts,
		},
		ID:     rowKey,
		Title:  title,
		URL:    "https://example.test/" + rowKey,
		IsRead: &read,
	}
}

func TestNoteRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	note := domain.Note{
		Keys:      domain.Keys{PartitionKey: "700", RowKey: "note-1"},
		Comment:   "great writeup",
		Tags:      "cloud.azure",
		PostID:    "post-1",
		Category:  "Cloud",
		DateAdded: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.service.CreateOrReplaceNote(ctx, note))

	notes, err := f.service.GetNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note, notes[0])
}

func TestListPostsJoinsNotesAndOrdersByTimestamp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	older := unreadPost("post-a", "A", base)
	newer := unreadPost("post-b", "B", base.Add(time.Hour))
	// Insert out of order; the listing must sort by storage timestamp.
	require.NoError(t, f.posts.Upsert(ctx, newer))
	require.NoError(t, f.posts.Upsert(ctx, older))

	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-1"}, Comment: "first", PostID: "post-a",
	}))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-2"}, Comment: "second", PostID: "post-a",
	}))

	listings, err := f.service.ListPosts(ctx, false)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	// post-a is older, so its rows come first; two notes mean two rows.
	assert.Equal(t, "post-a", listings[0].RowKey)
	assert.Equal(t, "first", listings[0].Note)
	assert.Equal(t, "note-1", listings[0].NoteID)
	assert.Equal(t, "post-a", listings[1].RowKey)
	assert.Equal(t, "second", listings[1].Note)

	// post-b has no note and still yields a row.
	assert.Equal(t, "post-b", listings[2].RowKey)
	assert.Equal(t, "", listings[2].Note)
	assert.Equal(t, "", listings[2].NoteID)
}

func TestListPostsFiltersByReadFlag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	unread := unreadPost("post-a", "A", time.Now())
	read := unreadPost("post-b", "B", time.Now())
	read.MarkRead()
	require.NoError(t, f.posts.Upsert(ctx, unread))
	require.NoError(t, f.posts.Upsert(ctx, read))

	listings, err := f.service.ListPosts(ctx, false)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "post-a", listings[0].RowKey)

	listings, err = f.service.ListPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "post-b", listings[0].RowKey)
}

func TestSavePostIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	post := unreadPost("post-a", "first title", time.Now())
	require.NoError(t, f.service.SavePost(ctx, post))

	post.Title = "second title"
	require.NoError(t, f.service.SavePost(ctx, post))

	require.Len(t, f.posts.entities, 1)
	saved, err := f.service.GetPost(ctx, "post-a")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "second title", saved.Title)
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.posts.Upsert(ctx, unreadPost("post-a", "A", time.Now())))

	existed, err := f.service.DeletePost(ctx, "post-a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = f.service.DeletePost(ctx, "post-a")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestNotesForDigestDropsDanglingReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.posts.Upsert(ctx, unreadPost("post-a", "A", time.Now())))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-1"}, Comment: "kept", PostID: "post-a", Tags: "ai.agents",
	}))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-2"}, Comment: "dangling", PostID: "post-gone",
	}))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "701", RowKey: "note-3"}, Comment: "other digest", PostID: "post-a",
	}))

	result, err := f.service.NotesForDigest(ctx, "700")
	require.NoError(t, err)
	require.Len(t, result, 1)

	got := result[0]
	assert.Equal(t, "kept", got.Comment)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "https://example.test/post-a", got.URL)
	assert.Equal(t, "700", got.ReadingNotesID)
	assert.Equal(t, "note-1", got.RowKey)
}

func TestNotesForDigestWithNoMatchesReturnsEmptyList(t *testing.T) {
	f := newFixture()

	result, err := f.service.NotesForDigest(context.Background(), "999")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGroupByCategoryPreservesFirstSeenOrder(t *testing.T) {
	f := newFixture()

	notes := []domain.ReadingNote{
		{Title: "A", Tags: "cloud.azure"},
		{Title: "B", Tags: "ai.agents"},
		{Title: "C", Tags: "cloud.aws"},
	}
	grouped, order := f.service.GroupByCategory(notes)

	assert.Equal(t, []string{"Cloud", "AI"}, order)
	require.Len(t, grouped["Cloud"], 2)
	assert.Equal(t, "A", grouped["Cloud"][0].Title)
	assert.Equal(t, "C", grouped["Cloud"][1].Title)
	require.Len(t, grouped["AI"], 1)
	assert.Equal(t, "B", grouped["AI"][0].Title)
}

func TestUpdateReadStatusFromNotes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	referenced := unreadPost("post-a", "A", time.Now())
	untouched := domain.Post{
		Keys:  domain.Keys{PartitionKey: "2026-08", RowKey: "post-b"},
		ID:    "post-b",
		Title: "B",
	}
	require.NoError(t, f.posts.Upsert(ctx, referenced))
	require.NoError(t, f.posts.Upsert(ctx, untouched))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-1"}, Comment: "x", PostID: "post-a",
	}))
	require.NoError(t, f.notes.Upsert(ctx, domain.Note{
		Keys: domain.Keys{PartitionKey: "700", RowKey: "note-2"}, Comment: "y", PostID: "post-gone",
	}))

	require.NoError(t, f.service.UpdateReadStatusFromNotes(ctx))

	got, err := f.service.GetPost(ctx, "post-a")
	require.NoError(t, err)
	assert.True(t, got.Read())

	// Posts with no referencing note keep their tri-state flag untouched.
	got, err = f.service.GetPost(ctx, "post-b")
	require.NoError(t, err)
	assert.Nil(t, got.IsRead)

	// The sweep is idempotent.
	require.NoError(t, f.service.UpdateReadStatusFromNotes(ctx))
	got, err = f.service.GetPost(ctx, "post-a")
	require.NoError(t, err)
	assert.True(t, got.Read())
	require.Len(t, f.posts.entities, 2)
}

func TestGetSettingsInitializesDefaultsOnFirstRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	settings, err := f.service.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "setting", settings.PartitionKey)
	assert.Equal(t, "setting", settings.RowKey)
	assert.Equal(t, "623", settings.ReadingNotesCounter)
	assert.Equal(t, "2023-04-06T07:31:44", settings.LastBookmarkDate)

	number, err := f.service.NextDigestNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "623", number)
}

func TestNextDigestNumberReturnsStoredCounterAsIs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	settings := domain.DefaultSettings()
	settings.ReadingNotesCounter = "700"
	require.NoError(t, f.service.SaveSettings(ctx, settings))

	number, err := f.service.NextDigestNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "700", number)

	// The service never auto-increments.
	number, err = f.service.NextDigestNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "700", number)
}

func TestDigestSaveLoadRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	digest := domain.NewReadingNotes("123")
	digest.Intro = "intro"
	digest.AddNote(domain.ReadingNote{Title: "A", Comment: "a", Tags: "ai.agents"})

	url := f.service.SaveDigest(ctx, digest)
	assert.Equal(t, "https://blobs.test/readingnotes/readingnotes-123.json", url)

	loaded, err := f.service.LoadDigest(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "123", loaded.Number)
	assert.Equal(t, "Reading Notes #123", loaded.Title)
	assert.Equal(t, []string{"AI"}, loaded.CategoryOrder)
}

func TestLoadDigestAbsentIsNotAnError(t *testing.T) {
	f := newFixture()

	loaded, err := f.service.LoadDigest(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveDigestMarkdownUsesNamingConvention(t *testing.T) {
	f := newFixture()

	url := f.service.SaveDigestMarkdown(context.Background(), "# digest", "123")
	assert.Equal(t, "https://blobs.test/final-markdown/readingnotes-123.md", url)
	assert.Equal(t, "# digest", string(f.blobs.blobs["final-markdown/readingnotes-123.md"]))
}

func TestUniqueTagsDelegatesToDigest(t *testing.T) {
	f := newFixture()

	digest := domain.NewReadingNotes("123")
	digest.AddNote(domain.ReadingNote{Title: "A", Comment: "a", Tags: "azure.functions"})
	digest.AddNote(domain.ReadingNote{Title: "B", Comment: "b", Tags: "azure.storage"})

	assert.Equal(t, "azure,functions,readingnotes,storage", f.service.UniqueTags(digest))
}
