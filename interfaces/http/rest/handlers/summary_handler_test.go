package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notebookmark-backend/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSummaryService struct {
	summaries     []domain.Summary
	digests       map[string]*domain.ReadingNotes
	savedMarkdown map[string]string
	markdownURL   string
}

func newFakeSummaryService() *fakeSummaryService {
	return &fakeSummaryService{
		digests:       map[string]*domain.ReadingNotes{},
		savedMarkdown: map[string]string{},
		markdownURL:   "https://blobs.test/final-markdown/readingnotes-616.md",
	}
}

func (f *fakeSummaryService) Summaries(context.Context) ([]domain.Summary, error) {
	return f.summaries, nil
}

func (f *fakeSummaryService) SaveSummary(_ context.Context, summary domain.Summary) error {
	f.summaries = append(f.summaries, summary)
	return nil
}

func (f *fakeSummaryService) LoadDigest(_ context.Context, number string) (*domain.ReadingNotes, error) {
	return f.digests[number], nil
}

func (f *fakeSummaryService) SaveDigestMarkdown(_ context.Context, markdown, number string) string {
	f.savedMarkdown[number] = markdown
	return f.markdownURL
}

func newSummaryRouter(service SummaryService) *chi.Mux {
	h := NewSummaryHandler(service, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/summary", h.List)
	r.Post("/summary/summary", h.Save)
	r.Get("/summary/{number}", h.GetReadingNotes)
	r.Post("/summary/{number}/markdown", h.SaveMarkdown)
	return r
}

func TestSaveSummaryRejectsBlankTitle(t *testing.T) {
	service := newFakeSummaryService()
	router := newSummaryRouter(service)

	payload := `{"partition_key":"summary","row_key":"616","title":" "}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary/summary", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.summaries)
}

func TestSaveSummaryAcceptsValidPayload(t *testing.T) {
	service := newFakeSummaryService()
	router := newSummaryRouter(service)

	payload := `{"partition_key":"summary","row_key":"616","title":"Reading Notes #616"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary/summary", strings.NewReader(payload)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, service.summaries, 1)
	assert.Equal(t, "616", service.summaries[0].RowKey)
}

func TestGetReadingNotesNotFound(t *testing.T) {
	router := newSummaryRouter(newFakeSummaryService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReadingNotesReturnsDigest(t *testing.T) {
	service := newFakeSummaryService()
	service.digests["616"] = domain.NewReadingNotes("616")
	router := newSummaryRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary/616", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Reading Notes #616", data["title"])
}

func TestSaveMarkdownRejectsEmptyBody(t *testing.T) {
	router := newSummaryRouter(newFakeSummaryService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary/616/markdown", strings.NewReader("  \n")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveMarkdownStoresRawBody(t *testing.T) {
	service := newFakeSummaryService()
	router := newSummaryRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summary/616/markdown", strings.NewReader("# digest")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# digest", service.savedMarkdown["616"])
	body := decodeEnvelope(t, rec)
	assert.Equal(t, service.markdownURL, body["data"])
}
