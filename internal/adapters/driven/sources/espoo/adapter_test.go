package espoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<ul class="decision-list">
  <li class="decision-item">
    <a href="/paatokset/item/123">Park renovation</a>
    <time datetime="2026-03-14">14.3.2026</time>
  </li>
  <li class="decision-item">
    <a href="/paatokset/item/124">School network review</a>
  </li>
  <li class="decision-item">
    <a href="/paatokset/item/125"></a>
  </li>
  <li class="decision-item">
    <span>No link here</span>
  </li>
</ul>
</body></html>`

const detailHTML = `<!DOCTYPE html>
<html><body>
<article>
  <h1>Park renovation</h1>
  <time datetime="2026-03-14">14.3.2026</time>
  <section class="decision-description">
    <p>The board proposes renovating the central park.</p>
  </section>
  <section class="decision-proposal">
    <p>Approve the renovation plan as presented.</p>
  </section>
  <ul>
    <li><a class="attachment" href="/files/plan.pdf">Renovation plan</a></li>
    <li><a class="attachment" href="/paatokset/background">Background memo</a></li>
  </ul>
</article>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/paatokset", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/paatokset/item/123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailHTML))
	})
	return httptest.NewServer(mux)
}

func TestListItems(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	adapter := New(server.URL, server.Client())

	items, err := adapter.ListItems(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Entries without a link or title are skipped, not fatal.
	if len(items) != 2 {
		t.Fatalf("expected 2 well-formed items, got %d", len(items))
	}

	first := items[0]
	if first.SourceID != server.URL+"/paatokset/item/123" {
		t.Errorf("expected absolute url as source id, got %s", first.SourceID)
	}
	if first.Title != "Park renovation" {
		t.Errorf("expected title, got %q", first.Title)
	}
	if first.DateHint == nil || first.DateHint.Format("2006-01-02") != "2026-03-14" {
		t.Errorf("expected date hint 2026-03-14, got %v", first.DateHint)
	}
	if items[1].DateHint != nil {
		t.Errorf("expected no date hint for entry without time element, got %v", items[1].DateHint)
	}
}

func TestListItems_Limit(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	adapter := New(server.URL, server.Client())

	items, err := adapter.ListItems(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected limit respected, got %d items", len(items))
	}
}

func TestListItems_SourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := New(server.URL, server.Client())

	_, err := adapter.ListItems(context.Background(), 10)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestListItems_StableSourceIDs(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	adapter := New(server.URL, server.Client())

	first, err := adapter.ListItems(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := adapter.ListItems(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].SourceID != second[i].SourceID {
			t.Errorf("expected stable source id, got %s then %s", first[i].SourceID, second[i].SourceID)
		}
	}
}

func TestFetchDetail(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	adapter := New(server.URL, server.Client())

	detail, err := adapter.FetchDetail(context.Background(), domain.SourceItem{
		SourceID: server.URL + "/paatokset/item/123",
		URL:      server.URL + "/paatokset/item/123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(detail.Description, "renovating the central park") {
		t.Errorf("expected description extracted, got %q", detail.Description)
	}
	if !strings.Contains(detail.Proposal, "Approve the renovation plan") {
		t.Errorf("expected proposal extracted, got %q", detail.Proposal)
	}
	if detail.Date == nil || detail.Date.Format("2006-01-02") != "2026-03-14" {
		t.Errorf("expected date 2026-03-14, got %v", detail.Date)
	}

	if len(detail.AttachmentRefs) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(detail.AttachmentRefs))
	}
	if detail.AttachmentRefs[0].Kind != domain.AttachmentKindPDF {
		t.Errorf("expected .pdf link detected as pdf, got %s", detail.AttachmentRefs[0].Kind)
	}
	if detail.AttachmentRefs[1].Kind != domain.AttachmentKindWebPage {
		t.Errorf("expected html link detected as webpage, got %s", detail.AttachmentRefs[1].Kind)
	}
	if !strings.HasPrefix(detail.AttachmentRefs[0].URL, server.URL) {
		t.Errorf("expected attachment url resolved to absolute, got %s", detail.AttachmentRefs[0].URL)
	}
}

func TestFetchDetail_ItemFetchFailed(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	adapter := New(server.URL, server.Client())

	_, err := adapter.FetchDetail(context.Background(), domain.SourceItem{
		URL: server.URL + "/paatokset/item/999",
	})
	if !errors.Is(err, domain.ErrItemFetchFailed) {
		t.Errorf("expected ErrItemFetchFailed, got %v", err)
	}
}

func TestMunicipality(t *testing.T) {
	adapter := New("https://example.test", nil)
	if adapter.Municipality() != domain.MunicipalityEspoo {
		t.Errorf("expected espoo, got %s", adapter.Municipality())
	}
}
