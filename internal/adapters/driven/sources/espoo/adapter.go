// Package espoo scrapes the Espoo decision archive, an HTML site with a
// listing page and one detail page per decision. There is no structured
// API; markup traversal is the interface.
package espoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceAdapter = (*Adapter)(nil)

const listingPath = "/paatokset"

// Adapter lists and fetches Espoo decisions by scraping HTML pages.
// The canonical detail-page URL doubles as the stable source id.
type Adapter struct {
	client  *http.Client
	baseURL string
}

// New creates an Espoo adapter. baseURL is the archive root without a
// trailing slash.
func New(baseURL string, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Municipality returns the municipality this adapter serves.
func (a *Adapter) Municipality() domain.Municipality {
	return domain.MunicipalityEspoo
}

// ListItems scrapes the listing page. An entry without a link or title is
// malformed upstream data and is skipped; only a wholly unreachable
// listing fails the call.
func (a *Adapter) ListItems(ctx context.Context, limit int) ([]domain.SourceItem, error) {
	doc, err := a.fetchHTML(ctx, a.baseURL+listingPath)
	if err != nil {
		return nil, fmt.Errorf("%w: espoo listing: %v", domain.ErrSourceUnavailable, err)
	}

	var items []domain.SourceItem
	for _, entry := range findAll(doc, isDecisionEntry) {
		if limit > 0 && len(items) >= limit {
			break
		}

		link := findFirst(entry, isElement("a"))
		if link == nil {
			continue
		}
		href := attr(link, "href")
		title := strings.TrimSpace(textContent(link))
		if href == "" || title == "" {
			continue
		}

		itemURL := a.absoluteURL(href)
		item := domain.SourceItem{
			SourceID: itemURL,
			Title:    title,
			URL:      itemURL,
		}
		if t := findFirst(entry, isElement("time")); t != nil {
			if parsed, err := time.Parse("2006-01-02", attr(t, "datetime")); err == nil {
				item.DateHint = &parsed
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// FetchDetail scrapes one decision's detail page. Missing sections are
// tolerated; the page being unreachable is not.
func (a *Adapter) FetchDetail(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error) {
	doc, err := a.fetchHTML(ctx, item.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: espoo detail %s: %v", domain.ErrItemFetchFailed, item.URL, err)
	}

	detail := &domain.SourceDetail{}

	if n := findFirst(doc, hasClass("decision-description")); n != nil {
		detail.Description = strings.TrimSpace(textContent(n))
	}
	if n := findFirst(doc, hasClass("decision-proposal")); n != nil {
		detail.Proposal = strings.TrimSpace(textContent(n))
	}
	if t := findFirst(doc, isElement("time")); t != nil {
		if parsed, err := time.Parse("2006-01-02", attr(t, "datetime")); err == nil {
			detail.Date = &parsed
		}
	}

	for _, link := range findAll(doc, hasClass("attachment")) {
		href := attr(link, "href")
		if href == "" {
			continue
		}
		detail.AttachmentRefs = append(detail.AttachmentRefs, domain.AttachmentRef{
			Kind:  attachmentKind(href),
			URL:   a.absoluteURL(href),
			Title: strings.TrimSpace(textContent(link)),
		})
	}

	return detail, nil
}

func (a *Adapter) fetchHTML(ctx context.Context, rawURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return html.Parse(resp.Body)
}

func (a *Adapter) absoluteURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if parsed.IsAbs() {
		return href
	}
	base, err := url.Parse(a.baseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

func attachmentKind(href string) domain.AttachmentKind {
	if strings.HasSuffix(strings.ToLower(href), ".pdf") {
		return domain.AttachmentKindPDF
	}
	return domain.AttachmentKindWebPage
}

// isDecisionEntry matches the listing's per-decision container.
func isDecisionEntry(n *html.Node) bool {
	return hasClass("decision-item")(n)
}
