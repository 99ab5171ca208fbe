// Package helsinki reads the Helsinki decision API, a paginated JSON issue
// listing with one resource per decision.
package helsinki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceAdapter = (*Adapter)(nil)

// pageSize is the per-request page size against the issue API.
const pageSize = 50

// Adapter lists and fetches Helsinki decisions through the JSON issue API.
// The API's permalink is the stable source id.
type Adapter struct {
	client  *http.Client
	baseURL string
}

// New creates a Helsinki adapter. baseURL is the API root without a
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
	return domain.MunicipalityHelsinki
}

type listResponse struct {
	Count   int         `json:"count"`
	Next    string      `json:"next"`
	Results []listIssue `json:"results"`
}

type listIssue struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Permalink    string `json:"permalink"`
	DecisionDate string `json:"decision_date"`
}

type detailResponse struct {
	Summary      string           `json:"summary"`
	Proposal     string           `json:"proposal"`
	DecisionDate string           `json:"decision_date"`
	Attachments  []apiAttachment  `json:"attachments"`
}

type apiAttachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// ListItems pages through the issue listing until limit items are
// collected or the API reports no next page. This is the only method
// that paginates.
func (a *Adapter) ListItems(ctx context.Context, limit int) ([]domain.SourceItem, error) {
	var items []domain.SourceItem
	offset := 0

	for {
		url := fmt.Sprintf("%s/v1/issues/?limit=%d&offset=%d", a.baseURL, pageSize, offset)

		var page listResponse
		if err := a.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("%w: helsinki listing: %v", domain.ErrSourceUnavailable, err)
		}

		for _, issue := range page.Results {
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
			if issue.ID == "" || issue.Subject == "" {
				continue
			}

			sourceID := issue.Permalink
			if sourceID == "" {
				sourceID = fmt.Sprintf("%s/v1/issues/%s/", a.baseURL, issue.ID)
			}

			item := domain.SourceItem{
				SourceID: sourceID,
				Title:    issue.Subject,
				URL:      fmt.Sprintf("%s/v1/issues/%s/", a.baseURL, issue.ID),
			}
			if parsed, err := parseAPIDate(issue.DecisionDate); err == nil {
				item.DateHint = &parsed
			}

			items = append(items, item)
		}

		if page.Next == "" || len(page.Results) == 0 {
			return items, nil
		}
		offset += pageSize
	}
}

// FetchDetail fetches one issue resource. Missing summary, proposal or
// date fields come back empty, not as errors.
func (a *Adapter) FetchDetail(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error) {
	var resp detailResponse
	if err := a.getJSON(ctx, item.URL, &resp); err != nil {
		return nil, fmt.Errorf("%w: helsinki detail %s: %v", domain.ErrItemFetchFailed, item.URL, err)
	}

	detail := &domain.SourceDetail{
		Description: resp.Summary,
		Proposal:    resp.Proposal,
	}
	if parsed, err := parseAPIDate(resp.DecisionDate); err == nil {
		detail.Date = &parsed
	}

	for _, att := range resp.Attachments {
		if att.URL == "" {
			continue
		}
		kind := domain.AttachmentKindWebPage
		if att.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(att.URL), ".pdf") {
			kind = domain.AttachmentKindPDF
		}
		detail.AttachmentRefs = append(detail.AttachmentRefs, domain.AttachmentRef{
			Kind:  kind,
			URL:   att.URL,
			Title: att.Name,
		})
	}

	return detail, nil
}

func (a *Adapter) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// parseAPIDate accepts the two timestamp layouts the API is known to emit.
func parseAPIDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
