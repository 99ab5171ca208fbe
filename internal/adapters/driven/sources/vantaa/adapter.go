// Package vantaa reads the Vantaa decision feed, a plain RSS channel.
// The feed carries title, link, guid and a short HTML description per
// decision; the linked page holds the full text and is folded in as a
// web-page attachment.
package vantaa

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter lists and fetches Vantaa decisions from an RSS feed.
// The item guid (falling back to the link) is the stable source id.
type Adapter struct {
	client  *http.Client
	feedURL string
}

// New creates a Vantaa adapter for the given feed URL.
func New(feedURL string, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Adapter{client: client, feedURL: feedURL}
}

// Municipality returns the municipality this adapter serves.
func (a *Adapter) Municipality() domain.Municipality {
	return domain.MunicipalityVantaa
}

type rssFeed struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	GUID        string       `xml:"guid"`
	PubDate     string       `xml:"pubDate"`
	Description string       `xml:"description"`
	Enclosure   rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// ListItems fetches and parses the feed. RSS feeds are single-page; limit
// just caps how many entries are taken from the top.
func (a *Adapter) ListItems(ctx context.Context, limit int) ([]domain.SourceItem, error) {
	feed, err := a.fetchFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: vantaa feed: %v", domain.ErrSourceUnavailable, err)
	}

	var items []domain.SourceItem
	for _, entry := range feed.Channel.Items {
		if limit > 0 && len(items) >= limit {
			break
		}

		sourceID := sourceID(entry)
		title := strings.TrimSpace(entry.Title)
		if sourceID == "" || title == "" {
			continue
		}

		item := domain.SourceItem{
			SourceID: sourceID,
			Title:    title,
			URL:      entry.Link,
		}
		if parsed, err := parsePubDate(entry.PubDate); err == nil {
			item.DateHint = &parsed
		}

		items = append(items, item)
	}

	return items, nil
}

// FetchDetail re-reads the feed and returns the matching entry's
// description, with the linked page and any enclosure as attachments.
// RSS offers no per-item endpoint, so the feed itself is the detail
// source.
func (a *Adapter) FetchDetail(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error) {
	feed, err := a.fetchFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: vantaa detail %s: %v", domain.ErrItemFetchFailed, item.SourceID, err)
	}

	for _, entry := range feed.Channel.Items {
		if sourceID(entry) != item.SourceID {
			continue
		}

		detail := &domain.SourceDetail{
			Description: stripTags(entry.Description),
		}
		if parsed, err := parsePubDate(entry.PubDate); err == nil {
			detail.Date = &parsed
		}
		if entry.Link != "" {
			detail.AttachmentRefs = append(detail.AttachmentRefs, domain.AttachmentRef{
				Kind:  domain.AttachmentKindWebPage,
				URL:   entry.Link,
				Title: strings.TrimSpace(entry.Title),
			})
		}
		if entry.Enclosure.URL != "" && entry.Enclosure.Type == "application/pdf" {
			detail.AttachmentRefs = append(detail.AttachmentRefs, domain.AttachmentRef{
				Kind: domain.AttachmentKindPDF,
				URL:  entry.Enclosure.URL,
			})
		}

		return detail, nil
	}

	return nil, fmt.Errorf("%w: vantaa item %s no longer in feed", domain.ErrItemFetchFailed, item.SourceID)
}

func (a *Adapter) fetchFeed(ctx context.Context) (*rssFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL, nil)
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

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func sourceID(entry rssItem) string {
	if strings.TrimSpace(entry.GUID) != "" {
		return strings.TrimSpace(entry.GUID)
	}
	return strings.TrimSpace(entry.Link)
}

// parsePubDate accepts the RFC 1123 variants seen in municipal feeds.
func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// stripTags flattens description HTML into plain text.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.WriteString(tokenizer.Token().Data)
		}
	}
	return strings.TrimSpace(sb.String())
}
