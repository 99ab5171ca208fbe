package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AttachmentExtractor = (*Extractor)(nil)

const (
	// defaultCharLimit caps extracted text per attachment. Attachments are
	// supplementary context for enrichment, not the primary record.
	defaultCharLimit = 8000

	defaultTimeout = 30 * time.Second

	// maxDownloadBytes caps how much of an attachment we pull down.
	maxDownloadBytes = 20 << 20
)

// Extractor downloads attachments and converts them to plain text.
// Web pages go through readability extraction, PDFs through the external
// pdftotext binary. A failed attachment is reported, never fatal: the
// caller logs it and enriches from the remaining text.
type Extractor struct {
	client    *http.Client
	charLimit int
	pdftotext string
}

// Config holds extractor configuration.
type Config struct {
	// Client is the HTTP client used for downloads. Defaults to a client
	// with a 30s timeout.
	Client *http.Client

	// CharLimit caps the text returned per attachment. Defaults to 8000.
	CharLimit int

	// PDFToText is the path to the pdftotext binary. Defaults to looking
	// it up on PATH.
	PDFToText string
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	limit := cfg.CharLimit
	if limit <= 0 {
		limit = defaultCharLimit
	}
	bin := cfg.PDFToText
	if bin == "" {
		bin = "pdftotext"
	}
	return &Extractor{client: client, charLimit: limit, pdftotext: bin}
}

// ExtractText converts one attachment to plain text, capped at the
// configured character limit. Errors wrap domain.ErrAttachmentUnreadable.
func (e *Extractor) ExtractText(ctx context.Context, ref domain.AttachmentRef) (string, error) {
	switch ref.Kind {
	case domain.AttachmentKindWebPage:
		return e.extractWebPage(ctx, ref.URL)
	case domain.AttachmentKindPDF:
		return e.extractPDF(ctx, ref.URL)
	default:
		return "", fmt.Errorf("%w: unsupported attachment kind %q", domain.ErrAttachmentUnreadable, ref.Kind)
	}
}

func (e *Extractor) extractWebPage(ctx context.Context, rawURL string) (string, error) {
	body, err := e.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse url %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: readability %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("%w: no readable content at %s", domain.ErrAttachmentUnreadable, rawURL)
	}
	return truncate(text, e.charLimit), nil
}

func (e *Extractor) extractPDF(ctx context.Context, rawURL string) (string, error) {
	body, err := e.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "flipwatch-attachment-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: temp file: %v", domain.ErrAttachmentUnreadable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write temp file: %v", domain.ErrAttachmentUnreadable, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %v", domain.ErrAttachmentUnreadable, err)
	}

	// "-" sends the text to stdout
	cmd := exec.CommandContext(ctx, e.pdftotext, "-layout", "-q", tmp.Name(), "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("%w: empty pdf text at %s", domain.ErrAttachmentUnreadable, rawURL)
	}
	return truncate(text, e.charLimit), nil
}

func (e *Extractor) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrAttachmentUnreadable, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body %s: %v", domain.ErrAttachmentUnreadable, rawURL, err)
	}
	return body, nil
}

func truncate(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}
