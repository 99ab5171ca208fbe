package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// Normalizer maps an adapter's raw item plus extracted texts into the
// canonical decision item shape. It is a pure mapping: no network, no
// model calls, identical inputs produce identical output.
type Normalizer struct {
	rawTextLimit int
}

// NewNormalizer creates a normalizer with the given raw-text cap.
// A non-positive limit falls back to domain.RawTextLimit.
func NewNormalizer(rawTextLimit int) *Normalizer {
	if rawTextLimit <= 0 {
		rawTextLimit = domain.RawTextLimit
	}
	return &Normalizer{rawTextLimit: rawTextLimit}
}

// Normalize builds a decision item from one listed item, its detail, and
// any attachment texts. Content is concatenated in priority order:
// description, proposal, attachments; the result is truncated to the cap.
func (n *Normalizer) Normalize(item domain.SourceItem, detail *domain.SourceDetail, attachmentTexts []string) *domain.DecisionItem {
	parts := make([]string, 0, 2+len(attachmentTexts))
	if s := strings.TrimSpace(detail.Description); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(detail.Proposal); s != "" {
		parts = append(parts, s)
	}
	for _, text := range attachmentTexts {
		if s := strings.TrimSpace(text); s != "" {
			parts = append(parts, s)
		}
	}

	raw := strings.Join(parts, "\n\n")
	if len(raw) > n.rawTextLimit {
		// Cut on a rune boundary; a byte-indexed slice could split a
		// multi-byte rune and leave invalid UTF-8 behind.
		cut := n.rawTextLimit
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}

	date := detail.Date
	if date == nil {
		date = item.DateHint
	}

	return &domain.DecisionItem{
		SourceID:     item.SourceID,
		Title:        item.Title,
		RawText:      raw,
		SourceURL:    item.URL,
		DecisionDate: date,
	}
}

// stamp fills the store-owned fields the normalizer deliberately leaves
// blank. Split out so Normalize stays deterministic.
func stamp(item *domain.DecisionItem, m domain.Municipality, now time.Time) *domain.DecisionItem {
	item.Municipality = m
	item.CreatedAt = now
	item.UpdatedAt = now
	return item
}
