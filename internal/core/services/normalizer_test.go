package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

func TestNormalize_ConcatPriorityOrder(t *testing.T) {
	n := NewNormalizer(0)

	item := domain.SourceItem{
		SourceID: "https://paatokset.espoo.fi/item/123",
		Title:    "Park renovation",
		URL:      "https://paatokset.espoo.fi/item/123",
	}
	detail := &domain.SourceDetail{
		Description: "Description text",
		Proposal:    "Proposal text",
	}

	decision := n.Normalize(item, detail, []string{"Attachment one", "Attachment two"})

	want := "Description text\n\nProposal text\n\nAttachment one\n\nAttachment two"
	if decision.RawText != want {
		t.Errorf("expected priority-ordered concat, got %q", decision.RawText)
	}
	if decision.SourceID != item.SourceID {
		t.Errorf("expected source id from item, got %s", decision.SourceID)
	}
	if decision.Title != "Park renovation" {
		t.Errorf("expected title carried over, got %s", decision.Title)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(0)

	item := domain.SourceItem{SourceID: "id-1", Title: "T", URL: "u"}
	detail := &domain.SourceDetail{Description: "d", Proposal: "p"}
	attachments := []string{"a1", "a2"}

	first := n.Normalize(item, detail, attachments)
	second := n.Normalize(item, detail, attachments)

	if *first != *second {
		t.Errorf("expected byte-identical output for identical input:\n%+v\n%+v", first, second)
	}
}

func TestNormalize_Truncates(t *testing.T) {
	n := NewNormalizer(100)

	detail := &domain.SourceDetail{Description: strings.Repeat("x", 500)}
	decision := n.Normalize(domain.SourceItem{SourceID: "id"}, detail, nil)

	if len(decision.RawText) != 100 {
		t.Errorf("expected raw text capped at 100, got %d", len(decision.RawText))
	}
}

func TestNormalize_TruncatesOnRuneBoundary(t *testing.T) {
	n := NewNormalizer(11)

	detail := &domain.SourceDetail{Description: strings.Repeat("ä", 20)}
	decision := n.Normalize(domain.SourceItem{SourceID: "id"}, detail, nil)

	if !utf8.ValidString(decision.RawText) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", decision.RawText)
	}
	if len(decision.RawText) > 11 {
		t.Errorf("expected raw text within the 11-byte cap, got %d bytes", len(decision.RawText))
	}
	if decision.RawText != strings.Repeat("ä", 5) {
		t.Errorf("expected whole runes only, got %q", decision.RawText)
	}
}

func TestNormalize_SkipsEmptyParts(t *testing.T) {
	n := NewNormalizer(0)

	detail := &domain.SourceDetail{Description: "", Proposal: "Only proposal"}
	decision := n.Normalize(domain.SourceItem{SourceID: "id"}, detail, []string{"", "  ", "text"})

	if decision.RawText != "Only proposal\n\ntext" {
		t.Errorf("expected blank parts dropped, got %q", decision.RawText)
	}
}

func TestNormalize_DateFallsBackToHint(t *testing.T) {
	n := NewNormalizer(0)

	hint := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	item := domain.SourceItem{SourceID: "id", DateHint: &hint}

	decision := n.Normalize(item, &domain.SourceDetail{}, nil)
	if decision.DecisionDate == nil || !decision.DecisionDate.Equal(hint) {
		t.Errorf("expected date hint used when detail has no date, got %v", decision.DecisionDate)
	}

	detailDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	decision = n.Normalize(item, &domain.SourceDetail{Date: &detailDate}, nil)
	if decision.DecisionDate == nil || !decision.DecisionDate.Equal(detailDate) {
		t.Errorf("expected detail date preferred over hint, got %v", decision.DecisionDate)
	}
}

func TestNormalize_NoDate(t *testing.T) {
	n := NewNormalizer(0)
	decision := n.Normalize(domain.SourceItem{SourceID: "id"}, &domain.SourceDetail{}, nil)
	if decision.DecisionDate != nil {
		t.Errorf("expected nil date, got %v", decision.DecisionDate)
	}
}
