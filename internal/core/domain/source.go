package domain

import "time"

// Municipality identifies one upstream record system. Each municipality
// owns a disjoint source-id namespace and actor registry partition, so
// separate municipalities can sync concurrently without contention.
type Municipality string

const (
	MunicipalityEspoo    Municipality = "espoo"
	MunicipalityHelsinki Municipality = "helsinki"
	MunicipalityVantaa   Municipality = "vantaa"
)

// SourceItem is one entry from an adapter's listing. SourceID must be
// stable across runs: the same decision listed twice yields the same id.
type SourceItem struct {
	SourceID string     `json:"source_id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	DateHint *time.Time `json:"date_hint,omitempty"`
}

// SourceDetail is the full content of one listed item.
type SourceDetail struct {
	Description    string          `json:"description"`
	Proposal       string          `json:"proposal"`
	AttachmentRefs []AttachmentRef `json:"attachment_refs,omitempty"`
	Date           *time.Time      `json:"date,omitempty"`
}

// AttachmentKind distinguishes how an attachment reference is fetched
// and converted to text.
type AttachmentKind string

const (
	AttachmentKindPDF     AttachmentKind = "pdf"
	AttachmentKindWebPage AttachmentKind = "webpage"
)

// AttachmentRef points at a linked document whose text should be folded
// into the decision's raw content.
type AttachmentRef struct {
	Kind  AttachmentKind `json:"kind"`
	URL   string         `json:"url"`
	Title string         `json:"title,omitempty"`
}
