package domain

import "time"

// RawTextLimit bounds the concatenated text stored for a decision item.
// Enrichment has a hard prompt-size ceiling, so anything past this is cut
// before it ever reaches the store.
const RawTextLimit = 20000

// DecisionItem is one normalized governmental decision or agenda entry.
// SourceID is the dedup key: globally unique per source (canonical URL or
// upstream id), stable across runs.
type DecisionItem struct {
	ID           string       `json:"id"`
	SourceID     string       `json:"source_id"`
	Municipality Municipality `json:"municipality"`
	Title        string       `json:"title"`
	RawText      string       `json:"raw_text"`
	SourceURL    string       `json:"source_url"`
	DecisionDate *time.Time   `json:"decision_date,omitempty"`
	Profile      *ImpactProfile `json:"impact_profile,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ImpactProfile is the enrichment output attached 1:1 to a decision item.
// Re-enrichment replaces the whole profile, it never appends.
type ImpactProfile struct {
	EconomicImpact      EconomicImpact       `json:"economic_impact"`
	StrategicDriver     string               `json:"strategic_driver"`
	Winners             []string             `json:"winners"`
	Losers              []string             `json:"losers"`
	ControversyHotspots []ControversyHotspot `json:"controversy_hotspots"`
	IdeologyVector      IdeologyVector       `json:"ideological_vector"`
	FrictionIndex       int                  `json:"friction_index"`
	MentionedActors     []string             `json:"mentioned_actors"`
	Summary             string               `json:"summary"`
	AttachmentNotes     string               `json:"attachment_notes,omitempty"`
	EnrichedAt          time.Time            `json:"enriched_at"`
	Model               string               `json:"model,omitempty"`
}

// EconomicImpact holds the cost-related fields of a profile.
type EconomicImpact struct {
	EstimatedCostEUR float64 `json:"estimated_cost_eur"`
	FundingSource    string  `json:"funding_source"`
	BudgetAlignment  string  `json:"budget_alignment"`
}

// ControversyHotspot is one contested issue inside a decision.
// TensionLevel is 0-100.
type ControversyHotspot struct {
	Issue        string `json:"issue"`
	TensionLevel int    `json:"tension_level"`
	Reasoning    string `json:"reasoning"`
}

// Validate clamps every bounded field into its declared range.
// Out-of-range model output is repaired, not rejected.
//
// A friction index of exactly 0 is indistinguishable from an omitted
// field after JSON decoding and is treated as omitted: it is replaced by
// the highest hotspot tension level. A model that reports 0 friction
// while listing tense hotspots therefore gets the derived value.
func (p *ImpactProfile) Validate() {
	p.IdeologyVector = p.IdeologyVector.Clamped()
	for i := range p.ControversyHotspots {
		p.ControversyHotspots[i].TensionLevel = clampInt(p.ControversyHotspots[i].TensionLevel, 0, 100)
	}
	if p.FrictionIndex == 0 {
		p.FrictionIndex = p.DeriveFrictionIndex()
	}
	p.FrictionIndex = clampInt(p.FrictionIndex, 0, 100)
}

// DeriveFrictionIndex returns the highest hotspot tension level.
// Used when the model omits the friction index.
func (p *ImpactProfile) DeriveFrictionIndex() int {
	max := 0
	for _, h := range p.ControversyHotspots {
		if h.TensionLevel > max {
			max = h.TensionLevel
		}
	}
	return max
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
