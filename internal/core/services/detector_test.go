package services

import (
	"math"
	"testing"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

func testActor(id, name string, vector domain.IdeologyVector) *domain.ActorFingerprint {
	return &domain.ActorFingerprint{
		ID:           id,
		Municipality: domain.MunicipalityEspoo,
		ActorName:    name,
		Vector:       vector,
	}
}

func TestDetectFlips_EnvironmentalFlip(t *testing.T) {
	d := NewDetector(0)

	actor := testActor("actor-1", "Liisa Virtanen", domain.IdeologyVector{Environmental: 0.8})
	profile := &domain.ImpactProfile{
		MentionedActors: []string{"Liisa Virtanen"},
		IdeologyVector:  domain.IdeologyVector{Environmental: -0.6},
	}
	item := &domain.DecisionItem{ID: "decision-1"}

	records := d.DetectFlips(profile, item, []*domain.ActorFingerprint{actor})

	if len(records) != 1 {
		t.Fatalf("expected exactly 1 flip record, got %d", len(records))
	}
	rec := records[0]
	if rec.Axis != domain.AxisEnvironmental {
		t.Errorf("expected environmental axis, got %s", rec.Axis)
	}
	if math.Abs(rec.Discrepancy-1.4) > 1e-9 {
		t.Errorf("expected discrepancy 1.4, got %v", rec.Discrepancy)
	}
	if rec.FingerprintValue != 0.8 || rec.ImpactValue != -0.6 {
		t.Errorf("expected values carried into record, got f=%v v=%v", rec.FingerprintValue, rec.ImpactValue)
	}
}

func TestDetectFlips_ThresholdBoundary(t *testing.T) {
	d := NewDetector(0)
	item := &domain.DecisionItem{ID: "decision-1"}

	tests := []struct {
		name        string
		fingerprint float64
		impact      float64
		wantFlip    bool
	}{
		{"exactly at threshold is not a flip", 0.6, -0.6, false},
		{"just above threshold", 0.61, -0.6, true},
		{"well below threshold", 0.2, -0.2, false},
		{"maximum divergence", 1.0, -1.0, true},
		{"identical", 0.5, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := testActor("a", "X", domain.IdeologyVector{Economic: tt.fingerprint})
			profile := &domain.ImpactProfile{
				MentionedActors: []string{"X"},
				IdeologyVector:  domain.IdeologyVector{Economic: tt.impact},
			}

			records := d.DetectFlips(profile, item, []*domain.ActorFingerprint{actor})
			gotFlip := len(records) > 0
			if gotFlip != tt.wantFlip {
				t.Errorf("|%v-%v| flip = %v, want %v", tt.fingerprint, tt.impact, gotFlip, tt.wantFlip)
			}
		})
	}
}

func TestDetectFlips_MultipleAxesIndependent(t *testing.T) {
	d := NewDetector(0)

	actor := testActor("a", "X", domain.IdeologyVector{
		Economic:      0.9,
		Environmental: 0.9,
		Security:      0.1,
	})
	profile := &domain.ImpactProfile{
		MentionedActors: []string{"X"},
		IdeologyVector: domain.IdeologyVector{
			Economic:      -0.9,
			Environmental: -0.8,
			Security:      0.2,
		},
	}

	records := d.DetectFlips(profile, &domain.DecisionItem{ID: "d"}, []*domain.ActorFingerprint{actor})

	if len(records) != 2 {
		t.Fatalf("expected 2 independent axis records, got %d", len(records))
	}
	axes := map[domain.Axis]bool{}
	for _, rec := range records {
		axes[rec.Axis] = true
	}
	if !axes[domain.AxisEconomic] || !axes[domain.AxisEnvironmental] {
		t.Errorf("expected economic and environmental records, got %v", axes)
	}
}

func TestDetectFlips_UnresolvedNamesIgnored(t *testing.T) {
	d := NewDetector(0)

	actor := testActor("a", "Liisa Virtanen", domain.IdeologyVector{Economic: 1.0})
	profile := &domain.ImpactProfile{
		MentionedActors: []string{"Unknown Person"},
		IdeologyVector:  domain.IdeologyVector{Economic: -1.0},
	}

	records := d.DetectFlips(profile, &domain.DecisionItem{ID: "d"}, []*domain.ActorFingerprint{actor})
	if len(records) != 0 {
		t.Errorf("expected no records for unresolved names, got %d", len(records))
	}
}

func TestDetectFlips_NoMentionedActors(t *testing.T) {
	d := NewDetector(0)

	actor := testActor("a", "X", domain.IdeologyVector{Economic: 1.0})
	profile := &domain.ImpactProfile{IdeologyVector: domain.IdeologyVector{Economic: -1.0}}

	records := d.DetectFlips(profile, &domain.DecisionItem{ID: "d"}, []*domain.ActorFingerprint{actor})
	if len(records) != 0 {
		t.Errorf("expected no records without mentions, got %d", len(records))
	}
}

func TestDetectFlips_ActorMatchedOnce(t *testing.T) {
	d := NewDetector(0)

	// Two mentions resolving to the same actor must not double the records.
	actor := testActor("a", "Liisa Virtanen", domain.IdeologyVector{Economic: 1.0})
	profile := &domain.ImpactProfile{
		MentionedActors: []string{"Liisa Virtanen", "Virtanen"},
		IdeologyVector:  domain.IdeologyVector{Economic: -1.0},
	}

	records := d.DetectFlips(profile, &domain.DecisionItem{ID: "d"}, []*domain.ActorFingerprint{actor})
	if len(records) != 1 {
		t.Errorf("expected 1 record for actor matched twice, got %d", len(records))
	}
}

func TestDetectFlips_CustomThreshold(t *testing.T) {
	d := NewDetector(0.5)

	actor := testActor("a", "X", domain.IdeologyVector{Values: 0.4})
	profile := &domain.ImpactProfile{
		MentionedActors: []string{"X"},
		IdeologyVector:  domain.IdeologyVector{Values: -0.2},
	}

	records := d.DetectFlips(profile, &domain.DecisionItem{ID: "d"}, []*domain.ActorFingerprint{actor})
	if len(records) != 1 {
		t.Errorf("expected configured threshold 0.5 to flag |0.4-(-0.2)|=0.6, got %d records", len(records))
	}
}
