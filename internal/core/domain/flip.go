package domain

import (
	"fmt"
	"math"
	"time"
)

// DefaultFlipThreshold is the per-axis discrepancy above which a flip is
// recorded. Differences live on a [-2, 2] scale, so 1.2 means divergence
// greater than 60% of the full axis span. Heuristic, overridable via config.
const DefaultFlipThreshold = 1.2

// FlipRecord is one detected divergence between an actor's declared
// fingerprint and a decision's measured impact on a single axis.
// Append-only; (actor, decision, axis) is unique across runs.
type FlipRecord struct {
	ID               string    `json:"id"`
	ActorID          string    `json:"actor_id"`
	ActorName        string    `json:"actor_name"`
	DecisionItemID   string    `json:"decision_item_id"`
	Axis             Axis      `json:"axis"`
	FingerprintValue float64   `json:"fingerprint_value"`
	ImpactValue      float64   `json:"impact_value"`
	Discrepancy      float64   `json:"discrepancy"`
	Description      string    `json:"description"`
	DetectedAt       time.Time `json:"detected_at"`
}

// NewFlipRecord builds a record for one exceeded axis.
func NewFlipRecord(actor *ActorFingerprint, decisionID string, axis Axis, fingerprint, impact float64) FlipRecord {
	return FlipRecord{
		ActorID:          actor.ID,
		ActorName:        actor.ActorName,
		DecisionItemID:   decisionID,
		Axis:             axis,
		FingerprintValue: fingerprint,
		ImpactValue:      impact,
		Discrepancy:      math.Abs(fingerprint - impact),
		Description: fmt.Sprintf("%s: declared %s position %.2f, measured decision impact %.2f",
			actor.ActorName, axis, fingerprint, impact),
		DetectedAt: time.Now(),
	}
}
