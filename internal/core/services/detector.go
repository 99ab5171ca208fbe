package services

import (
	"math"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// Detector compares a profile's ideological vector against the stored
// fingerprints of any actor the profile mentions, and emits one flip
// record per axis whose divergence exceeds the threshold. A single
// aggregate distance would hide which specific stance reversed, so each
// axis is checked independently.
type Detector struct {
	threshold float64
}

// NewDetector creates a detector. A non-positive threshold falls back to
// domain.DefaultFlipThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = domain.DefaultFlipThreshold
	}
	return &Detector{threshold: threshold}
}

// DetectFlips resolves the profile's mentioned actor names against the
// known-actor registry and emits a record for every (actor, axis) whose
// absolute fingerprint-impact difference exceeds the threshold. Names the
// registry cannot resolve are silently ignored. Multiple axes on the same
// actor/decision pair each produce their own record.
func (d *Detector) DetectFlips(profile *domain.ImpactProfile, item *domain.DecisionItem, knownActors []*domain.ActorFingerprint) []domain.FlipRecord {
	var records []domain.FlipRecord

	for _, actor := range resolveActors(profile.MentionedActors, knownActors) {
		for _, axis := range domain.Axes() {
			fingerprint := actor.Vector.Value(axis)
			impact := profile.IdeologyVector.Value(axis)
			if math.Abs(fingerprint-impact) > d.threshold {
				records = append(records, domain.NewFlipRecord(actor, item.ID, axis, fingerprint, impact))
			}
		}
	}

	return records
}

// resolveActors maps mentioned names to registry entries, deduplicating
// actors that match more than one mention.
func resolveActors(mentioned []string, known []*domain.ActorFingerprint) []*domain.ActorFingerprint {
	var resolved []*domain.ActorFingerprint
	seen := make(map[string]bool)

	for _, name := range mentioned {
		for _, actor := range known {
			if seen[actor.ID] || !actor.MatchesName(name) {
				continue
			}
			seen[actor.ID] = true
			resolved = append(resolved, actor)
		}
	}

	return resolved
}
