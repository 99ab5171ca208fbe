package domain

import "strings"

// ActorFingerprint is the declared ideological position of a named
// political actor, keyed by (municipality, actor name). Fingerprints are
// seeded from external declarations and are read-only to this pipeline.
type ActorFingerprint struct {
	ID           string         `json:"id"`
	Municipality Municipality   `json:"municipality"`
	ActorName    string         `json:"actor_name"`
	Vector       IdeologyVector `json:"ideological_vector"`
}

// MatchesName reports whether a name reported by the enrichment model
// resolves to this actor. Matching is case-insensitive substring in either
// direction, so "Virtanen" matches "Liisa Virtanen" and vice versa.
func (a *ActorFingerprint) MatchesName(mentioned string) bool {
	mentioned = strings.TrimSpace(strings.ToLower(mentioned))
	registered := strings.ToLower(a.ActorName)
	if mentioned == "" {
		return false
	}
	return strings.Contains(registered, mentioned) || strings.Contains(mentioned, registered)
}
