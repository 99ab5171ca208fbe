package domain

import "testing"

func TestActorFingerprint_MatchesName(t *testing.T) {
	actor := &ActorFingerprint{
		Municipality: MunicipalityEspoo,
		ActorName:    "Liisa Virtanen",
	}

	tests := []struct {
		name      string
		mentioned string
		want      bool
	}{
		{"exact", "Liisa Virtanen", true},
		{"case insensitive", "liisa virtanen", true},
		{"surname only", "Virtanen", true},
		{"mention longer than registered", "councillor Liisa Virtanen (Greens)", true},
		{"whitespace padded", "  Virtanen ", true},
		{"no match", "Matti Korhonen", false},
		{"empty", "", false},
		{"blank", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := actor.MatchesName(tt.mentioned); got != tt.want {
				t.Errorf("MatchesName(%q) = %v, want %v", tt.mentioned, got, tt.want)
			}
		})
	}
}
