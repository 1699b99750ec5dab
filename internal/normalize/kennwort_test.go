package normalize

import (
	"testing"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

func TestMatchKennwort(t *testing.T) {
	known := []ballot.PartyInfo{
		{ShortName: "CSU", FullName: "Christlich-Soziale Union in Bayern e.V."},
		{ShortName: "GRÜNE", FullName: "BÜNDNIS 90/DIE GRÜNEN"},
		{ShortName: "AiB", FullName: "Augsburg in Bürgerhand"},
	}

	tests := []struct {
		kennwort string
		want     string
		ok       bool
	}{
		{"Christlich-Soziale Union in Bayern e. V.", "CSU", true},
		{"BÜNDNIS 90 / DIE GRÜNEN", "GRÜNE", true},
		{"Augsburg in Bürgerhand (AiB)", "AiB", true},
		{"Generation AUX", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.kennwort, func(t *testing.T) {
			info, ok := MatchKennwort(tt.kennwort, known)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%+v)", tt.ok, ok, info)
			}
			if info.ShortName != tt.want {
				t.Errorf("expected %q, got %q", tt.want, info.ShortName)
			}
		})
	}
}
