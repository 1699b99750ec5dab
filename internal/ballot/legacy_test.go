package ballot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const legacyJSON = `{
  "totalStimmen": 59,
  "maxPerCandidate": 3,
  "parties": [
    {"id": 2, "name": "SPD", "candidates": [
      {"id": 2, "name": "Meier, Anna"},
      {"id": 1, "name": "Schulz,  Peter Paul"}
    ]},
    {"id": 1, "name": "CDU", "candidates": [
      {"id": 1, "name": "Einzelname"}
    ]}
  ]
}`

func TestIsLegacy(t *testing.T) {
	if !IsLegacy([]byte(legacyJSON)) {
		t.Error("expected legacy layout to be detected")
	}
	data, err := Marshal(sampleElection())
	if err != nil {
		t.Fatal(err)
	}
	if IsLegacy(data) {
		t.Error("canonical layout detected as legacy")
	}
	if IsLegacy([]byte("not json")) {
		t.Error("garbage detected as legacy")
	}
}

func TestFromLegacy(t *testing.T) {
	le, err := DecodeLegacy([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("DecodeLegacy failed: %v", err)
	}
	e := FromLegacy("mr-stvv", le)

	if e.TotalStimmen != 59 || e.MaxPerCandidate != 3 {
		t.Errorf("header fields lost: %+v", e)
	}
	if e.Parties[0].ListNumber != 1 {
		t.Fatalf("expected parties sorted by list number")
	}
	if got := e.Parties[0].Candidates[0]; got.LastName != "Einzelname" || got.FirstName != "" {
		t.Errorf("comma-less name: got %+v", got)
	}

	spd := e.Party(2)
	want := []Candidate{
		{ID: "mr-stvv-2-1", Position: 1, LastName: "Schulz", FirstName: "Peter Paul"},
		{ID: "mr-stvv-2-2", Position: 2, LastName: "Meier", FirstName: "Anna"},
	}
	if diff := cmp.Diff(want, spd.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	if spd.FullName != "SPD" || spd.ShortName != "SPD" || spd.CandidateCount != 2 {
		t.Errorf("unexpected party header: %+v", spd)
	}
}
