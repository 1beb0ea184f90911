package models

import "testing"

func TestCanonicalCategory(t *testing.T) {
	tests := map[string]string{
		"OC":    "OC",
		"oc":    "OC",
		"BC-A":  "BC_A",
		"bc_b":  "BC_B",
		"BC C":  "BC_C",
		"BCD":   "BC_D",
		" ews ": "EWS",
		"nri":   "NRI",
	}
	for in, want := range tests {
		if got := CanonicalCategory(in); got != want {
			t.Errorf("CanonicalCategory(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCanonicalGender(t *testing.T) {
	tests := map[string]string{
		"BOYS":   "BOYS",
		"Male":   "BOYS",
		"m":      "BOYS",
		"Girls":  "GIRLS",
		"female": "GIRLS",
		"other":  "OTHER",
	}
	for in, want := range tests {
		if got := CanonicalGender(in); got != want {
			t.Errorf("CanonicalGender(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in   string
		want Phase
		ok   bool
	}{
		{"Phase 1", PhaseOne, true},
		{"phase-2", PhaseTwo, true},
		{"P2", PhaseTwo, true},
		{"Final Phase", PhaseFinal, true},
		{"FINAL", PhaseFinal, true},
		{"Phase 3", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePhase(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePhase(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLookupRequestCutoffColumn(t *testing.T) {
	req := LookupRequest{Category: "BC_E", Gender: "GIRLS"}
	if got := req.CutoffColumn(); got != "BC_E GIRLS" {
		t.Errorf("CutoffColumn() = %q", got)
	}
}
