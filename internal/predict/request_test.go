package predict

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"rankcet/pkg/models"
)

func wire(t *testing.T, body string) WireRequest {
	t.Helper()
	var w WireRequest
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	return w
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.LookupRequest
	}{
		{
			"numbers",
			`{"rank": 1500, "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`,
			models.LookupRequest{Rank: 1500, Category: "OC", Gender: "BOYS", AdmissionYear: 2024, AdmissionPhase: models.PhaseOne},
		},
		{
			"strings and aliases",
			`{"rank": "1500", "category": "bc-a", "gender": "Female", "year_preference": "2023", "phase_preference": "phase2"}`,
			models.LookupRequest{Rank: 1500, Category: "BC_A", Gender: "GIRLS", AdmissionYear: 2023, AdmissionPhase: models.PhaseTwo},
		},
		{
			"final phase spelling",
			`{"rank": 9.5, "category": "EWS", "gender": "male", "year_preference": 2022.0, "phase_preference": "FinalPhase"}`,
			models.LookupRequest{Rank: 9.5, Category: "EWS", Gender: "BOYS", AdmissionYear: 2022, AdmissionPhase: models.PhaseFinal},
		},
		{
			"unknown phase passes through",
			`{"rank": 1, "category": "OC", "gender": "GIRLS", "year_preference": 2024, "phase_preference": " Spot Round "}`,
			models.LookupRequest{Rank: 1, Category: "OC", Gender: "GIRLS", AdmissionYear: 2024, AdmissionPhase: "Spot Round"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(wire(t, tt.body))
			if err != nil {
				t.Fatalf("ParseRequest: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRequestMissing(t *testing.T) {
	tests := []struct {
		body    string
		missing string
	}{
		{`{}`, "rank, category, gender, year_preference, phase_preference"},
		{`{"rank": 10, "category": "OC", "gender": "BOYS", "year_preference": 2024}`, "phase_preference"},
		{`{"rank": null, "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, "rank"},
		{`{"rank": 10, "category": "  ", "gender": "BOYS", "year_preference": "", "phase_preference": "Phase 1"}`, "category, year_preference"},
	}
	for _, tt := range tests {
		_, err := ParseRequest(wire(t, tt.body))
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("%s: err = %v; want ErrMissingField", tt.body, err)
			continue
		}
		re, _ := AsRequestError(err)
		if re.Status != 400 || re.Code != CodeMissingField {
			t.Errorf("%s: status/code = %d %s", tt.body, re.Status, re.Code)
		}
		if !strings.HasPrefix(re.Message, "Missing data.") || !strings.Contains(re.Message, "(missing: "+tt.missing+")") {
			t.Errorf("%s: message = %q", tt.body, re.Message)
		}
	}
}

func TestParseRequestMalformed(t *testing.T) {
	tests := []struct {
		body string
		kind error
	}{
		{`{"rank": "abc", "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, ErrMalformedRank},
		{`{"rank": 0, "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, ErrMalformedRank},
		{`{"rank": -5, "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, ErrMalformedRank},
		{`{"rank": true, "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, ErrMalformedRank},
		{`{"rank": "NaN", "category": "OC", "gender": "BOYS", "year_preference": 2024, "phase_preference": "Phase 1"}`, ErrMalformedRank},
		{`{"rank": 10, "category": "OC", "gender": "BOYS", "year_preference": "twenty", "phase_preference": "Phase 1"}`, ErrMalformedYear},
		{`{"rank": 10, "category": "OC", "gender": "BOYS", "year_preference": 2024.5, "phase_preference": "Phase 1"}`, ErrMalformedYear},
		{`{"rank": 10, "category": "OC", "gender": "BOYS", "year_preference": -2024, "phase_preference": "Phase 1"}`, ErrMalformedYear},
		{`{"rank": 10, "category": "OC", "gender": "BOYS", "year_preference": [2024], "phase_preference": "Phase 1"}`, ErrMalformedYear},
	}
	for _, tt := range tests {
		_, err := ParseRequest(wire(t, tt.body))
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: err = %v; want %v", tt.body, err, tt.kind)
		}
	}
}
