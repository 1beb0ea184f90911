package predict

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"rankcet/pkg/models"
)

// WireRequest is the JSON body of POST /predict. Rank and year are kept raw
// so that "1500" and 1500 are both accepted and anything else can be
// reported precisely.
type WireRequest struct {
	Rank            json.RawMessage `json:"rank"`
	Category        string          `json:"category"`
	Gender          string          `json:"gender"`
	YearPreference  json.RawMessage `json:"year_preference"`
	PhasePreference string          `json:"phase_preference"`
}

// ParseRequest validates a wire request and canonicalizes client spellings
// of category, gender and phase.
func ParseRequest(w WireRequest) (models.LookupRequest, error) {
	var missing []string
	if absent(w.Rank) {
		missing = append(missing, "rank")
	}
	if strings.TrimSpace(w.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(w.Gender) == "" {
		missing = append(missing, "gender")
	}
	if absent(w.YearPreference) {
		missing = append(missing, "year_preference")
	}
	if strings.TrimSpace(w.PhasePreference) == "" {
		missing = append(missing, "phase_preference")
	}
	if len(missing) > 0 {
		return models.LookupRequest{}, newRequestError(ErrMissingField,
			"Missing data. Please provide rank, category, gender, year, and phase (missing: %s).",
			strings.Join(missing, ", "))
	}

	rank, ok := number(w.Rank)
	if !ok || rank <= 0 {
		return models.LookupRequest{}, newRequestError(ErrMalformedRank,
			"rank must be a positive number, got %s", string(w.Rank))
	}

	year, ok := number(w.YearPreference)
	if !ok || year <= 0 || year != math.Trunc(year) || year > math.MaxInt32 {
		return models.LookupRequest{}, newRequestError(ErrMalformedYear,
			"year_preference must be a whole year such as 2024, got %s", string(w.YearPreference))
	}

	phase, ok := models.ParsePhase(w.PhasePreference)
	if !ok {
		// An unknown phase is not an input error: it simply has no rows.
		phase = models.Phase(strings.TrimSpace(w.PhasePreference))
	}

	return models.LookupRequest{
		Rank:           rank,
		Category:       models.CanonicalCategory(w.Category),
		Gender:         models.CanonicalGender(w.Gender),
		AdmissionYear:  int(year),
		AdmissionPhase: phase,
	}, nil
}

func absent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`))
}

// number accepts a JSON number or a string holding one.
func number(raw json.RawMessage) (float64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v, err := n.Float64()
		return v, err == nil && !math.IsInf(v, 0) && !math.IsNaN(v)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
