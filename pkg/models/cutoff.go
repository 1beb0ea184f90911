package models

import (
	"strings"
	"unicode"
)

// Phase is one counseling round within an admission year.
type Phase string

const (
	PhaseOne   Phase = "Phase 1"
	PhaseTwo   Phase = "Phase 2"
	PhaseFinal Phase = "Final Phase"
)

// Phases lists the known phases in counseling order.
var Phases = []Phase{PhaseOne, PhaseTwo, PhaseFinal}

// ParsePhase maps the spellings found in file names and client requests
// ("Phase1", "phase-2", "FinalPhase", "final") onto a Phase.
func ParsePhase(s string) (Phase, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	switch b.String() {
	case "phase1", "p1", "1":
		return PhaseOne, true
	case "phase2", "p2", "2":
		return PhaseTwo, true
	case "finalphase", "final", "phasefinal":
		return PhaseFinal, true
	}
	return "", false
}

// CanonicalRow is the file-independent form of one college/branch line
// from a cutoff source file.
//
// Every source generation is mapped into this structure first; the unified
// table and the query engine only ever see CanonicalRow.
type CanonicalRow struct {
	CollegeCode     string `json:"college_code"`
	CollegeName     string `json:"college_name"`
	Place           string `json:"place"`
	DistrictCode    string `json:"district_code"`
	CoEducation     string `json:"co_education"`
	CollegeType     string `json:"college_type"`
	YearEstablished string `json:"year_established"`
	BranchCode      string `json:"branch_code"`
	BranchName      string `json:"branch_name"`
	TuitionFee      string `json:"tuition_fee"`
	AffiliatedTo    string `json:"affiliated_to"`

	// Cutoffs is keyed by "<CATEGORY> <GENDER>", e.g. "BC_A GIRLS".
	// A missing key is a null cutoff (category not offered).
	Cutoffs map[string]float64 `json:"cutoffs"`

	// Extra holds source columns the rename mapping does not know about.
	Extra map[string]string `json:"extra,omitempty"`

	// Derived from the source file identity, zero when it could not be derived.
	AdmissionYear  int    `json:"admission_year"`
	AdmissionPhase Phase  `json:"admission_phase"`
	Source         string `json:"source"`
}

// Cutoff returns the closing rank stored under column, if any.
func (r CanonicalRow) Cutoff(column string) (float64, bool) {
	v, ok := r.Cutoffs[column]
	return v, ok
}

// LookupRequest is a validated prediction query.
type LookupRequest struct {
	Rank           float64
	Category       string
	Gender         string
	AdmissionYear  int
	AdmissionPhase Phase
}

// CutoffColumn is the unified-table column holding the closing ranks for
// the request's category and gender.
func (r LookupRequest) CutoffColumn() string {
	return CutoffColumn(r.Category, r.Gender)
}

// Prediction is one row of a lookup result.
type Prediction struct {
	CollegeCode    string  `json:"college_code"`
	CollegeName    string  `json:"college_name"`
	BranchName     string  `json:"branch_name"`
	ClosingRank    float64 `json:"closing_rank"`
	AdmissionYear  int     `json:"admission_year"`
	AdmissionPhase Phase   `json:"admission_phase"`
	Category       string  `json:"category"`
	Gender         string  `json:"gender"`
}
