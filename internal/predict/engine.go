package predict

import (
	"sort"

	"rankcet/internal/cutoff"
	"rankcet/pkg/models"
)

// Engine answers lookups against one unified table. It holds no mutable
// state, so a single Engine serves concurrent requests.
type Engine struct {
	table *cutoff.Table
}

func NewEngine(table *cutoff.Table) *Engine {
	return &Engine{table: table}
}

// Table exposes the table the engine was built on.
func (e *Engine) Table() *cutoff.Table {
	return e.table
}

type candidate struct {
	row  int
	rank float64
}

// Lookup returns the college/branch rows of the requested year and phase
// whose closing rank for the requested category and gender is at or above
// req.Rank, most competitive cutoff first.
//
// Closing ranks grow as admission gets easier, so a row qualifies when
// cutoff >= rank. An empty result is a successful answer.
func (e *Engine) Lookup(req models.LookupRequest) ([]models.Prediction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if e.table == nil || e.table.Empty() {
		return nil, newRequestError(ErrNoData, "no cutoff data is loaded; try again later")
	}

	column := req.CutoffColumn()
	if !e.table.HasColumn(column) {
		return nil, newRequestError(ErrUnknownCombination,
			"no data for category %q and gender %q in %d %s", req.Category, req.Gender, req.AdmissionYear, req.AdmissionPhase)
	}

	part := e.table.Partition(req.AdmissionYear, req.AdmissionPhase)
	matches := make([]candidate, 0, len(part))
	for _, idx := range part {
		rank, ok := e.table.Row(idx).Cutoff(column)
		if !ok {
			continue
		}
		if rank >= req.Rank {
			matches = append(matches, candidate{row: idx, rank: rank})
		}
	}

	// Stable so that equal cutoffs keep table order, which keeps repeated
	// lookups byte-for-byte identical.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	out := make([]models.Prediction, 0, len(matches))
	for _, m := range matches {
		row := e.table.Row(m.row)
		out = append(out, models.Prediction{
			CollegeCode:    row.CollegeCode,
			CollegeName:    row.CollegeName,
			BranchName:     row.BranchName,
			ClosingRank:    m.rank,
			AdmissionYear:  req.AdmissionYear,
			AdmissionPhase: req.AdmissionPhase,
			Category:       req.Category,
			Gender:         req.Gender,
		})
	}
	return out, nil
}

func validate(req models.LookupRequest) error {
	var missing []string
	if req.Rank == 0 {
		missing = append(missing, "rank")
	}
	if req.Category == "" {
		missing = append(missing, "category")
	}
	if req.Gender == "" {
		missing = append(missing, "gender")
	}
	if req.AdmissionYear == 0 {
		missing = append(missing, "year_preference")
	}
	if req.AdmissionPhase == "" {
		missing = append(missing, "phase_preference")
	}
	if len(missing) > 0 {
		return newRequestError(ErrMissingField, "missing %v", missing)
	}
	if req.Rank < 0 {
		return newRequestError(ErrMalformedRank, "rank must be a positive number, got %v", req.Rank)
	}
	return nil
}
