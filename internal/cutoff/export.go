package cutoff

import (
	"encoding/csv"
	"io"
	"strconv"

	"rankcet/pkg/models"
)

// Value reads column col of row r as text. ok is false when the row has no
// value for the column (null).
func Value(r models.CanonicalRow, col string) (string, bool) {
	switch col {
	case ColCollegeCode:
		return r.CollegeCode, true
	case ColCollegeName:
		return r.CollegeName, true
	case ColPlace:
		return r.Place, true
	case ColDistrictCode:
		return r.DistrictCode, true
	case ColCoEducation:
		return r.CoEducation, true
	case ColCollegeType:
		return r.CollegeType, true
	case ColYearEstablished:
		return r.YearEstablished, true
	case ColBranchCode:
		return r.BranchCode, true
	case ColBranchName:
		return r.BranchName, true
	case ColTuitionFee:
		return r.TuitionFee, true
	case ColAffiliatedTo:
		return r.AffiliatedTo, true
	case ColYear:
		if r.AdmissionYear == 0 {
			return "", false
		}
		return strconv.Itoa(r.AdmissionYear), true
	case ColPhase:
		return string(r.AdmissionPhase), r.AdmissionPhase != ""
	}
	if v, ok := r.Cutoffs[col]; ok {
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	v, ok := r.Extra[col]
	return v, ok
}

// WriteCSV writes the table with its canonical header. Nulls are written as
// empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for j, col := range cols {
			record[j], _ = Value(row, col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
