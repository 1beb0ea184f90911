package cutoff

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"rankcet/pkg/models"
)

var ErrNoHeader = errors.New("source has no header row")

// Frame is the normalized content of one source file.
type Frame struct {
	Identity Identity
	Columns  []string // canonical columns, header order, fixed columns always present
	Rows     []models.CanonicalRow
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "utf8":
		return xunicode.UTF8BOM, nil
	case "latin1", "iso88591":
		return charmap.ISO8859_1, nil
	case "cp1252", "windows1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// NormalizeFile reads one source file according to its identity.
func NormalizeFile(path string, id Identity) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Normalize(f, id)
}

// Normalize reads tabular content, drops the generation's banner rows,
// renames the header through the generation's mapping and converts every
// record into a CanonicalRow.
func Normalize(src io.Reader, id Identity) (*Frame, error) {
	gen := id.Generation
	if gen == nil {
		return nil, fmt.Errorf("%s: no generation", id.Name)
	}
	enc, err := decoderFor(gen.Encoding)
	if err != nil {
		return nil, err
	}
	delim, err := gen.delimiter()
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(transform.NewReader(src, enc.NewDecoder()))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for i := 0; i < gen.BannerRows; i++ {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, fmt.Errorf("skip banner row %d: %w", i+1, err)
		}
	}

	rawHeader, err := r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = gen.Canonical(h)
	}

	frame := &Frame{Identity: id, Columns: frameColumns(header)}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blank(record) {
			continue
		}
		frame.Rows = append(frame.Rows, buildRow(header, record, id))
	}
	return frame, nil
}

// frameColumns puts the fixed columns first (so a missing identifier
// column still exists, as an empty string) followed by every other
// canonical header in file order.
func frameColumns(header []string) []string {
	seen := make(map[string]struct{}, len(header)+len(FixedColumns))
	cols := make([]string, 0, len(header)+len(FixedColumns))
	for _, c := range FixedColumns {
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	for _, c := range header {
		if c == "" || c == ColYear || c == ColPhase {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	return cols
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func buildRow(header, record []string, id Identity) models.CanonicalRow {
	row := models.CanonicalRow{
		Cutoffs:        make(map[string]float64),
		AdmissionYear:  id.Year,
		AdmissionPhase: id.Phase,
		Source:         id.Name,
	}
	var rowYear, rowPhase string

	for i, col := range header {
		if i >= len(record) || col == "" {
			continue
		}
		val := strings.TrimSpace(record[i])

		switch col {
		case ColCollegeCode:
			setOnce(&row.CollegeCode, NormalizeCode(val))
		case ColCollegeName:
			setOnce(&row.CollegeName, val)
		case ColPlace:
			setOnce(&row.Place, val)
		case ColDistrictCode:
			setOnce(&row.DistrictCode, val)
		case ColCoEducation:
			setOnce(&row.CoEducation, val)
		case ColCollegeType:
			setOnce(&row.CollegeType, val)
		case ColYearEstablished:
			setOnce(&row.YearEstablished, NormalizeCode(val))
		case ColBranchCode:
			setOnce(&row.BranchCode, val)
		case ColBranchName:
			setOnce(&row.BranchName, val)
		case ColTuitionFee:
			setOnce(&row.TuitionFee, val)
		case ColAffiliatedTo:
			setOnce(&row.AffiliatedTo, val)
		case ColYear:
			rowYear = val
		case ColPhase:
			rowPhase = val
		default:
			if IsCutoffColumn(col) {
				if _, dup := row.Cutoffs[col]; dup {
					continue
				}
				if rank, ok := ParseRank(val); ok {
					row.Cutoffs[col] = rank
				}
				continue
			}
			if val == "" {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			if _, dup := row.Extra[col]; !dup {
				row.Extra[col] = val
			}
		}
	}

	// Year/Phase columns inside the file only fill in what the file
	// identity could not provide.
	if row.AdmissionYear == 0 {
		if y, err := strconv.Atoi(NormalizeCode(rowYear)); err == nil && y > 0 {
			row.AdmissionYear = y
		}
	}
	if row.AdmissionPhase == "" {
		if p, ok := models.ParsePhase(rowPhase); ok {
			row.AdmissionPhase = p
		}
	}
	return row
}

func setOnce(dst *string, val string) {
	if *dst == "" {
		*dst = val
	}
}

// IsCutoffColumn reports whether a canonical column name follows the
// "<CATEGORY> <GENDER>" convention.
func IsCutoffColumn(col string) bool {
	i := strings.LastIndexByte(col, ' ')
	if i <= 0 {
		return false
	}
	switch col[i+1:] {
	case "BOYS", "GIRLS":
		return true
	}
	return false
}

var integralFloat = regexp.MustCompile(`^([0-9]+)\.0+$`)

// NormalizeCode keeps identifiers textual. Spreadsheet exports sometimes
// turn a code like 1234 into "1234.0"; that trailing fraction is dropped.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if m := integralFloat.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ParseRank converts a cutoff cell into a number. Blank cells, "NA", "-"
// and anything else non-numeric are reported as missing.
func ParseRank(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
