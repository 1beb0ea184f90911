package cutoff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rankcet/pkg/models"
	"rankcet/pkg/utils"
)

// ErrSourceDir is returned by LoadDir when the source directory is missing.
var ErrSourceDir = errors.New("cutoff source directory unavailable")

// SourceReport records what happened to one file during load.
type SourceReport struct {
	File       string       `json:"file"`
	Generation string       `json:"generation"`
	Year       int          `json:"year"`
	Phase      models.Phase `json:"phase"`
	Rows       int          `json:"rows"`
	Error      string       `json:"error,omitempty"`
}

type partitionKey struct {
	year  int
	phase models.Phase
}

// Table is the unified, read-only cutoff table. It is built once and never
// modified, so any number of goroutines may read it concurrently.
type Table struct {
	columns  []string
	colSet   map[string]struct{}
	rows     []models.CanonicalRow
	parts    map[partitionKey][]int
	sources  []SourceReport
	unplaced int
}

// Build concatenates frames in order. The column set is the union of all
// frame columns in first-seen order; a row lacking a column reads as null.
func Build(frames []*Frame) *Table {
	t := &Table{
		colSet: make(map[string]struct{}),
		parts:  make(map[partitionKey][]int),
	}
	for _, c := range FixedColumns {
		t.addColumn(c)
	}
	t.addColumn(ColYear)
	t.addColumn(ColPhase)

	for _, f := range frames {
		for _, c := range f.Columns {
			t.addColumn(c)
		}
		for _, row := range f.Rows {
			idx := len(t.rows)
			t.rows = append(t.rows, row)
			if row.AdmissionYear == 0 || row.AdmissionPhase == "" {
				t.unplaced++
				continue
			}
			k := partitionKey{year: row.AdmissionYear, phase: row.AdmissionPhase}
			t.parts[k] = append(t.parts[k], idx)
		}
	}
	return t
}

func (t *Table) addColumn(c string) {
	if _, ok := t.colSet[c]; ok {
		return
	}
	t.colSet[c] = struct{}{}
	t.columns = append(t.columns, c)
}

// LoadOptions controls LoadDir.
type LoadOptions struct {
	Registry *Registry
	Logger   *utils.Logger
}

// LoadDir normalizes every CSV file in dir and builds the unified table.
// A missing directory is an error; unreadable or malformed files are logged
// and skipped. A directory without usable files yields an empty table.
func LoadDir(dir string, opts LoadOptions) (*Table, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewTestLogger()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		frames  []*Frame
		reports []SourceReport
	)
	for _, name := range names {
		path := filepath.Join(dir, name)
		id := reg.Identify(path)
		rep := SourceReport{File: name, Generation: id.Generation.ID, Year: id.Year, Phase: id.Phase}

		frame, err := NormalizeFile(path, id)
		if err != nil {
			logger.Warn("[loader] skipping %s: %v", name, err)
			rep.Error = err.Error()
			reports = append(reports, rep)
			continue
		}
		if !id.Derived() {
			logger.Warn("[loader] %s: admission year/phase not derivable from file name (year=%d phase=%q)", name, id.Year, id.Phase)
		}
		rep.Rows = len(frame.Rows)
		reports = append(reports, rep)
		frames = append(frames, frame)
		logger.Info("[loader] loaded %s (%s, %d rows)", name, id.Generation.ID, len(frame.Rows))
	}

	t := Build(frames)
	t.sources = reports
	if t.Empty() {
		logger.Warn("[loader] no cutoff rows loaded from %s", dir)
	} else {
		logger.Info("[loader] unified table: %d rows, %d columns, %d files", t.Len(), len(t.columns), len(frames))
	}
	if t.unplaced > 0 {
		logger.Warn("[loader] %d rows have no admission year/phase and will never match a lookup", t.unplaced)
	}
	return t, nil
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether nothing was loaded. Callers must check this before
// serving lookups.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// Row returns row i. The returned value shares its maps with the table and
// must not be modified.
func (t *Table) Row(i int) models.CanonicalRow { return t.rows[i] }

// Columns returns a copy of the column union.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether any loaded file contributed column c.
func (t *Table) HasColumn(c string) bool {
	_, ok := t.colSet[c]
	return ok
}

// Partition returns the indices of rows for one admission year and phase,
// in table order. The slice must not be modified.
func (t *Table) Partition(year int, phase models.Phase) []int {
	return t.parts[partitionKey{year: year, phase: phase}]
}

// Sources returns the per-file load report.
func (t *Table) Sources() []SourceReport {
	out := make([]SourceReport, len(t.sources))
	copy(out, t.sources)
	return out
}

// Catalog summarizes what can be asked of the table.
type Catalog struct {
	Years      []int          `json:"years"`
	Phases     []models.Phase `json:"phases"`
	Categories []string       `json:"categories"`
	Genders    []string       `json:"genders"`
	Columns    []string       `json:"cutoff_columns"`
}

// Catalog lists the years, phases and cutoff columns present in the table.
func (t *Table) Catalog() Catalog {
	var c Catalog
	years := make(map[int]struct{})
	phases := make(map[models.Phase]struct{})
	for k := range t.parts {
		years[k.year] = struct{}{}
		phases[k.phase] = struct{}{}
	}
	for y := range years {
		c.Years = append(c.Years, y)
	}
	sort.Ints(c.Years)
	for _, p := range models.Phases {
		if _, ok := phases[p]; ok {
			c.Phases = append(c.Phases, p)
		}
	}

	cats := make(map[string]struct{})
	genders := make(map[string]struct{})
	for _, col := range t.columns {
		if !IsCutoffColumn(col) {
			continue
		}
		c.Columns = append(c.Columns, col)
		i := strings.LastIndexByte(col, ' ')
		if _, ok := cats[col[:i]]; !ok {
			cats[col[:i]] = struct{}{}
			c.Categories = append(c.Categories, col[:i])
		}
		if _, ok := genders[col[i+1:]]; !ok {
			genders[col[i+1:]] = struct{}{}
			c.Genders = append(c.Genders, col[i+1:])
		}
	}
	return c
}
