package cutoff

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"rankcet/pkg/models"
	"rankcet/pkg/utils"
)

// Canonical names of the fixed (non-cutoff) columns.
const (
	ColCollegeCode     = "College Code"
	ColCollegeName     = "College Name"
	ColPlace           = "Place"
	ColDistrictCode    = "District Code"
	ColCoEducation     = "Co Education"
	ColCollegeType     = "College Type"
	ColYearEstablished = "Year of Establishment"
	ColBranchCode      = "Branch Code"
	ColBranchName      = "Branch Name"
	ColTuitionFee      = "Tuition Fee"
	ColAffiliatedTo    = "Affiliated To"
	ColYear            = "Year"
	ColPhase           = "Phase"
)

// FixedColumns is the canonical column order of the non-cutoff columns.
var FixedColumns = []string{
	ColCollegeCode, ColCollegeName, ColPlace, ColDistrictCode, ColCoEducation,
	ColCollegeType, ColYearEstablished, ColBranchCode, ColBranchName,
	ColTuitionFee, ColAffiliatedTo,
}

// Generation describes one family of source files that share a header
// layout. Adding a new admission cycle with a different layout means
// registering a new Generation, not touching the query code.
type Generation struct {
	ID         string            `json:"id"`
	BannerRows int               `json:"banner_rows"`
	Encoding   string            `json:"encoding,omitempty"`  // utf-8 (default), latin1, cp1252
	Delimiter  string            `json:"delimiter,omitempty"` // single character, default ","
	Renames    map[string]string `json:"renames"`

	lookup map[string]string
}

// compile builds the normalized header lookup. Header text is matched by
// HeaderKey so that "Inst\nCode", "INST  CODE" and "Inst-Code" all hit the
// same entry.
func (g *Generation) compile() error {
	if g.ID == "" {
		return fmt.Errorf("generation id required")
	}
	if g.BannerRows < 0 {
		return fmt.Errorf("generation %s: negative banner_rows", g.ID)
	}
	if _, err := g.delimiter(); err != nil {
		return fmt.Errorf("generation %s: %w", g.ID, err)
	}
	if _, err := decoderFor(g.Encoding); err != nil {
		return fmt.Errorf("generation %s: %w", g.ID, err)
	}
	g.lookup = make(map[string]string, len(g.Renames))
	for from, to := range g.Renames {
		g.lookup[HeaderKey(from)] = to
	}
	return nil
}

func (g *Generation) delimiter() (rune, error) {
	switch d := []rune(g.Delimiter); len(d) {
	case 0:
		return ',', nil
	case 1:
		return d[0], nil
	default:
		return 0, fmt.Errorf("delimiter must be a single character, got %q", g.Delimiter)
	}
}

// Canonical returns the canonical column name for a raw header. Headers the
// mapping does not know keep their whitespace-collapsed text.
func (g *Generation) Canonical(header string) string {
	if to, ok := g.lookup[HeaderKey(header)]; ok {
		return to
	}
	return collapseSpace(header)
}

// HeaderKey is the matching key for header text: NFKC-normalized,
// upper-cased, with line breaks, hyphens, underscores and dots treated as
// spaces and runs of whitespace collapsed.
func HeaderKey(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\ufeff':
			continue
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(' ')
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// baseRenames covers the fixed columns, common to every generation.
func baseRenames() map[string]string {
	m := map[string]string{
		"College Name":          ColCollegeName,
		"Name of the College":   ColCollegeName,
		"Institute Name":        ColCollegeName,
		"Inst Name":             ColCollegeName,
		"Place":                 ColPlace,
		"Dist Code":             ColDistrictCode,
		"District Code":         ColDistrictCode,
		"Dist":                  ColDistrictCode,
		"Co Education":          ColCoEducation,
		"COED":                  ColCoEducation,
		"College Type":          ColCollegeType,
		"Type":                  ColCollegeType,
		"Year of Establishment": ColYearEstablished,
		"Year of Estab":         ColYearEstablished,
		"Estd":                  ColYearEstablished,
		"Branch Code":           ColBranchCode,
		"Branch Name":           ColBranchName,
		"Branch":                ColBranchName,
		"Tuition Fee":           ColTuitionFee,
		"Tution Fee":            ColTuitionFee,
		"Fee":                   ColTuitionFee,
		"Affiliated To":         ColAffiliatedTo,
		"Affiliated":            ColAffiliatedTo,
		"University":            ColAffiliatedTo,
		"Year":                  ColYear,
		"Phase":                 ColPhase,
	}
	for from, to := range cutoffRenames() {
		m[from] = to
	}
	return m
}

// cutoffRenames expands category × gender spellings into the canonical
// "<CATEGORY> <GENDER>" column names. "BC-A Boys", "BC_A BOYS" and
// "BCA Boys" all resolve to "BC_A BOYS".
func cutoffRenames() map[string]string {
	genders := map[string][]string{
		"BOYS":  {"Boys", "Male"},
		"GIRLS": {"Girls", "Female"},
	}
	m := make(map[string]string)
	for _, cat := range models.Categories {
		spellings := []string{cat}
		if strings.HasPrefix(cat, "BC_") {
			spellings = append(spellings, strings.ReplaceAll(cat, "_", ""))
		}
		for g, aliases := range genders {
			to := models.CutoffColumn(cat, g)
			for _, sp := range spellings {
				for _, alias := range aliases {
					m[sp+" "+alias] = to
				}
			}
		}
	}
	return m
}

// Built-in generation ids.
const (
	GenerationInstCode    = "inst-code-2024"
	GenerationCollegeCode = "college-code"
)

// DefaultRegistry returns the two built-in generations. inst-code-2024 is
// the default: one banner row above the header, identifier "Inst Code" or
// "College Code". college-code covers plain exports whose header is the
// first line and whose identifier may read just "Code"; files reach it only
// through a source rule or RANKCET_GENERATION.
func DefaultRegistry() *Registry {
	inst := baseRenames()
	inst["Inst Code"] = ColCollegeCode
	inst["Institute Code"] = ColCollegeCode
	inst["College Code"] = ColCollegeCode

	college := baseRenames()
	college["College Code"] = ColCollegeCode
	college["Code"] = ColCollegeCode

	r := NewRegistry()
	// the built-ins always compile
	_ = r.Register(Generation{ID: GenerationInstCode, BannerRows: 1, Renames: inst})
	_ = r.Register(Generation{ID: GenerationCollegeCode, BannerRows: 0, Renames: college})
	r.defaultID = GenerationInstCode
	return r
}

// Registry holds the known generations keyed by id.
type Registry struct {
	generations map[string]*Generation
	defaultID   string
	rules       []SourceRule
}

func NewRegistry() *Registry {
	return &Registry{generations: make(map[string]*Generation)}
}

// Register adds or replaces a generation. The first registered generation
// becomes the default until SetDefault is called.
func (r *Registry) Register(g Generation) error {
	if err := g.compile(); err != nil {
		return err
	}
	r.generations[g.ID] = &g
	if r.defaultID == "" {
		r.defaultID = g.ID
	}
	return nil
}

// SetDefault selects the generation used for files no rule matches.
func (r *Registry) SetDefault(id string) error {
	if _, ok := r.generations[id]; !ok {
		return fmt.Errorf("unknown generation %q", id)
	}
	r.defaultID = id
	return nil
}

// AddRule appends an explicit file association. Rules are tried in order.
func (r *Registry) AddRule(rule SourceRule) error {
	if rule.Pattern == "" {
		return fmt.Errorf("source rule pattern required")
	}
	if rule.Generation != "" {
		if _, ok := r.generations[rule.Generation]; !ok {
			return fmt.Errorf("source rule %q: unknown generation %q", rule.Pattern, rule.Generation)
		}
	}
	if rule.Phase != "" {
		p, ok := models.ParsePhase(string(rule.Phase))
		if !ok {
			return fmt.Errorf("source rule %q: unknown phase %q", rule.Pattern, rule.Phase)
		}
		rule.Phase = p
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Default returns the default generation.
func (r *Registry) Default() *Generation {
	return r.generations[r.defaultID]
}

// IDs lists registered generation ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.generations))
	for id := range r.generations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// registryFile is the on-disk shape read by LoadRegistryFile.
type registryFile struct {
	Default     string       `json:"default"`
	Generations []Generation `json:"generations"`
	Sources     []SourceRule `json:"sources"`
}

// LoadRegistryFile extends r with the generations and source rules found in
// a JSON file. Renames listed in the file are merged over the built-in
// fixed-column and cutoff spellings, so a generation only lists the headers
// that differ.
func (r *Registry) LoadRegistryFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}
	var f registryFile
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse schema file %s: %w", path, err)
	}
	for _, g := range f.Generations {
		merged := baseRenames()
		for from, to := range g.Renames {
			merged[from] = to
		}
		g.Renames = merged
		if err := r.Register(g); err != nil {
			return fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	for _, rule := range f.Sources {
		if err := r.AddRule(rule); err != nil {
			return fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	if f.Default != "" {
		if err := r.SetDefault(f.Default); err != nil {
			return fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	return nil
}

// RegistryFromConfig starts from DefaultRegistry, applies the optional
// schema file and selects the configured default generation.
func RegistryFromConfig(cfg utils.Config) (*Registry, error) {
	r := DefaultRegistry()
	if cfg.SchemaFile != "" {
		if err := r.LoadRegistryFile(cfg.SchemaFile); err != nil {
			return nil, err
		}
	}
	if cfg.Generation != "" {
		if err := r.SetDefault(cfg.Generation); err != nil {
			return nil, err
		}
	}
	return r, nil
}
