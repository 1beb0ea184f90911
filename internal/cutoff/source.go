package cutoff

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"rankcet/pkg/models"
)

// SourceRule associates source files with a generation and, for files whose
// name carries no usable year/phase tokens, an explicit year and phase.
// Pattern is a filepath.Match glob applied to the base file name.
type SourceRule struct {
	Pattern    string       `json:"pattern"`
	Generation string       `json:"generation,omitempty"`
	Year       int          `json:"year,omitempty"`
	Phase      models.Phase `json:"phase,omitempty"`
}

// Identity is what the loader knows about a file before reading it.
type Identity struct {
	Name       string
	Generation *Generation
	Year       int
	Phase      models.Phase
}

// Derived reports whether both year and phase are known.
func (id Identity) Derived() bool {
	return id.Year > 0 && id.Phase != ""
}

var (
	yearToken     = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)[0-9]{2})(?:[^0-9]|$)`)
	numberedPhase = regexp.MustCompile(`(?i)phase[\s_-]*([12])(?:[^0-9]|$)`)
	finalPhase    = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])(final[\s_-]*phase|phase[\s_-]*final|final)(?:[^A-Za-z]|$)`)
)

// YearFromName extracts the first standalone 4-digit 19xx/20xx token.
func YearFromName(name string) (int, bool) {
	m := yearToken.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

// PhaseFromName extracts "Phase1" / "Phase 2" / "FinalPhase" style tokens.
// Numbered phases are looked for first; "final" only counts as a whole
// word, so "finalized_2024_Phase2" is Phase 2.
func PhaseFromName(name string) (models.Phase, bool) {
	if m := numberedPhase.FindStringSubmatch(name); m != nil {
		return models.ParsePhase("phase" + m[1])
	}
	if m := finalPhase.FindStringSubmatch(name); m != nil {
		return models.ParsePhase(m[1])
	}
	return "", false
}

// Identify resolves the generation, year and phase of a file. An explicit
// rule wins over tokens found in the file name; a rule that sets only some
// of the fields leaves the rest to the file name.
func (r *Registry) Identify(path string) Identity {
	name := filepath.Base(path)
	id := Identity{Name: name, Generation: r.Default()}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if y, ok := YearFromName(stem); ok {
		id.Year = y
	}
	if p, ok := PhaseFromName(stem); ok {
		id.Phase = p
	}

	for _, rule := range r.rules {
		matched, err := filepath.Match(rule.Pattern, name)
		if err != nil || !matched {
			continue
		}
		if g, ok := r.generations[rule.Generation]; ok {
			id.Generation = g
		}
		if rule.Year > 0 {
			id.Year = rule.Year
		}
		if rule.Phase != "" {
			id.Phase = rule.Phase
		}
		break
	}
	return id
}
