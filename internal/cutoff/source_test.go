package cutoff

import (
	"testing"

	"rankcet/pkg/models"
)

func TestYearFromName(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"2024_Phase1", 2024, true},
		{"TSEAMCET2023FinalPhase", 2023, true},
		{"eamcet-2019-phase-2", 2019, true},
		{"cutoffs_20241", 0, false},
		{"Phase1", 0, false},
	}
	for _, tt := range tests {
		got, ok := YearFromName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("YearFromName(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPhaseFromName(t *testing.T) {
	tests := []struct {
		name string
		want models.Phase
		ok   bool
	}{
		{"2024_Phase1", models.PhaseOne, true},
		{"2024 Phase 2", models.PhaseTwo, true},
		{"2024_phase-2", models.PhaseTwo, true},
		{"2024_FinalPhase", models.PhaseFinal, true},
		{"2024_Final_Phase", models.PhaseFinal, true},
		{"2024_final", models.PhaseFinal, true},
		{"TSEAMCET2023FinalPhase", models.PhaseFinal, true},
		{"FINAL_cutoffs_2024_Phase1", models.PhaseOne, true},
		{"finalized_2024_Phase2", models.PhaseTwo, true},
		{"2024_Phase_Final", models.PhaseFinal, true},
		{"2024_finalized", "", false},
		{"2024_Phase12", "", false},
		{"2024_cutoffs", "", false},
	}
	for _, tt := range tests {
		got, ok := PhaseFromName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PhaseFromName(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIdentify(t *testing.T) {
	r := DefaultRegistry()
	if err := r.AddRule(SourceRule{Pattern: "legacy_*.csv", Generation: GenerationCollegeCode}); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRule(SourceRule{Pattern: "allotment.csv", Year: 2022, Phase: models.PhaseFinal}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		gen     string
		year    int
		phase   models.Phase
		derived bool
	}{
		{"data/2024_Phase1.csv", GenerationInstCode, 2024, models.PhaseOne, true},
		{"data/legacy_2021_Phase2.csv", GenerationCollegeCode, 2021, models.PhaseTwo, true},
		{"data/allotment.csv", GenerationInstCode, 2022, models.PhaseFinal, true},
		{"data/notes.csv", GenerationInstCode, 0, "", false},
		{"data/FINAL_cutoffs_2024_Phase1.csv", GenerationInstCode, 2024, models.PhaseOne, true},
		{"data/finalized_2024_Phase2.csv", GenerationInstCode, 2024, models.PhaseTwo, true},
	}
	for _, tt := range tests {
		id := r.Identify(tt.path)
		if id.Generation.ID != tt.gen || id.Year != tt.year || id.Phase != tt.phase || id.Derived() != tt.derived {
			t.Errorf("Identify(%q) = {%s %d %q derived=%v}; want {%s %d %q derived=%v}",
				tt.path, id.Generation.ID, id.Year, id.Phase, id.Derived(), tt.gen, tt.year, tt.phase, tt.derived)
		}
	}
}
