package models

import "strings"

// Categories are the reservation classes that have a cutoff column family.
var Categories = []string{"OC", "BC_A", "BC_B", "BC_C", "BC_D", "BC_E", "SC", "ST", "EWS"}

// Genders are the second half of a cutoff column name.
var Genders = []string{"BOYS", "GIRLS"}

var genderAliases = map[string]string{
	"BOYS":   "BOYS",
	"BOY":    "BOYS",
	"MALE":   "BOYS",
	"M":      "BOYS",
	"GIRLS":  "GIRLS",
	"GIRL":   "GIRLS",
	"FEMALE": "GIRLS",
	"F":      "GIRLS",
}

// CanonicalCategory upper-cases s and folds "BC-A", "BC A" and "BCA" into
// "BC_A". Unknown categories are returned upper-cased so that they simply
// fail to resolve to a column later on.
func CanonicalCategory(s string) string {
	key := strings.ToUpper(strings.TrimSpace(s))
	squashed := strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	for _, c := range Categories {
		if squashed == strings.ReplaceAll(c, "_", "") {
			return c
		}
	}
	return key
}

// CanonicalGender maps "Male"/"Female" and friends onto BOYS/GIRLS.
func CanonicalGender(s string) string {
	key := strings.ToUpper(strings.TrimSpace(s))
	if g, ok := genderAliases[key]; ok {
		return g
	}
	return key
}

// CutoffColumn joins category and gender with a single space, which is the
// naming convention of every cutoff column in the unified table.
func CutoffColumn(category, gender string) string {
	return category + " " + gender
}
