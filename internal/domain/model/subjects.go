package model

import (
	"fmt"
	"strings"

	"evreg/internal/common"
)

// BaseSubject is the mandatory examination language.
const BaseSubject = "de"

// MaxSubjects caps the selection, base language included.
const MaxSubjects = 3

// subjectNames maps language codes to display names, in selection order.
var subjectNames = map[string]string{
	"de": "Deutsch",
	"en": "Englisch",
	"ru": "Russisch",
	"fr": "Französisch",
	"es": "Spanisch",
}

// subjectOrder fixes the order selections are stored and displayed in.
var subjectOrder = []string{"de", "en", "ru", "fr", "es"}

// SubjectFlags mirrors the per-language checkboxes of the enrollment form.
type SubjectFlags struct {
	De bool `json:"de"`
	En bool `json:"en"`
	Ru bool `json:"ru"`
	Fr bool `json:"fr"`
	Es bool `json:"es"`
}

// Selected derives the ordered subject selection from the flags.
func (f SubjectFlags) Selected() []string {
	flags := map[string]bool{"de": f.De, "en": f.En, "ru": f.Ru, "fr": f.Fr, "es": f.Es}
	var subjects []string
	for _, code := range subjectOrder {
		if flags[code] {
			subjects = append(subjects, code)
		}
	}
	return subjects
}

// ValidateSubjects enforces the selection rule: the base language is
// mandatory, at most three subjects in total, and at least one foreign
// language beyond the base one.
func ValidateSubjects(subjects []string) error {
	hasBase := false
	for _, code := range subjects {
		if _, known := subjectNames[code]; !known {
			return fmt.Errorf("unknown subject %q: %w", code, common.ErrValidation)
		}
		if code == BaseSubject {
			hasBase = true
		}
	}
	if !hasBase {
		return fmt.Errorf("an examination in Deutsch is mandatory: %w", common.ErrValidation)
	}
	if len(subjects) > MaxSubjects {
		return fmt.Errorf("at most %d subjects may be selected, base language included: %w", MaxSubjects, common.ErrValidation)
	}
	if len(subjects) < 2 {
		return fmt.Errorf("at least one foreign language is required: %w", common.ErrValidation)
	}
	return nil
}

// HumanizeSubjects renders a selection for display, e.g. "Deutsch, Englisch".
// Unknown codes are passed through untranslated.
func HumanizeSubjects(subjects []string) string {
	names := make([]string, 0, len(subjects))
	for _, code := range subjects {
		if name, ok := subjectNames[code]; ok {
			names = append(names, name)
		} else {
			names = append(names, code)
		}
	}
	return strings.Join(names, ", ")
}
