// Package transform maps facility records into group descriptors and
// registration payloads.
package transform

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/childcare-sync/internal/model"
)

var (
	// Anything that is not a letter, number, or space in any script.
	nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}\s\p{Z}]+`)
	spaceRuns    = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Urlify turns free text into a dash-joined slug. Punctuation must be
// removed before whitespace runs collapse into a single dash. Leading or
// trailing whitespace becomes a leading or trailing dash.
func Urlify(text string) string {
	stripped := nonSlugChars.ReplaceAllString(text, "")
	return spaceRuns.ReplaceAllString(stripped, "-")
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, using English word-breaking rules.
func TitleCase(text string) string {
	return cases.Title(language.English).String(text)
}

// Transform derives the descriptor and payload for one record. A nil record
// yields zero values without touching any field.
func Transform(rec *model.FacilityRecord) (model.GroupDescriptor, model.SubmissionPayload) {
	if rec == nil {
		return model.GroupDescriptor{}, model.SubmissionPayload{}
	}

	id := rec.ID.String()
	fullName := TitleCase(rec.Name)
	label := rec.ProgramType.Label()

	desc := model.GroupDescriptor{
		ID:           id,
		FullName:     fullName,
		Slug:         Urlify(fullName),
		ProgramLabel: label,
	}
	payload := model.SubmissionPayload{
		Name:     id,
		FullName: fullName,
		BioRaw:   label,
	}
	return desc, payload
}
