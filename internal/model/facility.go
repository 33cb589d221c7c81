package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// FacilityID is the dataset's opaque facility identifier. The upstream
// endpoint may serve it as a JSON number or a JSON string; both decode to
// the same textual form.
type FacilityID string

// UnmarshalJSON accepts a JSON string or number. Numbers keep their literal
// digits ("42", never "42.0").
func (id *FacilityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode facility id string")
		}
		*id = FacilityID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return eris.Wrapf(err, "model: facility id must be a string or number, got %s", string(data))
	}
	*id = FacilityID(n.String())
	return nil
}

// String returns the identifier as sent to the registration endpoint.
func (id FacilityID) String() string {
	return string(id)
}

// FacilityRecord is one row of the child-care facility dataset.
type FacilityRecord struct {
	ID          FacilityID  `json:"facility_id"`
	Name        string      `json:"facility_name"`
	ProgramType ProgramType `json:"program_type"`
}

// GroupDescriptor is the human-readable summary of one facility, logged for
// every record that passes through the pipeline.
type GroupDescriptor struct {
	ID           string
	FullName     string
	Slug         string
	ProgramLabel string
}

// IsZero reports whether the descriptor was produced from an absent record.
func (d GroupDescriptor) IsZero() bool {
	return d == GroupDescriptor{}
}

// String joins the descriptor parts with " - ". The zero descriptor renders
// as the empty string.
func (d GroupDescriptor) String() string {
	if d.IsZero() {
		return ""
	}
	return strings.Join([]string{d.ID, d.FullName, d.Slug, d.ProgramLabel}, " - ")
}

// Form field names expected by the group creation endpoint.
const (
	FormGroupName     = "group[name]"
	FormGroupFullName = "group[full_name]"
	FormGroupBioRaw   = "group[bio_raw]"
)

// SubmissionPayload is the body of one group creation request.
type SubmissionPayload struct {
	Name     string `yaml:"name" json:"name"`
	FullName string `yaml:"full_name" json:"full_name"`
	BioRaw   string `yaml:"bio_raw" json:"bio_raw"`
}

// FormData returns the payload keyed by the multipart field names.
func (p SubmissionPayload) FormData() map[string]string {
	return map[string]string{
		FormGroupName:     p.Name,
		FormGroupFullName: p.FullName,
		FormGroupBioRaw:   p.BioRaw,
	}
}
