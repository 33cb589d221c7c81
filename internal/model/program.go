package model

// ProgramType is the short program code carried by each facility record.
type ProgramType string

// Known program codes.
const (
	ProgramFamilyDayCare      ProgramType = "FDC"
	ProgramGroupFamilyDayCare ProgramType = "GFDC"
	ProgramSchoolAgeChildCare ProgramType = "SACC"
	ProgramDayCareCenter      ProgramType = "DCC"
	ProgramSmallDayCareCenter ProgramType = "SDCC"
)

// UnknownProgramLabel is returned for any code outside the known set.
const UnknownProgramLabel = "N/A"

var programLabels = map[ProgramType]string{
	ProgramFamilyDayCare:      "Family Day Care",
	ProgramGroupFamilyDayCare: "Group Family Day Care",
	ProgramSchoolAgeChildCare: "School Age Child Care",
	ProgramDayCareCenter:      "Day Care Center",
	ProgramSmallDayCareCenter: "Small Day Care Center",
}

// Label returns the human-readable program name, or UnknownProgramLabel.
func (p ProgramType) Label() string {
	if label, ok := programLabels[p]; ok {
		return label
	}
	return UnknownProgramLabel
}

// Known reports whether p is one of the enumerated program codes.
func (p ProgramType) Known() bool {
	_, ok := programLabels[p]
	return ok
}

// ResolveProgramLabel maps a raw code to its label. Codes are matched
// exactly; lookups never fail.
func ResolveProgramLabel(code string) string {
	return ProgramType(code).Label()
}

// ProgramTypes returns the enumerated codes in a stable order.
func ProgramTypes() []ProgramType {
	return []ProgramType{
		ProgramFamilyDayCare,
		ProgramGroupFamilyDayCare,
		ProgramSchoolAgeChildCare,
		ProgramDayCareCenter,
		ProgramSmallDayCareCenter,
	}
}
