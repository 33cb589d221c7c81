package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveProgramLabel_Known(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"FDC":  "Family Day Care",
		"GFDC": "Group Family Day Care",
		"SACC": "School Age Child Care",
		"DCC":  "Day Care Center",
		"SDCC": "Small Day Care Center",
	}
	for code, label := range want {
		assert.Equal(t, label, ResolveProgramLabel(code), "code %q", code)
		assert.True(t, ProgramType(code).Known())
	}
}

func TestResolveProgramLabel_Unknown(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "dcc", "DC", "FDC ", "XYZ", "托儿所"} {
		assert.Equal(t, UnknownProgramLabel, ResolveProgramLabel(code), "code %q", code)
		assert.False(t, ProgramType(code).Known())
	}
}

func TestProgramTypes_AllLabelled(t *testing.T) {
	t.Parallel()

	types := ProgramTypes()
	assert.Len(t, types, 5)
	for _, p := range types {
		assert.NotEqual(t, UnknownProgramLabel, p.Label())
	}
}
