package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "SAFDARJUNG  HOSPITAL ", "SAFDARJUNG HOSPITAL"},
		{"newline becomes space", "MAMC\nNEW DELHI", "MAMC NEW DELHI"},
		{"crlf becomes space", "MAMC\r\nNEW DELHI", "MAMC NEW DELHI"},
		{"repeated commas with space before", "MAULANA AZAD MEDICAL COLLEGE ,,\nNEW  DELHI", "MAULANA AZAD MEDICAL COLLEGE, NEW DELHI"},
		{"comma run with spaces", "A , , ,B", "A, B"},
		{"space after comma", "A,B", "A, B"},
		{"tabs and nbsp", "A\t B", "A B"},
		{"fullwidth folded", "ＡＩＩＭＳ", "AIIMS"},
		{"trims ends", "  x  ", "x"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.in))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"MAULANA AZAD MEDICAL COLLEGE ,,\nNEW  DELHI",
		" a ,b,, c ,\t,d ",
		"x,",
		",x",
		"ＭＤ　ＲＡＤＩＯＬＯＧＹ",
		"GOVT. MEDICAL COLLEGE,  KOTA (RAJ.)",
	}
	for _, in := range inputs {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once), "input %q", in)
	}
}

func TestCleanValue_AbsentBecomesEmpty(t *testing.T) {
	assert.Equal(t, "", CleanValue(Absent()))
	assert.Equal(t, "AIIMS", CleanValue(Present(" AIIMS ")))
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "Maulana Azad Medical College, New Delhi", TitleKey("MAULANA AZAD MEDICAL COLLEGE, NEW DELHI"))
	assert.Equal(t, "Md General Medicine", TitleKey("MD GENERAL MEDICINE"))
	assert.Equal(t, "", TitleKey(""))
}

func TestNormalize_KeepsEverythingButInstituteAndCourse(t *testing.T) {
	// GIVEN an allocation with untidy text and an absent course
	in := []Allocation{{
		Rank:              220,
		Round:             R3,
		Quota:             Present("AIQ"),
		Institute:         Present("MAULANA AZAD MEDICAL COLLEGE ,,\nNEW  DELHI"),
		Course:            Absent(),
		AllottedCategory:  Present("OPEN"),
		CandidateCategory: Present("OPEN"),
		Remarks:           Present("Fresh  Allotted"),
	}}

	// WHEN normalized
	out := Normalize(in)

	// THEN institute and course are cleaned and keyed
	require.Len(t, out, 1)
	n := out[0]
	assert.Equal(t, "MAULANA AZAD MEDICAL COLLEGE, NEW DELHI", n.Institute)
	assert.Equal(t, "Maulana Azad Medical College, New Delhi", n.InstituteNormalized)
	assert.Equal(t, "", n.Course)
	assert.Equal(t, "", n.CourseNormalized)

	// AND other fields pass through untouched
	assert.Equal(t, in[0].Remarks, n.Remarks)
	assert.Equal(t, in[0].Quota, n.Quota)
	assert.Equal(t, 220, n.Rank)
	assert.Equal(t, R3, n.Round)
}
