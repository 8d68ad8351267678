package seat

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sampleAllocations() []Allocation {
	return []Allocation{
		{
			Rank: 100, Round: R1,
			Quota: Present("AIQ"), Institute: Present("AIIMS"), Course: Present("MD MEDICINE"),
			AllottedCategory: Present("OPEN"), CandidateCategory: Present("OPEN"), Remarks: Present("Allotted"),
		},
		{
			Rank: 220, Round: R3,
			Quota: Present("AIQ"), Institute: Present("MAMC ,,\nNEW  DELHI"), Course: Present(`MD "PATH"`),
			AllottedCategory: Present("OPEN"), CandidateCategory: Present("OPEN"), Remarks: Present("Fresh"),
		},
		{
			Rank: 350, Round: R1,
			Quota: Present("AIQ"), Institute: Present("AIIMS"), Course: Present("MD MEDICINE"),
		},
	}
}

func TestAllocations_RoundTrip(t *testing.T) {
	// GIVEN allocations including embedded commas, quotes, newlines and absent details
	want := sampleAllocations()

	// WHEN written and read back
	var buf bytes.Buffer
	require.NoError(t, WriteAllocations(&buf, want))
	got, err := ReadAllocations(&buf)
	require.NoError(t, err)

	// THEN every value survives
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteAllocations_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAllocations(&buf, nil))
	assert.Equal(t,
		"rank,allotted_quota,allotted_institute,course,allotted_category,candidate_category,round,remarks\n",
		buf.String())
}

func TestWriteNormalized_QuotesEveryField(t *testing.T) {
	rows := Normalize(sampleAllocations()[1:2])

	var buf bytes.Buffer
	require.NoError(t, WriteNormalized(&buf, rows))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"rank","allotted_quota",`))
	assert.Equal(t,
		`"220","AIQ","MAMC, NEW DELHI","MD ""PATH""","OPEN","OPEN","R3","Fresh","Mamc, New Delhi","Md ""Path"""`,
		lines[1])
}

func TestNormalized_RoundTrip(t *testing.T) {
	want := Normalize(sampleAllocations())

	var buf bytes.Buffer
	require.NoError(t, WriteNormalized(&buf, want))
	got, err := ReadNormalized(&buf)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Rank, got[i].Rank)
		assert.Equal(t, want[i].Institute, got[i].Institute)
		assert.Equal(t, want[i].Course, got[i].Course)
		assert.Equal(t, want[i].InstituteNormalized, got[i].InstituteNormalized)
		assert.Equal(t, want[i].CandidateCategory, got[i].CandidateCategory)
	}
}

func TestReadAllocations_BadHeader(t *testing.T) {
	_, err := ReadAllocations(strings.NewReader("rank,quota,institute,course,a,b,round,remarks\n"))
	assert.True(t, errors.Is(err, ErrBadHeader), "got %v", err)

	_, err = ReadAllocations(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrBadHeader), "got %v", err)
}

func TestReadAllocations_BadRow(t *testing.T) {
	in := strings.Join(allocationColumns, ",") + "\n" + "abc,AIQ,AIIMS,MD,OPEN,OPEN,R1,ok\n"
	_, err := ReadAllocations(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	in = strings.Join(allocationColumns, ",") + "\n" + "5,AIQ,AIIMS,MD,OPEN,OPEN,R9,ok\n"
	_, err = ReadAllocations(strings.NewReader(in))
	assert.Error(t, err)
}

func TestRunNormalize_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, FinalAllocationFile)
	out := filepath.Join(dir, NormalizedFile)
	require.NoError(t, WriteAllocationsFile(in, sampleAllocations()))

	n, err := RunNormalize(in, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := ReadNormalizedFile(out)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "MAMC, NEW DELHI", rows[1].Institute)
}

func TestRunNormalize_MissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, NormalizedFile)

	_, err := RunNormalize(filepath.Join(dir, "missing.csv"), out)
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}
