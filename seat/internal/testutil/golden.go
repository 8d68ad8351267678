// Package testutil provides shared test infrastructure for the seat packages.
// It consolidates the golden dataset and fixture writers used across seat/,
// seat/inference/ and seat/pipeline/ tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GoldenExpectations represents testdata/golden/expected.json.
type GoldenExpectations struct {
	ValidRows     map[string]int `json:"valid_rows"`
	MalformedRows map[string]int `json:"malformed_rows"`
	Allocations   int            `json:"allocations"`
	FinalRanks    []int          `json:"final_ranks"`
	Trace         GoldenTrace    `json:"trace"`
}

// GoldenTrace is the expected reconciliation trace summary.
type GoldenTrace struct {
	TotalRows    int            `json:"total_rows"`
	Allocated    int            `json:"allocated"`
	NoSeat       int            `json:"no_seat"`
	Skipped      int            `json:"skipped"`
	LookupMisses int            `json:"lookup_misses"`
	Rounds       map[string]int `json:"rounds"`
}

// Golden locates the golden round files and their expected outputs.
type Golden struct {
	Dir      string
	Expected GoldenExpectations
}

// Path returns the path of a file inside the golden directory.
func (g *Golden) Path(name string) string {
	return filepath.Join(g.Dir, name)
}

// LoadGolden loads the golden dataset from the repo's testdata directory.
// The path is resolved relative to this source file: seat/internal/testutil/ → testdata/golden/.
func LoadGolden(t *testing.T) *Golden {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden")
	data, err := os.ReadFile(filepath.Join(dir, "expected.json"))
	if err != nil {
		t.Fatalf("Failed to read golden expectations: %v", err)
	}

	var exp GoldenExpectations
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("Failed to parse golden expectations: %v", err)
	}
	return &Golden{Dir: dir, Expected: exp}
}

// WriteFile writes lines (joined with newlines) to name inside dir and
// returns the full path.
func WriteFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// CopyGoldenRounds copies R1.csv, R2.csv and R3.csv from the golden set
// into dir, so tests can write artifacts next to them.
func CopyGoldenRounds(t *testing.T, g *Golden, dir string) {
	t.Helper()
	for _, name := range []string{"R1.csv", "R2.csv", "R3.csv"} {
		data, err := os.ReadFile(g.Path(name))
		if err != nil {
			t.Fatalf("reading golden %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("copying golden %s: %v", name, err)
		}
	}
}
