// Package inference builds and queries the rank-range lookup table served to
// candidates: one row per (college, course, quota, category) with the best
// and worst rank admitted.
package inference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// TableFile is the default name of the serving artifact.
const TableFile = "inference_table.csv"

// ErrBadHeader is returned when the table header does not match tableColumns.
var ErrBadHeader = errors.New("unexpected inference table header")

var tableColumns = []string{"college", "course", "quota", "category", "min_rank", "cutoff_rank"}

// Row is one aggregated group of the inference table.
type Row struct {
	College    string
	Course     string
	Quota      string
	Category   string
	MinRank    int // best (lowest) rank admitted
	CutoffRank int // worst (highest) rank admitted
}

// Table is an immutable inference table. It is safe for concurrent readers.
type Table struct {
	rows []Row
}

// NewTable wraps rows. The slice is copied; callers may reuse theirs.
func NewTable(rows []Row) *Table {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Rows returns a copy of the table rows.
func (t *Table) Rows() []Row {
	cp := make([]Row, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Options lists the distinct values a query form can offer, each sorted.
type Options struct {
	Quotas     []string
	Categories []string
	Colleges   []string
	Courses    []string
}

// Options returns the distinct quotas, categories, colleges and courses.
func (t *Table) Options() Options {
	quotas := map[string]bool{}
	categories := map[string]bool{}
	colleges := map[string]bool{}
	courses := map[string]bool{}
	for _, r := range t.rows {
		quotas[r.Quota] = true
		categories[r.Category] = true
		colleges[r.College] = true
		courses[r.Course] = true
	}
	return Options{
		Quotas:     sortedKeys(quotas),
		Categories: sortedKeys(categories),
		Colleges:   sortedKeys(colleges),
		Courses:    sortedKeys(courses),
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteTable writes rows as inference_table.csv.
func WriteTable(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tableColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.College, r.Course, r.Quota, r.Category,
			strconv.Itoa(r.MinRank), strconv.Itoa(r.CutoffRank),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("writing CSV row %s/%s: %w", r.College, r.Course, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadTable parses inference_table.csv. Rows with non-integer ranks or
// min_rank > cutoff_rank are rejected.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(tableColumns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, col := range tableColumns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], col)
		}
	}

	var rows []Row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		minRank, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid min_rank %q: %w", line, rec[4], err)
		}
		cutoff, err := strconv.Atoi(strings.TrimSpace(rec[5]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid cutoff_rank %q: %w", line, rec[5], err)
		}
		if minRank > cutoff {
			return nil, fmt.Errorf("line %d: min_rank %d exceeds cutoff_rank %d", line, minRank, cutoff)
		}
		rows = append(rows, Row{
			College: rec[0], Course: rec[1], Quota: rec[2], Category: rec[3],
			MinRank: minRank, CutoffRank: cutoff,
		})
	}
	return &Table{rows: rows}, nil
}

// LoadTable reads the table at path.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inference table: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file
	t, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

// SaveTable writes rows to path.
func SaveTable(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating inference table: %w", err)
	}
	if err := WriteTable(file, rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
