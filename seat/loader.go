package seat

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// MalformedRow is a row whose field count does not match its round's schema.
type MalformedRow struct {
	Line   int
	Fields []string
}

// RoundTable holds the parsed rows of one round file.
type RoundTable struct {
	Schema    *Schema
	Rows      []Row
	Malformed []MalformedRow
	// Duplicates lists ranks that appear on more than one valid row.
	// Lookups resolve to the first such row.
	Duplicates []string

	byRank map[string]int
}

// Lookup returns the first valid row with the given rank.
func (t *RoundTable) Lookup(rank string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	i, ok := t.byRank[strings.TrimSpace(rank)]
	if !ok {
		return Row{}, false
	}
	return t.Rows[i], true
}

// NewRoundTable indexes already-validated rows. Rows must all use schema.
func NewRoundTable(schema *Schema, rows []Row) (*RoundTable, error) {
	t := &RoundTable{Schema: schema, byRank: make(map[string]int, len(rows))}
	for _, r := range rows {
		if r.Schema != schema {
			return nil, fmt.Errorf("round %s: row at line %d uses schema %s", schema.Round, r.Line, r.Schema.Round)
		}
		t.add(r)
	}
	return t, nil
}

func (t *RoundTable) add(r Row) {
	rank := r.Rank()
	if _, seen := t.byRank[rank]; seen {
		t.Duplicates = append(t.Duplicates, rank)
	} else {
		t.byRank[rank] = len(t.Rows)
	}
	t.Rows = append(t.Rows, r)
}

// LoadRound parses a headerless round file. Rows whose field count differs
// from the schema width are kept aside as malformed; rows with only empty
// fields are dropped.
func LoadRound(schema *Schema, r io.Reader) (*RoundTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // width is checked per row
	reader.LazyQuotes = true

	t := &RoundTable{Schema: schema, byRank: make(map[string]int)}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", schema.File, err)
		}
		line, _ := reader.FieldPos(0)
		if blankRow(fields) {
			continue
		}
		if len(fields) != schema.Width() {
			t.Malformed = append(t.Malformed, MalformedRow{Line: line, Fields: fields})
			continue
		}
		values := make([]Value, len(fields))
		for i, f := range fields {
			values[i] = parseValue(f)
		}
		t.add(Row{Schema: schema, Line: line, values: values})
	}

	if len(t.Duplicates) > 0 {
		logrus.Warnf("%s: %d duplicate ranks among valid rows; lookups use the first occurrence (first: %s)",
			schema.File, len(t.Duplicates), t.Duplicates[0])
	}
	logrus.Debugf("%s: %d valid rows, %d malformed", schema.File, len(t.Rows), len(t.Malformed))
	return t, nil
}

// LoadRoundFile opens path and parses it with LoadRound.
func LoadRoundFile(schema *Schema, path string) (*RoundTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s input %s: %w", schema.Round, path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	t, err := LoadRound(schema, file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
