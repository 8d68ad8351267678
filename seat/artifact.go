package seat

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBadHeader is returned when an artifact's header row does not match the
// expected columns.
var ErrBadHeader = errors.New("unexpected header")

// Column headers of the allocation artifacts.
var (
	allocationColumns = []string{
		"rank", "allotted_quota", "allotted_institute", "course",
		"allotted_category", "candidate_category", "round", "remarks",
	}
	normalizedColumns = append(append([]string{}, allocationColumns...),
		"allotted_institute_normalized", "course_normalized")
)

// Default artifact file names.
const (
	FinalAllocationFile = "final_seat_allocation.csv"
	NormalizedFile      = "fully_normalized.csv"
	MalformedLogFile    = "malformed_rows.log"
)

// WriteAllocations writes allocations as final_seat_allocation.csv.
// Absent values are written as empty fields.
func WriteAllocations(w io.Writer, allocs []Allocation) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(allocationColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, a := range allocs {
		row := []string{
			strconv.Itoa(a.Rank),
			a.Quota.Or(""),
			a.Institute.Or(""),
			a.Course.Or(""),
			a.AllottedCategory.Or(""),
			a.CandidateCategory.Or(""),
			a.Round.String(),
			a.Remarks.Or(""),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for rank %d: %w", a.Rank, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadAllocations reads final_seat_allocation.csv. Empty fields read back as
// absent, since the file form cannot tell them apart.
func ReadAllocations(r io.Reader) ([]Allocation, error) {
	var out []Allocation
	err := readArtifact(r, allocationColumns, func(line int, row []string) error {
		a, err := parseAllocation(row)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// WriteNormalized writes fully_normalized.csv with every field quoted, so
// embedded commas survive any downstream CSV reader.
func WriteNormalized(w io.Writer, rows []NormalizedAllocation) error {
	bw := bufio.NewWriter(w)
	if err := writeQuoted(bw, normalizedColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, n := range rows {
		row := []string{
			strconv.Itoa(n.Rank),
			n.Quota.Or(""),
			n.Institute,
			n.Course,
			n.AllottedCategory.Or(""),
			n.CandidateCategory.Or(""),
			n.Round.String(),
			n.Remarks.Or(""),
			n.InstituteNormalized,
			n.CourseNormalized,
		}
		if err := writeQuoted(bw, row); err != nil {
			return fmt.Errorf("writing CSV row for rank %d: %w", n.Rank, err)
		}
	}
	return bw.Flush()
}

// ReadNormalized reads fully_normalized.csv.
func ReadNormalized(r io.Reader) ([]NormalizedAllocation, error) {
	var out []NormalizedAllocation
	err := readArtifact(r, normalizedColumns, func(line int, row []string) error {
		a, err := parseAllocation(row)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, NormalizedAllocation{
			Allocation:          a,
			Institute:           row[2],
			Course:              row[3],
			InstituteNormalized: row[8],
			CourseNormalized:    row[9],
		})
		return nil
	})
	return out, err
}

// WriteAllocationsFile writes allocations to path.
func WriteAllocationsFile(path string, allocs []Allocation) error {
	return writeFile(path, func(w io.Writer) error { return WriteAllocations(w, allocs) })
}

// ReadAllocationsFile reads allocations from path.
func ReadAllocationsFile(path string) ([]Allocation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening allocations %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file
	allocs, err := ReadAllocations(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return allocs, nil
}

// WriteNormalizedFile writes normalized allocations to path.
func WriteNormalizedFile(path string, rows []NormalizedAllocation) error {
	return writeFile(path, func(w io.Writer) error { return WriteNormalized(w, rows) })
}

// ReadNormalizedFile reads normalized allocations from path.
func ReadNormalizedFile(path string) ([]NormalizedAllocation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening normalized allocations %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file
	rows, err := ReadNormalized(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// RunNormalize is the file-to-file normalizer stage.
func RunNormalize(inPath, outPath string) (int, error) {
	allocs, err := ReadAllocationsFile(inPath)
	if err != nil {
		return 0, err
	}
	if err := WriteNormalizedFile(outPath, Normalize(allocs)); err != nil {
		return 0, err
	}
	return len(allocs), nil
}

func parseAllocation(row []string) (Allocation, error) {
	rank, err := parseRank(strings.TrimSpace(row[0]))
	if err != nil {
		return Allocation{}, err
	}
	if !IsValidRound(row[6]) {
		return Allocation{}, fmt.Errorf("unknown round %q", row[6])
	}
	return Allocation{
		Rank:              rank,
		Round:             Round(row[6]),
		Quota:             fromField(row[1]),
		Institute:         fromField(row[2]),
		Course:            fromField(row[3]),
		AllottedCategory:  fromField(row[4]),
		CandidateCategory: fromField(row[5]),
		Remarks:           fromField(row[7]),
	}, nil
}

func fromField(s string) Value {
	if s == "" {
		return Absent()
	}
	return Present(s)
}

// readArtifact checks the header row and hands every data row to fn.
func readArtifact(r io.Reader, columns []string, fn func(line int, row []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(columns)

	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("%w: empty file", ErrBadHeader)
	}
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	for i, col := range columns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], col)
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if err := fn(line, row); err != nil {
			return err
		}
	}
}

// writeQuoted writes one record with every field quoted.
func writeQuoted(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
