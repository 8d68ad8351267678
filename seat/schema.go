package seat

import (
	"fmt"
	"strings"
)

// Round identifies one allocation round.
type Round string

const (
	R1 Round = "R1"
	R2 Round = "R2"
	R3 Round = "R3"
)

// recency lists rounds latest first. Reconciliation scans seats in this order.
var recency = []Round{R3, R2, R1}

// String returns the round label written to artifacts.
func (r Round) String() string { return string(r) }

// IsValidRound returns true if the given label names a known round.
func IsValidRound(label string) bool {
	switch Round(label) {
	case R1, R2, R3:
		return true
	}
	return false
}

// NullSentinel is the literal the counselling exports use for "no value".
const NullSentinel = "-"

// Value is an optional text field. The zero Value is absent.
type Value struct {
	S     string
	Valid bool
}

// Present wraps s as a present value (s may be empty).
func Present(s string) Value { return Value{S: s, Valid: true} }

// Absent returns the missing value.
func Absent() Value { return Value{} }

// parseValue converts a raw CSV field. Only the hyphen sentinel is absent;
// an empty field stays a present empty string.
func parseValue(raw string) Value {
	if strings.TrimSpace(raw) == NullSentinel {
		return Absent()
	}
	return Present(raw)
}

// Filled reports whether the value is present and not blank.
func (v Value) Filled() bool {
	return v.Valid && strings.TrimSpace(v.S) != ""
}

// Or returns the text of v, or def when v is absent.
func (v Value) Or(def string) string {
	if !v.Valid {
		return def
	}
	return v.S
}

// Field names one column of a round file.
type Field string

const (
	FieldSerial Field = "sno"
	FieldRank   Field = "rank"

	FieldR1Quota             Field = "r1_allotted_quota"
	FieldR1Institute         Field = "r1_allotted_institute"
	FieldR1Course            Field = "r1_course"
	FieldR1AllottedCategory  Field = "r1_allotted_category"
	FieldR1CandidateCategory Field = "r1_candidate_category"
	FieldR1Remarks           Field = "r1_remarks"

	FieldR2Quota             Field = "r2_allotted_quota"
	FieldR2Institute         Field = "r2_allotted_institute"
	FieldR2Course            Field = "r2_course"
	FieldR2AllottedCategory  Field = "r2_allotted_category"
	FieldR2CandidateCategory Field = "r2_candidate_category"
	FieldR2OptionNo          Field = "r2_option_no"
	FieldR2Remarks           Field = "r2_remarks"

	FieldR3Quota             Field = "r3_allotted_quota"
	FieldR3Institute         Field = "r3_allotted_institute"
	FieldR3Course            Field = "r3_course"
	FieldR3AllottedCategory  Field = "r3_allotted_category"
	FieldR3CandidateCategory Field = "r3_candidate_category"
	FieldR3OptionNo          Field = "r3_option_no"
	FieldR3Remarks           Field = "r3_remarks"
)

// SeatFields locates a seat (quota, institute, course) inside a row.
type SeatFields struct {
	Quota, Institute, Course Field
}

// DetailFields locates the category and remarks columns a round records for
// its own seat. Later rounds do not carry these for earlier seats.
type DetailFields struct {
	AllottedCategory, CandidateCategory, Remarks Field
}

// Schema describes the positional layout of one round's file.
type Schema struct {
	Round   Round
	File    string // label used in logs, e.g. "R2.csv"
	Fields  []Field
	Seats   map[Round]SeatFields // own seat plus seats carried forward from earlier rounds
	Details DetailFields

	index map[Field]int
}

func newSchema(round Round, fields []Field, seats map[Round]SeatFields, details DetailFields) *Schema {
	s := &Schema{
		Round:   round,
		File:    string(round) + ".csv",
		Fields:  fields,
		Seats:   seats,
		Details: details,
		index:   make(map[Field]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %q", round, f))
		}
		s.index[f] = i
	}
	return s
}

// Width is the number of fields a valid row must have.
func (s *Schema) Width() int { return len(s.Fields) }

// Has reports whether the schema carries field f.
func (s *Schema) Has(f Field) bool {
	_, ok := s.index[f]
	return ok
}

var (
	r1Seat = SeatFields{FieldR1Quota, FieldR1Institute, FieldR1Course}
	r2Seat = SeatFields{FieldR2Quota, FieldR2Institute, FieldR2Course}
	r3Seat = SeatFields{FieldR3Quota, FieldR3Institute, FieldR3Course}
)

// R1Schema is the 8-column round-1 layout.
var R1Schema = newSchema(R1,
	[]Field{
		FieldSerial, FieldRank,
		FieldR1Quota, FieldR1Institute, FieldR1Course,
		FieldR1AllottedCategory, FieldR1CandidateCategory, FieldR1Remarks,
	},
	map[Round]SeatFields{R1: r1Seat},
	DetailFields{FieldR1AllottedCategory, FieldR1CandidateCategory, FieldR1Remarks},
)

// R2Schema is the 13-column round-2 layout, carrying the round-1 seat forward.
var R2Schema = newSchema(R2,
	[]Field{
		FieldSerial, FieldRank,
		FieldR1Quota, FieldR1Institute, FieldR1Course, FieldR1Remarks,
		FieldR2Quota, FieldR2Institute, FieldR2Course,
		FieldR2AllottedCategory, FieldR2CandidateCategory, FieldR2OptionNo, FieldR2Remarks,
	},
	map[Round]SeatFields{R1: r1Seat, R2: r2Seat},
	DetailFields{FieldR2AllottedCategory, FieldR2CandidateCategory, FieldR2Remarks},
)

// R3Schema is the 16-column round-3 layout, carrying round-1 and round-2 seats forward.
var R3Schema = newSchema(R3,
	[]Field{
		FieldRank,
		FieldR1Quota, FieldR1Institute, FieldR1Course, FieldR1Remarks,
		FieldR2Quota, FieldR2Institute, FieldR2Course, FieldR2Remarks,
		FieldR3Quota, FieldR3Institute, FieldR3Course,
		FieldR3AllottedCategory, FieldR3CandidateCategory, FieldR3OptionNo, FieldR3Remarks,
	},
	map[Round]SeatFields{R1: r1Seat, R2: r2Seat, R3: r3Seat},
	DetailFields{FieldR3AllottedCategory, FieldR3CandidateCategory, FieldR3Remarks},
)

// SchemaFor returns the descriptor for a round.
func SchemaFor(r Round) (*Schema, error) {
	switch r {
	case R1:
		return R1Schema, nil
	case R2:
		return R2Schema, nil
	case R3:
		return R3Schema, nil
	}
	return nil, fmt.Errorf("unknown round %q; valid: R1, R2, R3", r)
}

// Row is one valid row of a round file.
type Row struct {
	Schema *Schema
	Line   int // 1-based line in the source file
	values []Value
}

// Get returns the value of field f. Asking for a field the row's schema does
// not carry is a programming error and panics.
func (r Row) Get(f Field) Value {
	i, ok := r.Schema.index[f]
	if !ok {
		panic(fmt.Sprintf("round %s has no field %q", r.Schema.Round, f))
	}
	return r.values[i]
}

// Rank returns the trimmed rank text used as the cross-round join key.
func (r Row) Rank() string {
	return strings.TrimSpace(r.Get(FieldRank).S)
}

// Seat is a (quota, institute, course) triple read from a row.
type Seat struct {
	Round                    Round
	Quota, Institute, Course Value
}

// Allotted reports whether the seat names an institute.
func (s Seat) Allotted() bool { return s.Institute.Filled() }

// Seat returns the seat the row records for round. ok is false when the
// row's schema does not carry that round.
func (r Row) Seat(round Round) (seat Seat, ok bool) {
	sf, ok := r.Schema.Seats[round]
	if !ok {
		return Seat{}, false
	}
	return Seat{
		Round:     round,
		Quota:     r.Get(sf.Quota),
		Institute: r.Get(sf.Institute),
		Course:    r.Get(sf.Course),
	}, true
}

// Details returns the allotted category, candidate category and remarks the
// row records for its own round.
func (r Row) Details() (allotted, candidate, remarks Value) {
	d := r.Schema.Details
	return r.Get(d.AllottedCategory), r.Get(d.CandidateCategory), r.Get(d.Remarks)
}

// NewRow builds a row from already-parsed values. It is used by tests and
// by callers assembling rows outside the CSV loader.
func NewRow(schema *Schema, line int, values []Value) (Row, error) {
	if len(values) != schema.Width() {
		return Row{}, fmt.Errorf("round %s: row has %d fields, expected %d", schema.Round, len(values), schema.Width())
	}
	return Row{Schema: schema, Line: line, values: values}, nil
}
