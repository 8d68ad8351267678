package seat

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/seat-predictor/seat-predictor/seat/trace"
)

// Allocation is a candidate's final seat across all rounds.
type Allocation struct {
	Rank              int
	Round             Round // latest round in which a seat was allotted
	Quota             Value
	Institute         Value
	Course            Value
	AllottedCategory  Value
	CandidateCategory Value
	Remarks           Value
}

// Rounds bundles the three loaded round tables.
type Rounds struct {
	R1, R2, R3 *RoundTable
}

func (rs Rounds) table(r Round) *RoundTable {
	switch r {
	case R1:
		return rs.R1
	case R2:
		return rs.R2
	case R3:
		return rs.R3
	}
	return nil
}

// Reconcile derives one Allocation per round-3 row that holds a seat in any
// round. For each row the seats are scanned latest first: the row's own seat,
// then the round-2 and round-1 seats it carries forward. A carried-forward
// seat has no category or remarks in the round-3 file, so those are looked
// up by rank in the earlier round's table; a missed lookup leaves them absent
// but still emits the allocation.
//
// Output preserves round-3 row order. tr may be nil.
func Reconcile(rounds Rounds, tr *trace.Trace) []Allocation {
	if rounds.R3 == nil {
		return nil
	}
	out := make([]Allocation, 0, len(rounds.R3.Rows))
	for _, row := range rounds.R3.Rows {
		decision := trace.Decision{Rank: row.Rank(), Line: row.Line}

		rank, err := parseRank(row.Rank())
		if err != nil {
			logrus.Warnf("%s line %d: %v; row skipped", rounds.R3.Schema.File, row.Line, err)
			decision.Skipped = true
			decision.Reason = err.Error()
			tr.Record(decision)
			continue
		}

		alloc, missed, ok := resolve(rounds, row)
		if !ok {
			tr.Record(decision)
			continue
		}
		alloc.Rank = rank
		decision.Round = alloc.Round.String()
		decision.LookupMissed = missed
		if missed {
			logrus.Debugf("rank %d: no %s row to recover category/remarks", rank, alloc.Round)
		}
		tr.Record(decision)
		out = append(out, alloc)
	}
	return out
}

// resolve finds the latest allotted seat on row. missed reports a failed
// detail lookup for a carried-forward seat.
func resolve(rounds Rounds, row Row) (alloc Allocation, missed bool, ok bool) {
	for _, round := range recency {
		seat, carried := row.Seat(round)
		if !carried || !seat.Allotted() {
			continue
		}
		alloc = Allocation{
			Round:     round,
			Quota:     seat.Quota,
			Institute: seat.Institute,
			Course:    seat.Course,
		}
		source := row
		if round != row.Schema.Round {
			earlier, found := rounds.table(round).Lookup(row.Rank())
			if !found {
				return alloc, true, true
			}
			source = earlier
		}
		alloc.AllottedCategory, alloc.CandidateCategory, alloc.Remarks = source.Details()
		return alloc, false, true
	}
	return Allocation{}, false, false
}

func parseRank(s string) (int, error) {
	rank, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	if rank < 1 {
		return 0, fmt.Errorf("rank must be positive, got %d", rank)
	}
	return rank, nil
}
