package trace

import (
	"testing"
)

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	for _, tr := range []*Trace{nil, New(LevelDecisions)} {
		s := Summarize(tr)
		if s.TotalRows != 0 || s.Allocated != 0 || s.NoSeat != 0 || s.Skipped != 0 {
			t.Errorf("expected zero summary, got %+v", s)
		}
		if s.RoundBreakdown == nil {
			t.Error("expected non-nil round breakdown")
		}
	}
}

func TestSummarize_CountsByOutcome(t *testing.T) {
	// GIVEN a trace with every outcome
	tr := New(LevelDecisions)
	tr.Record(Decision{Rank: "100", Round: "R1"})
	tr.Record(Decision{Rank: "150", Round: "R2"})
	tr.Record(Decision{Rank: "200", Round: "R3"})
	tr.Record(Decision{Rank: "350", Round: "R1", LookupMissed: true})
	tr.Record(Decision{Rank: "400"})
	tr.Record(Decision{Rank: "N/A", Skipped: true, Reason: "invalid rank"})

	// WHEN summarized
	s := Summarize(tr)

	// THEN each outcome is counted once
	if s.TotalRows != 6 {
		t.Errorf("TotalRows: expected 6, got %d", s.TotalRows)
	}
	if s.Allocated != 4 {
		t.Errorf("Allocated: expected 4, got %d", s.Allocated)
	}
	if s.NoSeat != 1 {
		t.Errorf("NoSeat: expected 1, got %d", s.NoSeat)
	}
	if s.Skipped != 1 {
		t.Errorf("Skipped: expected 1, got %d", s.Skipped)
	}
	if s.LookupMisses != 1 {
		t.Errorf("LookupMisses: expected 1, got %d", s.LookupMisses)
	}
	if s.RoundBreakdown["R1"] != 2 || s.RoundBreakdown["R2"] != 1 || s.RoundBreakdown["R3"] != 1 {
		t.Errorf("unexpected round breakdown %v", s.RoundBreakdown)
	}

	// AND allocated + no seat + skipped accounts for every row
	if s.Allocated+s.NoSeat+s.Skipped != s.TotalRows {
		t.Errorf("outcomes do not sum to total: %+v", s)
	}
}
