package trace

// Summary aggregates statistics from a Trace.
type Summary struct {
	TotalRows      int
	Allocated      int
	NoSeat         int
	Skipped        int
	LookupMisses   int
	RoundBreakdown map[string]int // final round → allocations
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *Summary {
	s := &Summary{
		RoundBreakdown: make(map[string]int),
	}
	if t == nil {
		return s
	}

	s.TotalRows = len(t.Decisions)
	for _, d := range t.Decisions {
		switch {
		case d.Skipped:
			s.Skipped++
		case d.Round == "":
			s.NoSeat++
		default:
			s.Allocated++
			s.RoundBreakdown[d.Round]++
		}
		if d.LookupMissed {
			s.LookupMisses++
		}
	}
	return s
}
