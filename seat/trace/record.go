// Package trace records reconciliation decisions for post-run analysis.
// It has no dependencies on seat/ and stores plain data types only.
package trace

// Decision captures how one round-3 row was resolved.
type Decision struct {
	Rank  string
	Line  int    // source line in the round-3 file
	Round string // final round ("R1", "R2", "R3"), empty when no seat
	// LookupMissed is set when the seat came from a carried-forward field but
	// the earlier round had no row for the rank, leaving details absent.
	LookupMissed bool
	// Skipped is set when the row could not be turned into an allocation
	// (e.g. a non-numeric rank). Reason says why.
	Skipped bool
	Reason  string
}
