package seat

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seat-predictor/seat-predictor/seat/trace"
)

// Round-3 rows: rank, R1 seat + remarks, R2 seat + remarks, R3 seat + details.
const (
	r3OnlyR1   = "100,AIQ,AIIMS,MD MEDICINE,Allotted,-,-,-,-,-,-,-,-,-,-,-"
	r3OnlyR2   = "150,AIQ,MAMC,MS SURGERY,Allotted,AIQ,AIIMS,MS SURGERY,Upgraded,-,-,-,-,-,-,-"
	r3OwnSeat  = "200,DNB,SJH,MD PAEDS,Allotted,-,-,-,-,DNB,SJH,MD PAEDS,OBC,OBC,2,Upgraded"
	r3NoSeat   = "400,-,-,-,-,-,-,-,-,-,-,-,-,-,-,-"
	r3Missing  = "350,AIQ,AIIMS,MD MEDICINE,Allotted,-,-,-,-,-,-,-,-,-,-,-"
	r3BadRank  = "N/A,AIQ,AIIMS,MD MEDICINE,Allotted,-,-,-,-,-,-,-,-,-,-,-"
	r3BlankSeq = "500,AIQ,AIIMS,MD MEDICINE,Allotted,AIQ,,MD X,-,AIQ, ,MD Y,EWS,EWS,1,x"
)

func goldenRounds(t *testing.T, r3 ...string) Rounds {
	t.Helper()
	return Rounds{
		R1: load(t, R1Schema,
			"1,100,AIQ,AIIMS,MD MEDICINE,OPEN,OPEN,Allotted",
			"2,150,AIQ,MAMC,MS SURGERY,OPEN,OPEN,Allotted",
			"3,500,AIQ,AIIMS,MD MEDICINE,EWS,EWS,Allotted",
		),
		R2: load(t, R2Schema,
			"1,100,AIQ,AIIMS,MD MEDICINE,Allotted,-,-,-,-,-,-,No upgrade",
			"2,150,AIQ,MAMC,MS SURGERY,Allotted,AIQ,AIIMS,MS SURGERY,OPEN,SC,3,Upgraded",
		),
		R3: load(t, R3Schema, r3...),
	}
}

func TestReconcile_CarriedForwardR1Seat_RecoversDetailsFromR1(t *testing.T) {
	// GIVEN rank 100 holds only a round-1 seat in the round-3 file
	rounds := goldenRounds(t, r3OnlyR1)

	// WHEN reconciled
	allocs := Reconcile(rounds, nil)

	// THEN the allocation is round 1 with categories and remarks from R1.csv
	require.Len(t, allocs, 1)
	want := Allocation{
		Rank:              100,
		Round:             R1,
		Quota:             Present("AIQ"),
		Institute:         Present("AIIMS"),
		Course:            Present("MD MEDICINE"),
		AllottedCategory:  Present("OPEN"),
		CandidateCategory: Present("OPEN"),
		Remarks:           Present("Allotted"),
	}
	if diff := cmp.Diff(want, allocs[0]); diff != "" {
		t.Errorf("allocation mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_R2SeatWinsOverR1(t *testing.T) {
	allocs := Reconcile(goldenRounds(t, r3OnlyR2), nil)

	require.Len(t, allocs, 1)
	a := allocs[0]
	assert.Equal(t, R2, a.Round)
	assert.Equal(t, "AIIMS", a.Institute.S)
	assert.Equal(t, Present("SC"), a.CandidateCategory, "details come from the R2 row")
	assert.Equal(t, Present("Upgraded"), a.Remarks)
}

func TestReconcile_OwnRoundSeat_TakesDetailsFromRow(t *testing.T) {
	allocs := Reconcile(goldenRounds(t, r3OwnSeat), nil)

	require.Len(t, allocs, 1)
	a := allocs[0]
	assert.Equal(t, R3, a.Round)
	assert.Equal(t, "SJH", a.Institute.S)
	assert.Equal(t, Present("OBC"), a.AllottedCategory)
	assert.Equal(t, Present("Upgraded"), a.Remarks)
}

func TestReconcile_BlankInstituteIsNoSeat(t *testing.T) {
	// GIVEN R2 and R3 institutes that are empty or whitespace
	allocs := Reconcile(goldenRounds(t, r3BlankSeq), nil)

	// THEN the round-1 seat is the latest real allotment
	require.Len(t, allocs, 1)
	assert.Equal(t, R1, allocs[0].Round)
	assert.Equal(t, Present("EWS"), allocs[0].CandidateCategory)
}

func TestReconcile_LookupMiss_EmitsWithAbsentDetails(t *testing.T) {
	tr := trace.New(trace.LevelDecisions)

	allocs := Reconcile(goldenRounds(t, r3Missing), tr)

	require.Len(t, allocs, 1)
	a := allocs[0]
	assert.Equal(t, R1, a.Round)
	assert.False(t, a.AllottedCategory.Valid)
	assert.False(t, a.CandidateCategory.Valid)
	assert.False(t, a.Remarks.Valid)
	require.Len(t, tr.Decisions, 1)
	assert.True(t, tr.Decisions[0].LookupMissed)
}

func TestReconcile_PreservesOrderAndSkipsUnallocated(t *testing.T) {
	// GIVEN a mix of seats, no seat and a bad rank
	tr := trace.New(trace.LevelDecisions)
	allocs := Reconcile(goldenRounds(t, r3OwnSeat, r3NoSeat, r3BadRank, r3OnlyR1, r3OnlyR2), tr)

	// THEN only seated rows appear, in round-3 order
	ranks := make([]int, len(allocs))
	for i, a := range allocs {
		ranks[i] = a.Rank
	}
	assert.Equal(t, []int{200, 100, 150}, ranks)

	// AND the trace accounts for every row
	s := trace.Summarize(tr)
	assert.Equal(t, 5, s.TotalRows)
	assert.Equal(t, 3, s.Allocated)
	assert.Equal(t, 1, s.NoSeat)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, map[string]int{"R1": 1, "R2": 1, "R3": 1}, s.RoundBreakdown)
}

func TestReconcile_FinalRoundIsLatestAllotted(t *testing.T) {
	// For every allocation, no later round carried on the source row names an institute.
	rounds := goldenRounds(t, r3OnlyR1, r3OnlyR2, r3OwnSeat, r3NoSeat, r3Missing, r3BlankSeq)
	allocs := Reconcile(rounds, nil)

	for _, a := range allocs {
		row, ok := rounds.R3.Lookup(strconv.Itoa(a.Rank))
		require.True(t, ok)
		for _, later := range recency {
			if later == a.Round {
				break
			}
			s, _ := row.Seat(later)
			assert.False(t, s.Allotted(), "rank %d: %s seat is filled but final round is %s", a.Rank, later, a.Round)
		}
	}
}

func TestReconcile_DuplicateRankInR1_UsesFirstRow(t *testing.T) {
	rounds := Rounds{
		R1: load(t, R1Schema,
			"1,100,AIQ,AIIMS,MD MEDICINE,OPEN,OPEN,first",
			"2,100,AIQ,AIIMS,MD MEDICINE,SC,SC,second",
		),
		R2: load(t, R2Schema),
		R3: load(t, R3Schema, r3OnlyR1),
	}

	allocs := Reconcile(rounds, nil)

	require.Len(t, allocs, 1)
	assert.Equal(t, Present("first"), allocs[0].Remarks)
}

func TestReconcile_NilTrace_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { Reconcile(goldenRounds(t, r3BadRank, r3NoSeat), nil) })
	assert.Nil(t, Reconcile(Rounds{}, nil))
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"18234", 18234, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"N/A", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := parseRank(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}
