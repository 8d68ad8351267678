package inference

import (
	"fmt"
	"sort"

	"github.com/seat-predictor/seat-predictor/seat"
)

type groupKey struct {
	college, course, quota, category string
}

// Build aggregates allocations by (institute, course, quota, candidate
// category) and records the lowest and highest rank in each group. Absent
// quota or category values group under the empty string. Rows come back
// sorted by group key, so the output is reproducible.
func Build(allocs []seat.NormalizedAllocation) []Row {
	groups := make(map[groupKey]*Row)
	for _, a := range allocs {
		key := groupKey{
			college:  a.Institute,
			course:   a.Course,
			quota:    a.Quota.Or(""),
			category: a.CandidateCategory.Or(""),
		}
		g, ok := groups[key]
		if !ok {
			groups[key] = &Row{
				College: key.college, Course: key.course,
				Quota: key.quota, Category: key.category,
				MinRank: a.Rank, CutoffRank: a.Rank,
			}
			continue
		}
		if a.Rank < g.MinRank {
			g.MinRank = a.Rank
		}
		if a.Rank > g.CutoffRank {
			g.CutoffRank = a.Rank
		}
	}

	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.College != b.College {
			return a.College < b.College
		}
		if a.Course != b.Course {
			return a.Course < b.Course
		}
		if a.Quota != b.Quota {
			return a.Quota < b.Quota
		}
		return a.Category < b.Category
	})
	return rows
}

// BuildFile is the file-to-file builder stage: it reads a normalized
// allocation artifact and writes the inference table.
func BuildFile(inPath, outPath string) (int, error) {
	allocs, err := seat.ReadNormalizedFile(inPath)
	if err != nil {
		return 0, err
	}
	rows := Build(allocs)
	if err := SaveTable(outPath, rows); err != nil {
		return 0, fmt.Errorf("saving inference table: %w", err)
	}
	return len(rows), nil
}
