package inference

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Any is the wildcard accepted for the college and course filters.
const Any = "ANY"

// ErrNoEligible reports that no group admits the requested rank. It is an
// expected outcome, not a failure; callers check it with errors.Is.
var ErrNoEligible = errors.New("no eligible colleges/courses found for the given inputs")

// GroupBy selects the dimension results are grouped by.
type GroupBy string

const (
	GroupByCollege GroupBy = "College"
	GroupByCourse  GroupBy = "Course"
)

// ParseGroupBy accepts "college" or "course" in any case.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "college":
		return GroupByCollege, nil
	case "course":
		return GroupByCourse, nil
	}
	return "", fmt.Errorf("unknown group-by %q; valid: College, Course", s)
}

// Query is one eligibility request.
type Query struct {
	Rank     int
	Quota    string
	Category string
	College  string // Any matches every college; "" is the blank-college bucket
	Course   string // Any matches every course; "" is the blank-course bucket
	GroupBy  GroupBy
}

// Validate checks the query shape.
func (q Query) Validate() error {
	if q.Rank < 1 {
		return fmt.Errorf("rank must be a positive integer, got %d", q.Rank)
	}
	if q.GroupBy != GroupByCollege && q.GroupBy != GroupByCourse {
		return fmt.Errorf("unknown group-by %q; valid: College, Course", q.GroupBy)
	}
	return nil
}

// Entry is one displayed row within a group: the other dimension's name and
// its rank range.
type Entry struct {
	Name     string `json:"name"`
	BestRank int    `json:"best_rank"`
	LastRank int    `json:"last_rank"`
}

// Group holds the entries sharing one college (or course).
type Group struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"entries"`
}

func wildcard(s string) bool {
	return s == Any
}

// Predict returns the groups a candidate is eligible for: rows matching the
// quota and category exactly, the optional college and course filters, and
// whose cutoff rank is at or beyond the candidate's rank. Groups are ordered
// by key; entries within a group by best rank. An empty result is reported
// as ErrNoEligible.
func (t *Table) Predict(q Query) ([]Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var matched []Row
	for _, r := range t.rows {
		if r.Quota != q.Quota || r.Category != q.Category {
			continue
		}
		if !wildcard(q.College) && r.College != q.College {
			continue
		}
		if !wildcard(q.Course) && r.Course != q.Course {
			continue
		}
		if r.CutoffRank < q.Rank {
			continue
		}
		matched = append(matched, r)
	}
	if len(matched) == 0 {
		return nil, ErrNoEligible
	}

	keyOf, nameOf := func(r Row) string { return r.College }, func(r Row) string { return r.Course }
	if q.GroupBy == GroupByCourse {
		keyOf, nameOf = nameOf, keyOf
	}

	byKey := make(map[string][]Row)
	for _, r := range matched {
		byKey[keyOf(r)] = append(byKey[keyOf(r)], r)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		rows := byKey[k]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].MinRank != rows[j].MinRank {
				return rows[i].MinRank < rows[j].MinRank
			}
			return nameOf(rows[i]) < nameOf(rows[j])
		})
		entries := make([]Entry, len(rows))
		for i, r := range rows {
			entries[i] = Entry{Name: nameOf(r), BestRank: r.MinRank, LastRank: r.CutoffRank}
		}
		groups = append(groups, Group{Key: k, Entries: entries})
	}
	return groups, nil
}
