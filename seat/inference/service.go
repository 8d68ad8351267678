package inference

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/seat-predictor/seat-predictor/seat/audit"
)

// Response is the outcome of a prediction. With ErrNoEligible it carries
// no groups but keeps any warnings.
type Response struct {
	Query    Query
	Groups   []Group
	Warnings []string // non-fatal problems, e.g. audit failures
}

// Service answers queries against a Store and audits their inputs.
type Service struct {
	store   *Store
	auditor audit.Auditor
}

// NewService returns a service. A nil auditor disables auditing.
func NewService(store *Store, auditor audit.Auditor) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{store: store, auditor: auditor}
}

// Store returns the backing store.
func (s *Service) Store() *Store { return s.store }

// Predict audits the query inputs and runs it against the current table.
// An audit failure is logged and returned as a warning; it never fails the
// request. When nothing matches, ErrNoEligible is returned together with a
// Response holding the warnings.
func (s *Service) Predict(ctx context.Context, q Query) (*Response, error) {
	var warnings []string
	if err := s.auditor.Record(ctx, entryFor(q)); err != nil {
		logrus.Warnf("Logging failed: %v", err)
		warnings = append(warnings, fmt.Sprintf("Logging failed: %v", err))
	}

	t, err := s.store.Table()
	if err != nil {
		return nil, err
	}
	groups, err := t.Predict(q)
	if errors.Is(err, ErrNoEligible) {
		return &Response{Query: q, Warnings: warnings}, err
	}
	if err != nil {
		return nil, err
	}
	return &Response{Query: q, Groups: groups, Warnings: warnings}, nil
}

func entryFor(q Query) audit.Entry {
	return audit.Entry{
		Rank:     strconv.Itoa(q.Rank),
		Quota:    q.Quota,
		Category: q.Category,
		College:  q.College,
		Course:   q.Course,
		GroupBy:  string(q.GroupBy),
	}
}
