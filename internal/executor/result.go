package executor

import (
	"fmt"
	"strings"
	"time"
)

// CountSettled returns the number of outcomes that carry either a result or an
// error. A zero Outcome (task never dispatched) counts as unsettled.
func CountSettled(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Result != nil || o.Err != nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of outcomes with a dispatch error or a
// non-passing result.
func CountFailed(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Err != nil || (o.Result != nil && !o.Result.Passed) {
			count++
		}
	}
	return count
}

// CountPassed returns the number of outcomes whose result passed.
func CountPassed(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Err == nil && o.Result != nil && o.Result.Passed {
			count++
		}
	}
	return count
}

// FilterFailed returns only the outcomes that failed to dispatch or did not pass.
func FilterFailed(outcomes []Outcome) []Outcome {
	failed := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil || (o.Result != nil && !o.Result.Passed) {
			failed = append(failed, o)
		}
	}
	return failed
}

// Errors extracts the dispatch errors from a batch of outcomes.
func Errors(outcomes []Outcome) []error {
	errs := make([]error, 0)
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// CoveredFiles returns the total number of filtered coverage entries across
// all successful outcomes.
func CoveredFiles(outcomes []Outcome) int {
	total := 0
	for _, o := range outcomes {
		if o.Result != nil {
			total += len(o.Result.Coverage)
		}
	}
	return total
}

// MaxDuration returns the longest task duration in the batch.
func MaxDuration(outcomes []Outcome) time.Duration {
	var max time.Duration
	for _, o := range outcomes {
		if o.Duration > max {
			max = o.Duration
		}
	}
	return max
}

// Summary aggregates a batch of outcomes for reporting.
type Summary struct {
	Total       int
	Passed      int
	Failed      int
	MaxDuration time.Duration
}

// Summarize builds a Summary from outcomes.
func Summarize(outcomes []Outcome) Summary {
	return Summary{
		Total:       len(outcomes),
		Passed:      CountPassed(outcomes),
		Failed:      CountFailed(outcomes),
		MaxDuration: MaxDuration(outcomes),
	}
}

// String returns a human-readable one-line summary.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %d, Passed: %d, Failed: %d", s.Total, s.Passed, s.Failed))
	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Slowest: %s", s.MaxDuration.Round(time.Millisecond)))
	}
	return sb.String()
}

// HasFailures returns true if any outcome failed or did not pass.
func HasFailures(outcomes []Outcome) bool {
	return CountFailed(outcomes) > 0
}
