package executor

import (
	"errors"
	"testing"
	"time"
)

func sampleOutcomes() []Outcome {
	return []Outcome{
		{
			Task:     Task{ID: "api"},
			Result:   &Result{TaskID: "api", Passed: true, Coverage: []WrappedCoverage{{}, {}}},
			Duration: 30 * time.Millisecond,
		},
		{
			Task:     Task{ID: "web"},
			Result:   &Result{TaskID: "web", Passed: false},
			Duration: 120 * time.Millisecond,
		},
		{
			Task:     Task{ID: "cli"},
			Err:      errors.New("handler crashed"),
			Duration: 5 * time.Millisecond,
		},
		{
			Task:     Task{ID: "db"},
			Result:   &Result{TaskID: "db", Passed: true, Coverage: []WrappedCoverage{{}}},
			Duration: 60 * time.Millisecond,
		},
	}
}

func TestCounts(t *testing.T) {
	outcomes := sampleOutcomes()

	if got := CountSettled(outcomes); got != 4 {
		t.Errorf("CountSettled = %d, want 4", got)
	}
	if got := CountPassed(outcomes); got != 2 {
		t.Errorf("CountPassed = %d, want 2", got)
	}
	if got := CountFailed(outcomes); got != 2 {
		t.Errorf("CountFailed = %d, want 2", got)
	}
}

func TestFilterFailed(t *testing.T) {
	failed := FilterFailed(sampleOutcomes())

	if len(failed) != 2 {
		t.Fatalf("expected 2 failed outcomes, got %d", len(failed))
	}
	if failed[0].Task.ID != "web" || failed[1].Task.ID != "cli" {
		t.Errorf("unexpected failed set: %s, %s", failed[0].Task.ID, failed[1].Task.ID)
	}
}

func TestErrors(t *testing.T) {
	errs := Errors(sampleOutcomes())
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestCoveredFiles(t *testing.T) {
	if got := CoveredFiles(sampleOutcomes()); got != 3 {
		t.Errorf("CoveredFiles = %d, want 3", got)
	}
}

func TestMaxDuration(t *testing.T) {
	if got := MaxDuration(sampleOutcomes()); got != 120*time.Millisecond {
		t.Errorf("MaxDuration = %s, want 120ms", got)
	}
	if got := MaxDuration(nil); got != 0 {
		t.Errorf("MaxDuration(nil) = %s, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOutcomes())

	if s.Total != 4 || s.Passed != 2 || s.Failed != 2 {
		t.Errorf("unexpected summary: %+v", s)
	}

	str := s.String()
	for _, want := range []string{"Total: 4", "Passed: 2", "Failed: 2", "Slowest"} {
		if !contains(str, want) {
			t.Errorf("summary string missing %q: %s", want, str)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if contains(s.String(), "Slowest") {
		t.Errorf("empty summary should omit slowest: %s", s.String())
	}
}

func TestHasFailures(t *testing.T) {
	if !HasFailures(sampleOutcomes()) {
		t.Error("expected failures in sample outcomes")
	}

	passing := []Outcome{
		{Task: Task{ID: "ok"}, Result: &Result{TaskID: "ok", Passed: true}},
	}
	if HasFailures(passing) {
		t.Error("expected no failures in passing outcomes")
	}
}
