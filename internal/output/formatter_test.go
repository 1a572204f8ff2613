package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rajatverma/testherd/internal/executor"
)

func sampleOutcomes() []executor.Outcome {
	return []executor.Outcome{
		{
			Task: executor.Task{ID: "api"},
			Result: &executor.Result{
				TaskID:   "api",
				Passed:   true,
				Coverage: []executor.WrappedCoverage{{}, {}},
			},
			Duration: 40 * time.Millisecond,
		},
		{
			Task:     executor.Task{ID: "web"},
			Result:   &executor.Result{TaskID: "web", Passed: false, Output: "2 tests failed"},
			Duration: 90 * time.Millisecond,
		},
		{
			Task:     executor.Task{ID: "cli"},
			Err:      errors.New("handler crashed"),
			Duration: 3 * time.Millisecond,
		},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatTable, "*output.TableFormatter"},
		{FormatJSON, "*output.JSONFormatter"},
		{FormatYAML, "*output.YAMLFormatter"},
		{Format("bogus"), "*output.TableFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format)
			if f == nil {
				t.Fatal("expected a formatter")
			}
		})
	}
}

func TestTableFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&Options{NoColor: true})

	if err := f.FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"TASK", "STATUS", "api", "Passed", "web", "Failed", "cli", "Error", "Total: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Wide(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&Options{NoColor: true, Wide: true})

	if err := f.FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "DETAIL") {
		t.Errorf("wide output missing detail header:\n%s", out)
	}
	if !strings.Contains(out, "handler crashed") {
		t.Errorf("wide output missing error detail:\n%s", out)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(nil)

	if err := f.FormatOutcomes(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No tasks") {
		t.Errorf("expected empty notice, got:\n%s", buf.String())
	}
}

func TestJSONFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(nil)

	if err := f.FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var views []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(views))
	}

	if views[0]["task"] != "api" || views[0]["status"] != "passed" {
		t.Errorf("unexpected first entry: %v", views[0])
	}
	if views[0]["coveredFiles"] != float64(2) {
		t.Errorf("expected 2 covered files, got %v", views[0]["coveredFiles"])
	}
	if views[2]["status"] != "error" || views[2]["error"] != "handler crashed" {
		t.Errorf("unexpected error entry: %v", views[2])
	}
}

func TestYAMLFormatter_FormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter(nil)

	if err := f.FormatOutcomes(&buf, sampleOutcomes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var views []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(views))
	}
	if views[1]["status"] != "failed" {
		t.Errorf("unexpected second entry: %v", views[1])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(nil)

	if err := f.Format(&buf, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("unexpected JSON output: %s", buf.String())
	}
}
