package output

import (
	"encoding/json"
	"io"

	"github.com/rajatverma/testherd/internal/executor"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatOutcomes outputs per-task outcomes as a JSON array
func (f *JSONFormatter) FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error {
	views := make([]outcomeView, len(outcomes))
	for i, o := range outcomes {
		views[i] = viewOf(o)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(views)
}
