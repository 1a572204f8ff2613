package output

import (
	"io"

	"github.com/rajatverma/testherd/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatOutcomes outputs the per-task outcomes of a run to the writer
	FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter for the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// outcomeView is the serialization-friendly shape of an Outcome shared by the
// JSON and YAML formatters.
type outcomeView struct {
	Task         string `json:"task" yaml:"task"`
	Status       string `json:"status" yaml:"status"`
	Duration     string `json:"duration" yaml:"duration"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	CoveredFiles int    `json:"coveredFiles,omitempty" yaml:"coveredFiles,omitempty"`
}

func viewOf(o executor.Outcome) outcomeView {
	v := outcomeView{
		Task:     o.Task.ID,
		Duration: o.Duration.String(),
	}

	switch {
	case o.Err != nil:
		v.Status = "error"
		v.Error = o.Err.Error()
	case o.Result != nil && o.Result.Passed:
		v.Status = "passed"
		v.CoveredFiles = len(o.Result.Coverage)
	default:
		v.Status = "failed"
		if o.Result != nil {
			v.CoveredFiles = len(o.Result.Coverage)
		}
	}

	return v
}
