package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/rajatverma/testherd/internal/executor"
)

// TableFormatter formats output as a compact table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatOutcomes renders one row per task plus a run summary line
func (f *TableFormatter) FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No tasks")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"TASK", "STATUS", "DURATION", "COVERED"}
	if f.options.Wide {
		headers = append(headers, "DETAIL")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			colored := make([]string, len(headers))
			for i, h := range headers {
				colored[i] = colors.Header(h)
			}
			table.SetHeader(colored)
		}
	}

	for _, o := range outcomes {
		table.Append(f.outcomeRow(o, colors))
	}

	table.Render()

	f.printSummary(w, outcomes, colors)
	return nil
}

// outcomeRow formats a single outcome as a table row
func (f *TableFormatter) outcomeRow(o executor.Outcome, colors *ColorScheme) []string {
	name := o.Task.ID
	if !colors.Disabled {
		name = colors.TaskName(name)
	}

	failed := o.Err != nil || o.Result == nil || !o.Result.Passed
	status := "Passed"
	if o.Err != nil {
		status = "Error"
	} else if failed {
		status = "Failed"
	}
	if !colors.Disabled {
		status = colors.StatusColor(failed)(status)
	}

	duration := o.Duration.String()
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	covered := "-"
	if o.Result != nil && o.Result.Coverage != nil {
		covered = strconv.Itoa(len(o.Result.Coverage))
	}

	row := []string{name, status, duration, covered}

	if f.options.Wide {
		detail := ""
		if o.Err != nil {
			detail = o.Err.Error()
		} else if o.Result != nil {
			detail = strings.TrimSpace(o.Result.Output)
		}
		if len(detail) > 50 {
			detail = detail[:47] + "..."
		}
		row = append(row, detail)
	}

	return row
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// createTable creates a new table with compact, borderless configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints the aggregate run summary below the table
func (f *TableFormatter) printSummary(w io.Writer, outcomes []executor.Outcome, colors *ColorScheme) {
	s := executor.Summarize(outcomes)

	line := s.String()
	if !colors.Disabled && s.Failed > 0 {
		line = colors.Failed("%s", line)
	} else if !colors.Disabled {
		line = colors.Passed("%s", line)
	}

	fmt.Fprintf(w, "\n%s\n", line)
}
