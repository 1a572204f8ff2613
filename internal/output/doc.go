// Package output renders run outcomes in table, JSON, and YAML formats.
//
// The table formatter is the default: one row per task with status, duration,
// and covered-file count, a colored summary line underneath, and colors
// disabled automatically on non-TTY writers. The JSON and YAML formatters
// emit the same per-task view for machine consumption.
//
//	f := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	f.FormatOutcomes(os.Stdout, outcomes)
package output
