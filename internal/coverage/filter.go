// Package coverage post-processes raw per-task coverage data before it is
// handed upstream. Filtering is best-effort: malformed entries are dropped,
// never fatal.
package coverage

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rajatverma/testherd/internal/config"
	"github.com/rajatverma/testherd/internal/executor"
)

// Predicate decides whether a source file is eligible for instrumentation.
// It is supplied by the caller; coverage filtering applies it to every entry
// that survives the location checks.
type Predicate func(path string, opts config.Coverage, project *config.Project) bool

// Filter reduces a task result's raw coverage payload to the entries relevant
// to the project: local-file entries under the project root that the
// eligibility predicate accepts, each converted from URL form to plain path
// form and wrapped for upstream reporters.
//
// A result with no raw coverage is returned unchanged. The input is never
// mutated; a filtered result is a fresh copy. A nil predicate accepts every
// path.
func Filter(res *executor.Result, project *config.Project, opts config.Coverage, eligible Predicate) *executor.Result {
	if res == nil || res.RawCoverage == nil {
		return res
	}

	filtered := make([]executor.WrappedCoverage, 0, len(res.RawCoverage))
	for _, entry := range res.RawCoverage {
		path, ok := localPath(entry.URL)
		if !ok {
			continue
		}
		if project != nil && !underRoot(project.RootDir, path) {
			continue
		}
		if eligible != nil && !eligible(path, opts, project) {
			continue
		}
		// Surviving entries carry the plain path; entry is a copy, so the
		// input's URL form is untouched.
		entry.URL = path
		filtered = append(filtered, executor.WrappedCoverage{Result: entry})
	}

	out := *res
	out.RawCoverage = nil
	out.Coverage = filtered
	return &out
}

// localPath converts a source-location identifier from URL form to a plain
// path. Anything that is not a well-formed local-file reference (built-in or
// remote sources, unparseable identifiers) is reported as ineligible.
func localPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// underRoot reports whether path lies within root.
func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ScopePredicate builds a Predicate from the include/exclude globs in the
// coverage configuration. Globs match against the slash-separated path
// relative to the project root and support `**` for crossing directories
// (e.g. `vendor/**` excludes everything under vendor/). An empty include
// list matches everything; excludes win over includes.
func ScopePredicate() Predicate {
	return func(path string, opts config.Coverage, project *config.Project) bool {
		rel := path
		if project != nil {
			if r, err := filepath.Rel(project.RootDir, path); err == nil {
				rel = r
			}
		}
		rel = filepath.ToSlash(rel)

		for _, glob := range opts.Exclude {
			if matched, err := doublestar.Match(glob, rel); err == nil && matched {
				return false
			}
		}

		if len(opts.Include) == 0 {
			return true
		}
		for _, glob := range opts.Include {
			if matched, err := doublestar.Match(glob, rel); err == nil && matched {
				return true
			}
		}
		return false
	}
}
