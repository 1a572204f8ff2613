// Package runner provides the default task handler: it executes each
// project's configured test command and collects its raw coverage output.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rajatverma/testherd/internal/config"
	"github.com/rajatverma/testherd/internal/executor"
	"github.com/rajatverma/testherd/internal/util"
)

// Mode environment variables exported to every test command.
const (
	EnvUpdateSnapshots = "TESTHERD_UPDATE_SNAPSHOTS"
	EnvTestNamePattern = "TESTHERD_TEST_NAME_PATTERN"
	EnvCollectCoverage = "TESTHERD_COVERAGE"
)

// commandHandler runs one project's test command per payload
type commandHandler struct {
	cfg *config.Config
	env map[string]string
}

// NewFactory returns a HandlerFactory producing command handlers bound to the
// run configuration. The env overlay, when present, is exported to every
// command the handler spawns.
func NewFactory(cfg *config.Config) executor.HandlerFactory {
	return func(env map[string]string) (executor.Handler, error) {
		if cfg == nil {
			return nil, util.WrapErrorf(util.ErrInvalidConfig, "runner requires a configuration")
		}
		return &commandHandler{cfg: cfg, env: env}, nil
	}
}

// Execute runs the project's test command. A command that starts and exits
// non-zero is a completed task with failing tests; a command that cannot be
// started at all is a task-level error.
func (h *commandHandler) Execute(ctx context.Context, p executor.Payload) (*executor.Result, error) {
	proj, ok := h.cfg.ProjectByName(p.TaskID)
	if !ok {
		return nil, util.WrapErrorf(util.ErrProjectNotFound, "%q", p.TaskID)
	}
	if proj.Command == "" {
		return nil, fmt.Errorf("project %q has no test command", proj.Name)
	}

	cmd := exec.CommandContext(ctx, proj.Command, proj.Args...)
	cmd.Dir = proj.RootDir
	cmd.Env = h.commandEnv(p)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run test command for %q: %w", proj.Name, err)
		}
	}

	res := &executor.Result{
		TaskID: p.TaskID,
		Passed: err == nil,
		Output: output.String(),
	}

	if p.CollectCoverage {
		entries, covErr := readCoverage(filepath.Join(proj.RootDir, proj.CoverageFile))
		if covErr == nil {
			res.RawCoverage = entries
		}
	}

	return res, nil
}

// commandEnv builds the child environment: the caller's environment, the
// pool's worker overlay, and the payload's mode variables.
func (h *commandHandler) commandEnv(p executor.Payload) []string {
	env := os.Environ()
	for k, v := range h.env {
		env = append(env, k+"="+v)
	}
	env = append(env, EnvUpdateSnapshots+"="+p.UpdateSnapshots)
	if p.TestNamePattern != "" {
		env = append(env, EnvTestNamePattern+"="+p.TestNamePattern)
	}
	if p.CollectCoverage {
		env = append(env, EnvCollectCoverage+"=1")
	}
	return env
}

// readCoverage parses the raw coverage entries a test command wrote to disk
func readCoverage(path string) ([]executor.CoverageEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []executor.CoverageEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse coverage file %s: %w", path, err)
	}
	return entries, nil
}
