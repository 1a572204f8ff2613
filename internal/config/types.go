package config

// Config represents the testherd configuration file structure
type Config struct {
	// Workers is the executor pool size. A value of exactly 1 selects the
	// in-band sequential queue; anything above runs tasks in parallel.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty" mapstructure:"workers"`

	// UpdateSnapshots is the snapshot-update mode passed to every task
	// (none, new, all)
	UpdateSnapshots string `yaml:"updateSnapshots,omitempty" json:"updateSnapshots,omitempty" mapstructure:"updateSnapshots"`

	// TestNamePattern restricts which test names run (empty means all)
	TestNamePattern string `yaml:"testNamePattern,omitempty" json:"testNamePattern,omitempty" mapstructure:"testNamePattern"`

	// Coverage controls coverage collection and filtering
	Coverage Coverage `yaml:"coverage,omitempty" json:"coverage,omitempty" mapstructure:"coverage"`

	// Teardown names a registered hook to run once after all tasks settle
	Teardown string `yaml:"teardown,omitempty" json:"teardown,omitempty" mapstructure:"teardown"`

	// Projects lists the projects whose tasks a run dispatches
	Projects []Project `yaml:"projects,omitempty" json:"projects,omitempty" mapstructure:"projects"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}

// Coverage contains coverage collection settings
type Coverage struct {
	// Enabled indicates whether low-level coverage is collected
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty" mapstructure:"enabled"`

	// Provider identifies the coverage provider (e.g. profile)
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty" mapstructure:"provider"`

	// Include restricts filtered coverage to matching path globs,
	// relative to the project root (** crosses directories)
	Include []string `yaml:"include,omitempty" json:"include,omitempty" mapstructure:"include"`

	// Exclude drops matching path globs from filtered coverage
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty" mapstructure:"exclude"`
}

// Project represents configuration for a single project under test
type Project struct {
	// Name is the project identifier used as the task key
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// RootDir anchors the project's files; coverage entries outside it are
	// dropped during filtering
	RootDir string `yaml:"rootDir" json:"rootDir" mapstructure:"rootDir"`

	// Command is the test command executed for this project
	Command string `yaml:"command,omitempty" json:"command,omitempty" mapstructure:"command"`

	// Args are additional arguments for the test command
	Args []string `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`

	// CoverageFile is the path (relative to RootDir) where the command
	// writes raw coverage entries when coverage collection is requested
	CoverageFile string `yaml:"coverageFile,omitempty" json:"coverageFile,omitempty" mapstructure:"coverageFile"`
}
