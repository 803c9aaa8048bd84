package parser

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cmmoran/stylegen/internal/generator"
)

// Options control discovery, generation and output.
//
// InDir        – directory patterns are resolved against
// Patterns     – package patterns to search for declaration files (default ./...)
// OutSuffix    – appended to a declaration file's base name, para.go → para_gen.go
// RuntimePkg   – import path of the style runtime referenced by generated code
// Workers      – files generated concurrently; <= 0 means GOMAXPROCS
// ManifestPath – where generated outputs are recorded, empty disables the manifest
// AssertSetter – emit `var _ style.Setter = (*T)(nil)` for non-generic classes
// Exclude      – file name globs (filepath.Match) of declaration files to skip
// Watch        – keep running and regenerate on change
// Scan         – find declaration files by reading directories instead of running the go command
type Options struct {
	InDir        string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Patterns     []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty" mapstructure:"patterns,omitempty"`
	OutSuffix    string   `json:"out_suffix,omitempty" yaml:"out_suffix,omitempty" toml:"out_suffix,omitempty" mapstructure:"out_suffix,omitempty"`
	RuntimePkg   string   `json:"runtime_pkg,omitempty" yaml:"runtime_pkg,omitempty" toml:"runtime_pkg,omitempty" mapstructure:"runtime_pkg,omitempty"`
	Workers      int      `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" mapstructure:"workers,omitempty"`
	ManifestPath string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	AssertSetter bool     `json:"assert_setter,omitempty" yaml:"assert_setter,omitempty" toml:"assert_setter,omitempty" mapstructure:"assert_setter,omitempty"`
	Exclude      []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude,omitempty"`
	Watch        bool     `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty" mapstructure:"watch,omitempty"`
	Scan         bool     `json:"scan,omitempty" yaml:"scan,omitempty" toml:"scan,omitempty" mapstructure:"scan,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:        ".",
		Patterns:     []string{"./..."},
		OutSuffix:    generator.DefaultSuffix,
		RuntimePkg:   generator.DefaultRuntimePkg,
		Workers:      runtime.GOMAXPROCS(0),
		ManifestPath: "",
		AssertSetter: true,
	}
}

// Normalize fills in defaults for zero values and validates the rest.
func (o *Options) Normalize() error {
	if o.InDir == "" {
		o.InDir = "."
	}
	if strings.Contains(o.InDir, ".") {
		o.InDir, _ = filepath.Abs(o.InDir)
	}
	if len(o.Patterns) == 0 {
		o.Patterns = []string{"./..."}
	}
	if o.OutSuffix == "" {
		o.OutSuffix = generator.DefaultSuffix
	}
	if strings.ContainsRune(o.OutSuffix, filepath.Separator) {
		return fmt.Errorf("out suffix %q must not contain a path separator", o.OutSuffix)
	}
	if o.RuntimePkg == "" {
		o.RuntimePkg = generator.DefaultRuntimePkg
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ManifestPath != "" && !filepath.IsAbs(o.ManifestPath) {
		o.ManifestPath = filepath.Join(o.InDir, o.ManifestPath)
	}
	for _, pattern := range o.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Excluded reports whether the declaration file at path matches one of the
// exclude globs. Globs are matched against the base name.
func (o *Options) Excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range o.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// OutputPath is the file generated for the declaration file at path.
func (o *Options) OutputPath(path string) string {
	return generator.OutputName(path, o.OutSuffix)
}

// GeneratorConfig is the generator configuration for one output file.
func (o *Options) GeneratorConfig(output string) generator.Config {
	return generator.Config{
		RuntimePkg:   o.RuntimePkg,
		Filename:     output,
		AssertSetter: o.AssertSetter,
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option       { return func(o *Options) { o.InDir = d } }
func WithPatterns(p ...string) Option { return func(o *Options) { o.Patterns = p } }
func WithOutSuffix(s string) Option   { return func(o *Options) { o.OutSuffix = s } }
func WithRuntimePkg(p string) Option  { return func(o *Options) { o.RuntimePkg = p } }
func WithWorkers(n int) Option        { return func(o *Options) { o.Workers = n } }
func WithManifest(path string) Option { return func(o *Options) { o.ManifestPath = path } }
func WithoutSetterAssertion() Option  { return func(o *Options) { o.AssertSetter = false } }
func WithWatch() Option               { return func(o *Options) { o.Watch = true } }
func WithScan() Option                { return func(o *Options) { o.Scan = true } }
func WithExclude(globs ...string) Option {
	return func(o *Options) {
		for _, g := range globs {
			o.Exclude = append(o.Exclude, strings.TrimSpace(g))
		}
	}
}

// Apply applies opts in order.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}
