package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/stylegen/pkg/parser"
)

// optionFlags maps option keys (as they appear in the config file) to the
// flags that override them.
var optionFlags = map[string]string{
	"in_dir":        "input-directory",
	"out_suffix":    "suffix",
	"runtime_pkg":   "runtime",
	"workers":       "workers",
	"manifest":      "manifest",
	"assert_setter": "assert-setter",
	"exclude":       "exclude",
	"watch":         "watch",
	"scan":          "scan",
}

// addOptionFlags registers the generation flags on c. Defaults mirror
// parser.NewOptions.
func addOptionFlags(c *cobra.Command) {
	d := parser.NewOptions()
	flags := c.Flags()
	flags.StringP("input-directory", "i", d.InDir, "directory patterns are resolved against")
	flags.String("suffix", d.OutSuffix, "suffix appended to a declaration file's name for its output")
	flags.String("runtime", d.RuntimePkg, "import path of the style runtime package")
	flags.IntP("workers", "w", 0, "files generated concurrently (0 = GOMAXPROCS)")
	flags.Bool("assert-setter", d.AssertSetter, "emit a style.Setter assertion for non-generic classes")
	flags.StringSliceP("exclude", "x", []string{}, "declaration file name globs to skip")
	flags.Bool("scan", false, "read directories for declaration files instead of running the go command")
}

// bindOptions points the option keys at c's flags. It runs before each
// command so that only the running command's flags are bound.
func bindOptions(c *cobra.Command, _ []string) error {
	for key, name := range optionFlags {
		f := c.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}
	return nil
}

// loadOptions merges config, environment and flags into normalized options.
// Positional arguments replace the configured package patterns.
func loadOptions(args []string) (*parser.Options, error) {
	opts := parser.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	if len(args) > 0 {
		opts.Patterns = args
	}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return opts, nil
}
