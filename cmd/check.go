package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/stylegen/pkg/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	var checkCmd = &cobra.Command{
		Use:     "check [patterns...]",
		Short:   "verify generated files are up to date",
		Long:    "Regenerate every declaration file in memory and report outputs that are missing or differ from disk.",
		PreRunE: bindOptions,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(args)
			if err != nil {
				return err
			}
			drifts, err := check.Run(c.Context(), opts)
			out := c.OutOrStdout()
			for _, d := range drifts {
				if d.Missing {
					_, _ = fmt.Fprintf(out, "%s: missing (run stylegen generate)\n", d.Output)
					continue
				}
				if d.Edited {
					_, _ = fmt.Fprintf(out, "%s: edited by hand (-on disk +expected)\n%s\n", d.Output, d.Diff)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s: stale (-on disk +expected)\n%s\n", d.Output, d.Diff)
			}
			return err
		},
	}
	addOptionFlags(checkCmd)

	return checkCmd
}
