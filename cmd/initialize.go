package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/stylegen/pkg/action/initialize"
)

func init() {
	var initializeCmd = NewInitCommand()
	rootCmd.AddCommand(initializeCmd)
}

func NewInitCommand() *cobra.Command {
	var (
		force  bool
		format string
	)

	// initCmd represents the stylegen init command
	var initCmd = &cobra.Command{
		Use:     "init",
		Short:   "write a stylegen config file",
		Long:    "Write a stylegen.yaml (or stylegen.toml) holding the current options to the input directory.",
		Args:    cobra.NoArgs,
		PreRunE: bindOptions,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(args)
			if err != nil {
				return err
			}
			path, err := initialize.Generate(opts.InDir, opts, format, force)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), path)
			return err
		},
	}
	addOptionFlags(initCmd)
	initCmd.Flags().StringP("manifest", "m", "", "manifest path to record in the config")
	initCmd.Flags().StringVar(&format, "format", "yaml", "config format: yaml or toml")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")

	return initCmd
}
