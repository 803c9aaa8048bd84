package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/stylegen/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	var generateCmd = &cobra.Command{
		Use:     "generate [patterns...]",
		Aliases: []string{"gen"},
		Short:   "expand class declarations",
		Long: "Expand every declaration file (//go:build stylegen) in the packages matched by the patterns\n" +
			"into a generated file next to it.",
		PreRunE: bindOptions,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(args)
			if err != nil {
				return err
			}
			slog.Log(c.Context(), LevelTrace, "options", "opts", opts)
			if opts.Watch {
				return generate.Watch(c.Context(), opts)
			}
			return generate.Run(c.Context(), opts)
		},
	}
	addOptionFlags(generateCmd)
	generateCmd.Flags().StringP("manifest", "m", "", "record generated files in this manifest")
	generateCmd.Flags().Bool("watch", false, "regenerate declaration files as they change")

	return generateCmd
}
