package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/cmmoran/stylegen/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(NewListCommand())
}

func NewListCommand() *cobra.Command {
	var (
		manifestPath string
		tree         bool
	)

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "list generated classes",
		Long:  "Print the outputs and classes recorded in a manifest written by generate --manifest.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			if tree {
				return printTree(c.OutOrStdout(), m)
			}
			return printManifest(c.OutOrStdout(), m)
		},
	}
	listCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "stylegen.lock", "manifest to read")
	listCmd.Flags().BoolVarP(&tree, "tree", "t", false, "print outputs, classes and properties as a tree")

	return listCmd
}

func printManifest(w io.Writer, m *manifest.Manifest) error {
	if _, err := fmt.Fprintf(w, "%s in %s\n", counted(m.ClassCount(), "class"), counted(len(m.Outputs), "file")); err != nil {
		return err
	}
	for _, o := range m.Outputs {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", o.Source, o.File); err != nil {
			return err
		}
		for _, c := range o.Classes {
			if _, err := fmt.Fprintf(w, "  %s: %s %s\n", c.Name, counted(len(c.Properties), "property"), strings.Join(c.Properties, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// printTree renders m as source -> class -> property branches.
func printTree(w io.Writer, m *manifest.Manifest) error {
	root := treeprint.NewWithRoot(fmt.Sprintf("%s in %s", counted(m.ClassCount(), "class"), counted(len(m.Outputs), "file")))
	for _, o := range m.Outputs {
		branch := root.AddBranch(o.Source + " -> " + o.File)
		for _, c := range o.Classes {
			class := branch.AddBranch(c.Name)
			for _, p := range c.Properties {
				class.AddNode(p)
			}
		}
	}
	_, err := io.WriteString(w, root.String())
	return err
}

// counted renders n with noun, pluralized unless n is 1.
func counted(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
