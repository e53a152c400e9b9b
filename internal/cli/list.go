package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/specrunner/internal/converter"
	"github.com/fjglira/specrunner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered context and case without running them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		r, err := newRunner(cfg, converter.NewConverter(&cfg.Commands))
		if err != nil {
			return err
		}
		reg, err := r.Load(cfg)
		if err != nil {
			return err
		}

		printTree(cmd.OutOrStdout(), reg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// printTree prints contexts in cyan and cases in yellow, marking cases
// without a body.
func printTree(w io.Writer, reg *registry.Registry) {
	color.New(color.FgGreen).Fprintf(w, "Found %d case(s):\n", reg.Count())

	reg.Walk(func(c *registry.Context, depth int) {
		if depth == 0 {
			return
		}
		indent := strings.Repeat("  ", depth-1)
		color.New(color.FgCyan).Fprintf(w, "%s%s\n", indent, c.Description)
		for _, cs := range c.Cases {
			line := fmt.Sprintf("%s  - %s (%s)", indent, cs.Description, cs.DisplayName())
			if cs.Body == nil {
				color.New(color.FgYellow).Fprint(w, line)
				color.New(color.FgRed).Fprintln(w, " [no body]")
				continue
			}
			color.New(color.FgYellow).Fprintln(w, line)
		}
	})
}
