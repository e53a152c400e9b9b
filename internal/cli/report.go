package cli

import (
	"github.com/spf13/cobra"

	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/reporter"
	"github.com/fjglira/specrunner/internal/storage"
)

var reportCmd = &cobra.Command{
	Use:   "report [summary.json]",
	Short: "Re-render the report of a saved run",
	Long: `Reads a summary saved by "run --json" (or report.json_file) and prints
the same report the run printed. The exit status follows the saved run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.Report.JSONFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return domain.NewErrorWithSuggestion("report", "", 0, "no summary file given",
				"pass a file argument or set report.json_file in specrunner.yaml", nil)
		}

		summary, err := storage.NewJSONStorage(path).Load()
		if err != nil {
			return err
		}
		if err := reporter.WriteTo(cmd.OutOrStdout(), summary); err != nil {
			return domain.NewError("report", path, 0, "failed to write report", err)
		}
		if !summary.Succeeded() {
			return &ExitError{Code: summary.ExitCode()}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
