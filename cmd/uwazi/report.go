package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uwazi/transparency-engine/api"
	"github.com/uwazi/transparency-engine/config"
	"github.com/uwazi/transparency-engine/report"
	"github.com/uwazi/transparency-engine/transparency"
)

// =============================================================================
// SUMMARY
// =============================================================================

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the overview figures as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	store, err := config.OpenDataset(cmd.Context(), cfg.Dataset)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewSummaryDTO(store.Overview()))
}

// =============================================================================
// EXPORT
// =============================================================================

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := config.OpenDataset(cmd.Context(), cfg.Dataset)
	if err != nil {
		return err
	}
	if err := report.WriteFile(store, exportOut); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
	return nil
}

// =============================================================================
// CHECK
// =============================================================================

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the integrity report",
	Long: `Lists states the dataset permits but a reviewer should look at: blacklisted
contractors on projects, overspend, overdisbursement, conflicting awards and
references that resolve to nothing. Findings do not change the exit status.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	store, err := config.OpenDataset(cmd.Context(), cfg.Dataset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := transparency.Inspect(store)
	if len(issues) == 0 {
		fmt.Fprintln(out, "No integrity issues found")
		return nil
	}
	for _, is := range issues {
		fmt.Fprintf(out, "%-24s %-12s %-24s %s\n", is.Kind, is.Entity, is.EntityID, is.Message)
	}
	fmt.Fprintf(out, "%d issue(s)\n", len(issues))
	return nil
}
