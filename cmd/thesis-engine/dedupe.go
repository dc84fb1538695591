// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamlet/thesis-engine/internal/dedupe"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and resolve variant person-name forms",
	Long: `Dedupe flags person rows that may be the same human under different
name forms. Findings are advisory; nothing is merged until you run
"dedupe switch" with the two row IDs yourself.`,
}

var dedupeReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print possible duplicate persons for manual review",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		return dedupe.Report(s, os.Stdout)
	},
}

var dedupeSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Move one person's contributions to another and delete the duplicate",
	Long: `Switch repoints every contribution of --old to --new, keeping each
contribution's role, then deletes the old person row. Use the IDs from
"dedupe report" after confirming the two rows are the same human.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		oldID, _ := cmd.Flags().GetInt64("old")
		newID, _ := cmd.Flags().GetInt64("new")
		if oldID == 0 || newID == 0 {
			return fmt.Errorf("both --old and --new person IDs are required")
		}

		s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SwitchContributors(oldID, newID); err != nil {
			return err
		}
		fmt.Printf("Moved contributions from person %d to %d\n", oldID, newID)
		return nil
	},
}

func init() {
	dedupeSwitchCmd.Flags().Int64("old", 0, "person ID to merge away")
	dedupeSwitchCmd.Flags().Int64("new", 0, "person ID to keep")

	dedupeCmd.AddCommand(dedupeReportCmd)
	dedupeCmd.AddCommand(dedupeSwitchCmd)

	rootCmd.AddCommand(dedupeCmd)
}
