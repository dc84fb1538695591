// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamlet/thesis-engine/internal/citations"
	"github.com/hamlet/thesis-engine/internal/refs"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Mine, persist, and clean bibliography citations",
	Long: `Citations runs the reference pipeline over the text corpus. Use
subcommands to extract raw references into a checkpoint, classify and
persist them, strip leading reference numbers, or delete garbage rows.`,
}

// --- extract subcommand ---

var citationsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract raw references from the text corpus into a checkpoint",
	Long: `Extract reads the tail of every corpus document in parallel, runs the
reference extractor over it, and checkpoints the raw results before any
classification happens. A crashed downstream run restarts from the
checkpoint instead of re-reading the corpus.`,
	RunE: runCitationsExtract,
}

func runCitationsExtract(cmd *cobra.Command, args []string) error {
	cfg := refsConfig(cmd)

	results, failures, err := refs.ExtractAll(cfg, refs.HeuristicExtractor{}, os.Stdout)
	if err != nil {
		return err
	}
	if err := refs.WriteCheckpoint(cfg.CheckpointPath, results); err != nil {
		return err
	}

	fmt.Printf("Extracted %d documents, %d failed; checkpoint at %s\n",
		len(results), len(failures), cfg.CheckpointPath)
	return nil
}

// --- populate subcommand ---

var citationsPopulateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Classify checkpointed references and store the good ones",
	Long: `Populate loads the extraction checkpoint, partitions references by the
field-count heuristic, repairs split fragments, and stores the surviving
references as citation rows keyed by thesis and raw text. Re-running is
idempotent.`,
	RunE: runCitationsPopulate,
}

func runCitationsPopulate(cmd *cobra.Command, args []string) error {
	cfg := refsConfig(cmd)

	results, err := refs.LoadCheckpoint(cfg.CheckpointPath)
	if err != nil {
		return err
	}
	good := refs.FindAll(results, refs.HeuristicExtractor{}, os.Stdout)

	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := citations.Populate(s, good, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Considered %d references: %d created, %d existing, %d overlong, %d failed\n",
		summary.Total(), summary.Created, summary.Existing, summary.Overlong, summary.Failed)
	if summary.NoThesis > 0 || summary.BadLabel > 0 {
		fmt.Printf("Skipped documents: %d without a thesis row, %d with unparseable labels\n",
			summary.NoThesis, summary.BadLabel)
	}
	return nil
}

// --- clean subcommand ---

var citationsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete citation rows that look like extraction garbage",
	Long: `Clean applies the ordered garbage heuristics to every stored citation
and deletes the matches: equation-like punctuation ratios, lowercase
debris, all-caps captions, markup residue, and low-confidence fragments.`,
	RunE: runCitationsClean,
}

func runCitationsClean(cmd *cobra.Command, args []string) error {
	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := citations.Clean(s, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Kept %d citations, deleted %d\n", summary.Kept, summary.Deleted)
	for rule, n := range summary.ByRule {
		fmt.Printf("  %s: %d\n", rule, n)
	}
	return nil
}

// --- strip-numbering subcommand ---

var citationsStripCmd = &cobra.Command{
	Use:   "strip-numbering",
	Short: "Remove leading reference numbers from stored citations",
	RunE:  runCitationsStrip,
}

func runCitationsStrip(cmd *cobra.Command, args []string) error {
	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := citations.StripAllNumbering(s, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d citations, %d already clean\n", summary.Updated, summary.Unchanged)
	return nil
}

// --- shared helpers ---

func refsConfig(cmd *cobra.Command) types.RefsConfig {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	checkpoint, _ := cmd.Flags().GetString("checkpoint")
	maxFiles, _ := cmd.Flags().GetInt("max-files")
	workers, _ := cmd.Flags().GetInt("workers")
	tailLines, _ := cmd.Flags().GetInt("tail-lines")

	return types.RefsConfig{
		CorpusDir:      corpusDir,
		CheckpointPath: checkpoint,
		MaxFiles:       maxFiles,
		Workers:        workers,
		TailLines:      tailLines,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	citationsCmd.PersistentFlags().String("corpus-dir", "corpus", "directory of per-thesis text files")
	citationsCmd.PersistentFlags().String("checkpoint", "corpus/refs-checkpoint.yaml", "extraction checkpoint path")

	// Extract flags.
	citationsExtractCmd.Flags().Int("max-files", 0, "stop after this many documents (0 = all)")
	citationsExtractCmd.Flags().Int("workers", 0, "extraction workers (0 = one per core)")
	citationsExtractCmd.Flags().Int("tail-lines", 0, "document tail lines to scan (0 = default 1000)")

	// Wire subcommands.
	citationsCmd.AddCommand(citationsExtractCmd)
	citationsCmd.AddCommand(citationsPopulateCmd)
	citationsCmd.AddCommand(citationsCleanCmd)
	citationsCmd.AddCommand(citationsStripCmd)

	rootCmd.AddCommand(citationsCmd)
}
