// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamlet/thesis-engine/internal/corpus"
	"github.com/hamlet/thesis-engine/internal/pdftext"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

var trainCorpusCmd = &cobra.Command{
	Use:   "train-corpus",
	Short: "Build the plain-text training corpus from thesis PDFs",
	Long: `Train-corpus downloads the PDF of every extractable thesis, pulls its
text layer, and writes one corpus file per thesis. Documents that cannot
be fetched or carry no text (scans) are flagged unextractable and never
retried. The corpus is then copied into training and test directories on
a fixed 3/1/6 weighting; pass --seed to reproduce a split.`,
	RunE: runTrainCorpus,
}

func init() {
	trainCorpusCmd.Flags().String("corpus-dir", "corpus", "directory for per-thesis text files")
	trainCorpusCmd.Flags().String("training-dir", "corpus-training", "directory for the training split")
	trainCorpusCmd.Flags().String("test-dir", "corpus-test", "directory for the test split")
	trainCorpusCmd.Flags().Int64("seed", 0, "shuffle seed for the split (0 = random)")
	trainCorpusCmd.Flags().Bool("skip-split", false, "build corpus files without re-splitting")
	trainCorpusCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 5m)")

	rootCmd.AddCommand(trainCorpusCmd)
}

func runTrainCorpus(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	trainingDir, _ := cmd.Flags().GetString("training-dir")
	testDir, _ := cmd.Flags().GetString("test-dir")
	seed, _ := cmd.Flags().GetInt64("seed")
	skipSplit, _ := cmd.Flags().GetBool("skip-split")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := types.CorpusConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		CorpusDir:   corpusDir,
		TrainingDir: trainingDir,
		TestDir:     testDir,
	}

	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	builder := corpus.NewBuilder(s, pdftext.New(), cfg)
	summary, err := builder.Build(context.Background(), cfg.CorpusDir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Corpus: %d written, %d existing, %d failed\n",
		summary.Written, summary.Existing, summary.Failed)

	if skipSplit {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	if seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	split, err := corpus.Split(cfg.CorpusDir, cfg.TrainingDir, cfg.TestDir, rng, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Split: %d training, %d test, %d discarded\n",
		split.Training, split.Test, split.Discarded)

	if summary.HasFailures() {
		return fmt.Errorf("%d thesis PDF(s) failed extraction", summary.Failed)
	}
	return nil
}
