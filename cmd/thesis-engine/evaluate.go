// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamlet/thesis-engine/internal/neural"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Rank trained embedding models against the advisor graph",
	Long: `Evaluate draws tuples of theses where two share an advisor and a third
does not, then scores every model in the models directory by how far it
separates the shared-advisor pair from the outsider. Models are printed
best-first; higher scores mean better topical separation.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("models-dir", "models", "directory of realized .gob models")
	evaluateCmd.Flags().String("corpus-dir", "corpus", "directory of per-thesis text files")
	evaluateCmd.Flags().Int("max-tuples", 0, "tuples to draw (0 = default 50)")
	evaluateCmd.Flags().Int64("seed", 0, "tuple-selection seed (0 = random)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	modelsDir, _ := cmd.Flags().GetString("models-dir")
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	maxTuples, _ := cmd.Flags().GetInt("max-tuples")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = rand.Int63()
	}

	cfg := types.EvalConfig{
		ModelsDir: modelsDir,
		CorpusDir: corpusDir,
		MaxTuples: maxTuples,
	}

	models, err := neural.LoadModels(cfg.ModelsDir)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return fmt.Errorf("no models in %s", cfg.ModelsDir)
	}

	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	tuples, err := neural.SelectTuples(s, rand.New(rand.NewSource(seed)), cfg.MaxTuples)
	if err != nil {
		return err
	}
	if len(tuples) == 0 {
		return fmt.Errorf("no advisor has two or more theses: nothing to evaluate")
	}

	scores := neural.NewEvaluator(cfg.CorpusDir).EvaluateAll(models, tuples, os.Stderr)

	fmt.Printf("%-30s  %10s  %7s  %7s\n", "Model", "Score", "Scored", "Skipped")
	for _, sc := range scores {
		fmt.Printf("%-30s  %10.4f  %7d  %7d\n", sc.Name, sc.Score, sc.Scored, sc.Skipped)
	}
	return nil
}
