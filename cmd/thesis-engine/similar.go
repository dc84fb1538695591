// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamlet/thesis-engine/internal/neural"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Query a trained model for similar theses",
	Long: `Similar answers similarity queries against one realized model. Query by
corpus label for a thesis the model was trained on, or by --file to rank
the corpus against an arbitrary text document (an uploaded draft, say).
Matches below the similarity floor are never shown.`,
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().String("model", "", "path to a realized .gob model (required)")
	similarCmd.Flags().String("label", "", "corpus label to query, e.g. 1721.1-39504.txt")
	similarCmd.Flags().String("file", "", "text file to rank against the corpus")
	similarCmd.Flags().Int("topn", 0, "maximum matches (0 = default 50)")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	modelPath, _ := cmd.Flags().GetString("model")
	label, _ := cmd.Flags().GetString("label")
	file, _ := cmd.Flags().GetString("file")
	topn, _ := cmd.Flags().GetInt("topn")

	if modelPath == "" {
		return fmt.Errorf("--model is required")
	}
	if (label == "") == (file == "") {
		return fmt.Errorf("provide exactly one of --label or --file")
	}

	m, err := neural.LoadModel(modelPath)
	if err != nil {
		return err
	}

	var matches []neural.Match
	if label != "" {
		matches, err = neural.MostSimilar(m, label, topn)
	} else {
		var text []byte
		text, err = os.ReadFile(file)
		if err == nil {
			matches, err = neural.SimilarToText(m, string(text), topn)
		}
	}
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches above the similarity floor.")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("%.4f  %s\n", match.Similarity, match.Label)
	}
	return nil
}
