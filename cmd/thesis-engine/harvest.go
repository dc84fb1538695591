// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamlet/thesis-engine/internal/metadata"
	"github.com/hamlet/thesis-engine/internal/oai"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "thesis-engine/0.1"
	defaultEndpoint  = "https://dspace.mit.edu/oai/request"
	defaultOAIPrefix = "oai:dspace.mit.edu:1721.1/"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Ingest thesis metadata from the OAI-PMH repository",
	Long: `Harvest walks the repository with ListIdentifiers, fetches METS and RDF
metadata for every item in a known thesis collection, and stores thesis,
person, and department records. Already-ingested identifiers are skipped,
so incremental runs with --from/--until are cheap.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("endpoint", "", "OAI-PMH endpoint URL")
	harvestCmd.Flags().String("set-list", "resources/thesis-sets.yaml", "YAML table of thesis collection set specs")
	harvestCmd.Flags().String("from", "", "earliest datestamp to harvest (YYYY-MM-DD)")
	harvestCmd.Flags().String("until", "", "latest datestamp to harvest (YYYY-MM-DD)")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	if endpoint == "" {
		endpoint = viper.GetString("oai_endpoint")
	}
	endpoint = secretDefault("oai-endpoint", endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	setListPath, _ := cmd.Flags().GetString("set-list")
	from, _ := cmd.Flags().GetString("from")
	until, _ := cmd.Flags().GetString("until")

	cfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		OAIEndpoint:         endpoint,
		OAIIdentifierPrefix: defaultOAIPrefix,
		SetListPath:         setListPath,
		From:                from,
		Until:               until,
	}

	setList, err := metadata.LoadSetList(cfg.SetListPath)
	if err != nil {
		return err
	}

	s, err := store.Open(types.StoreConfig{DBPath: dbPath(cmd)})
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := oai.Harvest(context.Background(), oai.NewClient(cfg), setList,
		metadata.NewWriter(s), cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Harvested %d items: %d created, %d skipped, %d rejected, %d failed\n",
		summary.Total(), summary.Created, summary.Skipped, summary.Rejected, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d item(s) failed harvesting", summary.Failed)
	}
	return nil
}
