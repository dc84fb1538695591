// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oai

import (
	"context"
	"fmt"
	"io"

	"github.com/hamlet/thesis-engine/internal/metadata"
	"github.com/hamlet/thesis-engine/pkg/types"
)

// Source lists repository items and fetches their metadata. *Client
// satisfies it; tests substitute a canned source.
type Source interface {
	ListIdentifiers(ctx context.Context, format, from, until string) ([]Item, error)
	GetRecord(ctx context.Context, identifier, format string) (string, error)
}

// HarvestSummary counts the outcomes of one harvest run.
type HarvestSummary struct {
	Created  int
	Skipped  int
	Rejected int
	Failed   int
}

// Total returns the number of items processed.
func (s HarvestSummary) Total() int {
	return s.Created + s.Skipped + s.Rejected + s.Failed
}

// HasFailures reports whether any item could not be fetched or parsed.
func (s HarvestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Harvest walks the repository, fetches metadata for every item in a
// thesis collection, and writes each record through w. Items outside
// thesis collections are ignored without being counted. Fetch and parse
// errors are reported on progress and counted, not fatal.
func Harvest(ctx context.Context, src Source, setList metadata.SetList, w *metadata.Writer, cfg types.HarvestConfig, progress io.Writer) (HarvestSummary, error) {
	items, err := src.ListIdentifiers(ctx, FormatMETS, cfg.From, cfg.Until)
	if err != nil {
		return HarvestSummary{}, fmt.Errorf("listing identifiers: %w", err)
	}

	var summary HarvestSummary
	for _, item := range items {
		if !setList.IsThesis(item.Sets) {
			continue
		}

		outcome, err := harvestOne(ctx, src, setList, w, item)
		if err != nil {
			summary.Failed++
			fmt.Fprintf(progress, "harvest %s: %v\n", item.Handle, err)
			continue
		}

		switch outcome {
		case metadata.OutcomeCreated:
			summary.Created++
			fmt.Fprintf(progress, "created %s\n", item.Handle)
		case metadata.OutcomeSkipped:
			summary.Skipped++
		case metadata.OutcomeRejected:
			summary.Rejected++
			fmt.Fprintf(progress, "rejected %s: incomplete metadata\n", item.Handle)
		}
	}
	return summary, nil
}

func harvestOne(ctx context.Context, src Source, setList metadata.SetList, w *metadata.Writer, item Item) (metadata.WriteOutcome, error) {
	rdfXML, err := src.GetRecord(ctx, item.Identifier, FormatRDF)
	if err != nil {
		return "", err
	}
	metsXML, err := src.GetRecord(ctx, item.Identifier, FormatMETS)
	if err != nil {
		return "", err
	}

	rec, err := metadata.ExtractRecord(rdfXML, metsXML, item.Sets, setList)
	if err != nil {
		return "", err
	}
	return w.Write(rec)
}
