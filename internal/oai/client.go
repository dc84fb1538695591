// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oai consumes an OAI-PMH metadata repository. Two verbs are
// used: ListIdentifiers to walk the repository and GetRecord to fetch one
// item's metadata in a named format. Response bodies are raw XML text.
package oai

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamlet/thesis-engine/internal/httputil"
	"github.com/hamlet/thesis-engine/pkg/types"
)

// Metadata formats the repository serves. None of them match the Dublin
// Core shown on the item pages, but rdf has the descriptive content we
// want and mets has the structural content.
const (
	FormatMETS = "mets"
	FormatRDF  = "rdf"
)

// oaiPrefix is stripped from OAI identifiers when deriving handles.
const oaiPrefix = "oai:dspace.mit.edu:"

// Item is one record header from ListIdentifiers.
type Item struct {
	// Handle is the OAI identifier with the repository prefix stripped
	// and slashes replaced by hyphens, e.g. "1721.1-39504".
	Handle string

	// Identifier is the handle with the collection prefix stripped,
	// e.g. "39504".
	Identifier string

	// Sets are the item's OAI set specs.
	Sets []string
}

// Client talks to one OAI-PMH endpoint.
type Client struct {
	endpoint         string
	identifierPrefix string
	http             *http.Client
	userAgent        string
}

// NewClient builds a client for cfg's endpoint. The HTTP timeout and
// User-Agent come from the embedded HTTPConfig.
func NewClient(cfg types.HarvestConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:         cfg.OAIEndpoint,
		identifierPrefix: cfg.OAIIdentifierPrefix,
		http:             &http.Client{Timeout: timeout},
		userAgent:        cfg.UserAgent,
	}
}

// ListIdentifiers fetches record headers, optionally bounded by from and
// until datestamps, in the given metadata format.
func (c *Client) ListIdentifiers(ctx context.Context, format, from, until string) ([]Item, error) {
	params := url.Values{
		"verb":           {"ListIdentifiers"},
		"metadataPrefix": {format},
	}
	if from != "" {
		params.Set("from", from)
	}
	if until != "" {
		params.Set("until", until)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ListIdentifiers: %w", err)
	}
	return ParseRecordList(body)
}

// GetRecord fetches one item's metadata in the named format.
func (c *Client) GetRecord(ctx context.Context, identifier, format string) (string, error) {
	params := url.Values{
		"verb":           {"GetRecord"},
		"identifier":     {c.identifierPrefix + identifier},
		"metadataPrefix": {format},
	}
	body, err := c.get(ctx, params)
	if err != nil {
		return "", fmt.Errorf("GetRecord %s (%s): %w", identifier, format, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

// recordList mirrors the ListIdentifiers response shape.
type recordList struct {
	Headers []struct {
		Identifier string   `xml:"identifier"`
		SetSpecs   []string `xml:"setSpec"`
	} `xml:"ListIdentifiers>header"`
}

// ParseRecordList extracts item headers from a ListIdentifiers response.
func ParseRecordList(recordXML string) ([]Item, error) {
	var list recordList
	if err := xml.Unmarshal([]byte(recordXML), &list); err != nil {
		return nil, fmt.Errorf("parsing record list: %w", err)
	}

	var items []Item
	for _, h := range list.Headers {
		handle := strings.ReplaceAll(
			strings.TrimPrefix(strings.TrimSpace(h.Identifier), oaiPrefix), "/", "-")
		items = append(items, Item{
			Handle:     handle,
			Identifier: strings.TrimPrefix(handle, "1721.1-"),
			Sets:       h.SetSpecs,
		})
	}
	return items, nil
}
