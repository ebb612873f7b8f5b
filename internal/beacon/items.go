// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// Collections served by the data item endpoint.
const (
	CollectionBiosamples  = "biosamples"
	CollectionIndividuals = "individuals"
)

// ErrNotFound is returned when a details lookup yields no record.
var ErrNotFound = errors.New("no matching record")

// SampleURL returns the beacon URL for one biosample.
func (c *Client) SampleURL(id, datasetIDs string) string {
	return c.endpoint(beaconPath,
		param("scope", CollectionBiosamples),
		param("id", id),
		param("datasetIds", datasetIDs),
	)
}

// Sample fetches one biosample through the beacon query endpoint.
func (c *Client) Sample(ctx context.Context, id, datasetIDs string) (*types.BeaconResponse, error) {
	var resp types.BeaconResponse
	if err := c.fetch.GetJSON(ctx, c.SampleURL(id, datasetIDs), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DataItemURL returns the URL of a single record in a collection.
func (c *Client) DataItemURL(id, collection, datasetIDs string) string {
	return c.endpoint("beacon/"+collection+"/"+id+"/", param("datasetIds", datasetIDs))
}

// DataItem fetches a single record of a collection.
func (c *Client) DataItem(ctx context.Context, id, collection, datasetIDs string) (*types.BeaconResponse, error) {
	var resp types.BeaconResponse
	if err := c.fetch.GetJSON(ctx, c.DataItemURL(id, collection, datasetIDs), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Biosample fetches the details of one biosample. It returns ErrNotFound
// when the reply carries no results.
func (c *Client) Biosample(ctx context.Context, id, datasetIDs string) (*types.Biosample, error) {
	resp, err := c.DataItem(ctx, id, CollectionBiosamples, datasetIDs)
	if err != nil {
		return nil, err
	}
	return FirstBiosample(resp)
}

// FirstBiosample returns the first record of the first result set.
func FirstBiosample(resp *types.BeaconResponse) (*types.Biosample, error) {
	if resp == nil || len(resp.ResultSets) == 0 {
		return nil, ErrNotFound
	}
	samples, err := resp.ResultSets[0].Biosamples()
	if err != nil {
		return nil, fmt.Errorf("decoding biosamples: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrNotFound
	}
	return &samples[0], nil
}

// Individual fetches the details of one individual. Individuals come in
// the single-record data envelope; a reply with more than one error is
// treated as failed.
func (c *Client) Individual(ctx context.Context, id, datasetIDs string) (*types.Individual, error) {
	resp, err := c.DataItem(ctx, id, CollectionIndividuals, datasetIDs)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrNotFound
	}
	if len(resp.Errors) > 1 {
		return nil, fmt.Errorf("the request returned errors: %s", strings.Join(resp.Errors, "; "))
	}
	var ind types.Individual
	if err := json.Unmarshal(resp.Data, &ind); err != nil {
		return nil, fmt.Errorf("decoding individual: %w", err)
	}
	return &ind, nil
}

// referencePrefixes maps external reference prefixes to URL templates.
var referencePrefixes = map[string]string{
	"pmid":         "https://europepmc.org/article/MED/%s",
	"geo":          "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc=%s",
	"cellosaurus":  "https://www.cellosaurus.org/%s",
	"arrayexpress": "https://www.ebi.ac.uk/arrayexpress/experiments/%s",
}

// ReferenceLink returns a browsable URL for an external reference such as
// "PMID:28966033", or "" when the prefix is unknown.
func ReferenceLink(ref types.Term) string {
	prefix, local, ok := strings.Cut(ref.ID, ":")
	if !ok || local == "" {
		return ""
	}
	tmpl, ok := referencePrefixes[strings.ToLower(prefix)]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, local)
}
