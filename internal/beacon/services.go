// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/beacon-query/internal/httputil"
	"github.com/pdiddy/beacon-query/pkg/types"
)

const (
	geneSpansPath    = "cgi/bycon/bin/genespans.py"
	cytomapperPath   = "cgi/bycon/bin/cytomapper.py"
	collationsPath   = "cgi/bycon/bin/collations.py"
	ontologymapsPath = "services/ontologymaps"
	datasetIDsPath   = "/cgi/bycon/bin/byconplus.py/get-datasetids/"
)

// GeneSpansURL returns the gene coordinate lookup URL.
func (c *Client) GeneSpansURL(geneID string) string {
	return c.endpoint(geneSpansPath, param("geneId", geneID))
}

// GeneSpans looks up gene coordinates. The service does not label its
// reply as JSON, so the body is read as text and validated.
func (c *Client) GeneSpans(ctx context.Context, geneID string) (json.RawMessage, error) {
	if geneID == "" {
		return nil, ErrEmptyQuery
	}
	u := c.GeneSpansURL(geneID)
	text, err := c.fetch.GetText(ctx, u)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("parsing reply from %s: not JSON", u)
	}
	return json.RawMessage(text), nil
}

// CytomapperURL returns the cytoband lookup URL.
func (c *Client) CytomapperURL(cytoBands string) string {
	return c.endpoint(cytomapperPath, param("cytoBands", cytoBands))
}

// Cytomapper resolves cytobands to genomic coordinates.
func (c *Client) Cytomapper(ctx context.Context, cytoBands string) (json.RawMessage, error) {
	if cytoBands == "" {
		return nil, ErrEmptyQuery
	}
	var raw json.RawMessage
	if err := c.fetch.GetJSON(ctx, c.CytomapperURL(cytoBands), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CollationsURL returns the collations URL.
func (c *Client) CollationsURL(datasetIDs, method, filters string) string {
	return c.endpoint(collationsPath,
		param("datasetIds", datasetIDs),
		param("method", method),
		param("filters", filters),
		param("responseFormat", "simplelist"),
	)
}

// Collations fetches subset summaries. A reply that is not a list, as
// sent on service errors, yields nil without error.
func (c *Client) Collations(ctx context.Context, datasetIDs, method, filters string) ([]types.Collation, error) {
	var raw json.RawMessage
	if err := c.fetch.GetJSON(ctx, c.CollationsURL(datasetIDs, method, filters), &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}
	var out []types.Collation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding collations: %w", err)
	}
	return out, nil
}

// CollationsByID fetches the counts of all collations of the datasets
// keyed by collation id.
func (c *Client) CollationsByID(ctx context.Context, datasetIDs string) (map[string]types.Collation, error) {
	list, err := c.Collations(ctx, datasetIDs, "counts", "")
	if err != nil || list == nil {
		return nil, err
	}
	out := make(map[string]types.Collation, len(list))
	for _, col := range list {
		out[col.ID] = col
	}
	return out, nil
}

// OntologymapsURL returns the ontology mapping URL. precision is omitted
// when empty.
func (c *Client) OntologymapsURL(filters, precision string) string {
	params := []types.Param{param("filters", filters)}
	if precision != "" {
		params = append(params, param("filterPrecision", precision))
	}
	return c.endpoint(ontologymapsPath, params...)
}

// Ontologymaps fetches code mappings for the comma-separated filters.
func (c *Client) Ontologymaps(ctx context.Context, filters, precision string) (*types.OntologymapsResponse, error) {
	if filters == "" {
		return nil, ErrEmptyQuery
	}
	var resp types.OntologymapsResponse
	if err := c.fetch.GetJSON(ctx, c.OntologymapsURL(filters, precision), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatasetsURL returns the dataset listing URL on the public deployment,
// rewritten onto the API path when proxying.
func (c *Client) DatasetsURL() (string, error) {
	return c.Proxied(Progenetix + datasetIDsPath)
}

// Datasets lists the datasets as picker options.
func (c *Client) Datasets(ctx context.Context) ([]types.Option, error) {
	u, err := c.DatasetsURL()
	if err != nil {
		return nil, err
	}
	data, err := httputil.TryFetch[types.DatasetsResponse](ctx, c.fetch, u, nil)
	if err != nil {
		return nil, err
	}
	out := make([]types.Option, len(data.Datasets))
	for i, ds := range data.Datasets {
		out[i] = types.Option{Value: ds.ID, Label: ds.Name}
	}
	return out, nil
}
