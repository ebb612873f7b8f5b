// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

const publicationsPath = "services/publications"

// PublicationDatasets lists the datasets whose counts decide which
// collections hold samples of a publication.
var PublicationDatasets = []string{"progenetix", "arraymap"}

// PublicationURL returns the lookup URL for one publication id.
func (c *Client) PublicationURL(id string) string {
	return c.endpoint(publicationsPath,
		param("filters", id),
		param("responseFormat", "simplelist"),
		param("filterPrecision", "exact"),
		param("method", "all"),
	)
}

// PublicationListURL returns the URL listing publications with genome
// screens.
func (c *Client) PublicationListURL() string {
	return c.endpoint(publicationsPath,
		param("responseFormat", "simplelist"),
		param("filters", "genomes:>0"),
	)
}

// Publication fetches the entries matching id. Null entries, which the
// service emits for unknown ids, are dropped.
func (c *Client) Publication(ctx context.Context, id string) ([]types.Publication, error) {
	if id == "" {
		return nil, ErrEmptyQuery
	}
	return c.publications(ctx, c.PublicationURL(id))
}

// PublicationList fetches all publications with genome screens.
func (c *Client) PublicationList(ctx context.Context) ([]types.Publication, error) {
	return c.publications(ctx, c.PublicationListURL())
}

func (c *Client) publications(ctx context.Context, u string) ([]types.Publication, error) {
	var raw json.RawMessage
	if err := c.fetch.GetJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	return decodePublications(raw)
}

// decodePublications accepts a bare list or an object with a results list.
func decodePublications(raw json.RawMessage) ([]types.Publication, error) {
	raw = bytes.TrimSpace(raw)
	var entries []*types.Publication
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Results []*types.Publication `json:"results"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding publications: %w", err)
		}
		entries = wrapped.Results
	} else if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding publications: %w", err)
	}

	out := make([]types.Publication, 0, len(entries))
	for _, p := range entries {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// PublicationSamplesForm returns the search form that retrieves the
// samples of a publication from every dataset with a positive count.
// ok is false when no dataset holds samples.
func PublicationSamplesForm(pub types.Publication) (form types.SearchForm, ok bool) {
	var datasets []string
	for _, ds := range PublicationDatasets {
		if pub.Counts[ds] > 0 {
			datasets = append(datasets, ds)
		}
	}
	if len(datasets) == 0 {
		return types.SearchForm{}, false
	}
	form.FreeFilters = pub.ID
	form.Set("datasetIds", strings.Join(datasets, ","))
	form.Set("filterPrecision", "exact")
	return form, true
}
