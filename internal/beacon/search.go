// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"context"
	"encoding/json"

	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

const (
	beaconPath            = "cgi/bycon/bin/byconplus.py"
	dataVisualizationPath = "cgi/api_process.cgi"
)

// BeaconQueryURL returns the beacon query URL for form. It fails when the
// form does not build; see query.BuildQueryParameters.
func (c *Client) BeaconQueryURL(form types.SearchForm) (string, error) {
	qs, err := query.BuildQueryParameters(form)
	if err != nil {
		return "", err
	}
	return c.cfg.APIPath + beaconPath + "?" + qs, nil
}

// BeaconQuery runs a biosample search. An invalid form fails before any
// request is sent.
func (c *Client) BeaconQuery(ctx context.Context, form types.SearchForm) (*types.BeaconResponse, error) {
	u, err := c.BeaconQueryURL(form)
	if err != nil {
		return nil, err
	}
	var resp types.BeaconResponse
	if err := c.fetch.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DataVisualizationURL returns the URL of the data visualization
// service for the given plotting options.
func (c *Client) DataVisualizationURL(params []types.Param) string {
	return c.cfg.APIPath + dataVisualizationPath + "?" + query.BuildDataVisualizationParameters(params)
}

// DataVisualization fetches a data visualization reply.
func (c *Client) DataVisualization(ctx context.Context, params []types.Param) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.fetch.GetJSON(ctx, c.DataVisualizationURL(params), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
