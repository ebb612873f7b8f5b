// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"context"
	"errors"

	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

const (
	subsetHistogramPath = "cgi/pgx_subsethistogram.cgi"
	cnvHistogramPath    = "cgi/api_chroplot.cgi"
)

// ErrNoPlotWidth is returned for plot requests without a positive width.
var ErrNoPlotWidth = errors.New("plot width must be positive")

// SubsetHistogramOptions selects a subset CNV histogram.
type SubsetHistogramOptions struct {
	DatasetIDs string
	ID         string
	// Size is the plot image width in pixels.
	Size     int
	Filter   string
	Scope    string
	Chr2Plot string
}

// SubsetHistogramURL returns the histogram URL. Dataset, id and size are
// always sent; filter, scope and chromosome list only when set.
func (c *Client) SubsetHistogramURL(opts SubsetHistogramOptions) string {
	params := []types.Param{
		param("datasetIds", opts.DatasetIDs),
		param("id", opts.ID),
		param("-size_plotimage_w_px", opts.Size),
	}
	if opts.Filter != "" {
		params = append(params, param("filter", opts.Filter))
	}
	if opts.Scope != "" {
		params = append(params, param("scope", opts.Scope))
	}
	if opts.Chr2Plot != "" {
		params = append(params, param("chr2plot", opts.Chr2Plot))
	}
	return c.cfg.APIPath + subsetHistogramPath + "?" + query.Encode(params)
}

// SubsetHistogram fetches the SVG histogram of a subset.
func (c *Client) SubsetHistogram(ctx context.Context, opts SubsetHistogramOptions) (string, error) {
	if opts.Size <= 0 {
		return "", ErrNoPlotWidth
	}
	return c.fetch.GetText(ctx, c.SubsetHistogramURL(opts))
}

// CNVHistogramURL returns the CNV profile plot URL of one callset.
func (c *Client) CNVHistogramURL(callsetID, datasetIDs string, width int) string {
	return c.endpoint(cnvHistogramPath,
		param("callsets.id", callsetID),
		param("datasetIds", datasetIDs),
		param("-size_plotimage_w_px", width),
	)
}

// CNVHistogram fetches the SVG CNV profile of one callset.
func (c *Client) CNVHistogram(ctx context.Context, callsetID, datasetIDs string, width int) (string, error) {
	if width <= 0 {
		return "", ErrNoPlotWidth
	}
	return c.fetch.GetText(ctx, c.CNVHistogramURL(callsetID, datasetIDs, width))
}
