// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns search form state into the canonical query string
// understood by the bycon services, and validates position ranges.
//
// Positions are entered 1-based and inclusive; the services index them
// 0-based and half-open. Only the first bound of a range is shifted.
// Building checks range syntax but not ordering: run CheckIntegerRange
// on Start and End for ordering feedback, building alone accepts a
// backwards range.
//
// All functions are pure and safe for concurrent use.
package query

import (
	"github.com/pdiddy/beacon-query/pkg/types"
)

// Parameter names the builder appends after all pass-through parameters.
const (
	ParamStart   = "start"
	ParamEnd     = "end"
	ParamFilters = "filters"
)

// BuildQueryParameters returns the encoded query string for form. On a
// malformed start or end it returns a *RangeError and no string; on a
// structurally invalid form an error wrapping types.ErrInvalidForm.
func BuildQueryParameters(form types.SearchForm) (string, error) {
	params, err := Params(form)
	if err != nil {
		return "", err
	}
	return Encode(Compact(FlattenParams(params))), nil
}

// ValidateBeaconQuery runs the same path as BuildQueryParameters and
// returns its error, if any, without producing a string.
func ValidateBeaconQuery(form types.SearchForm) error {
	_, err := Params(form)
	return err
}

// Params returns the unflattened parameter list for form: pass-through
// parameters in order, then geo parameters, then start, end and filters.
func Params(form types.SearchForm) ([]types.Param, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	starts, err := StartTokens(form.Start)
	if err != nil {
		return nil, err
	}
	ends, err := EndTokens(form.End)
	if err != nil {
		return nil, err
	}
	filters := Filters(form.Bioontology, form.MaterialType, form.FreeFilters)

	geo := GeoParams(form.GeoCity, form.GeodistanceKm)
	params := make([]types.Param, 0, len(form.Params)+len(geo)+3)
	params = append(params, form.Params...)
	params = append(params, geo...)
	params = append(params,
		types.Param{Key: ParamStart, Value: starts},
		types.Param{Key: ParamEnd, Value: ends},
		types.Param{Key: ParamFilters, Value: filters},
	)
	return params, nil
}

// BuildDataVisualizationParameters encodes plotting options for the
// data visualization service. Slices repeat their key and falsy values
// are dropped, as for beacon queries.
func BuildDataVisualizationParameters(params []types.Param) string {
	return Encode(Compact(FlattenParams(params)))
}
