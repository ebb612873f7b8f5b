// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// DefaultGeodistanceKm is the search radius used when a city is selected
// without a distance.
const DefaultGeodistanceKm = 100

// Filters combines the ontology codes, the material type and the
// comma-separated free filters into one list, in that order. Free
// filters are trimmed; empty tokens are dropped.
func Filters(bioontology []string, materialType, freeFilters string) []string {
	var out []string
	for _, code := range bioontology {
		if code != "" {
			out = append(out, code)
		}
	}
	if materialType != "" {
		out = append(out, materialType)
	}
	for _, ff := range strings.Split(freeFilters, ",") {
		if ff = strings.TrimSpace(ff); ff != "" {
			out = append(out, ff)
		}
	}
	return out
}

// GeoParams derives geolongitude, geolatitude and geodistance (meters)
// from a selected city. It returns nil when no city is selected or the
// city has no position.
func GeoParams(city *types.GeoCity, distanceKm *float64) []types.Param {
	lon, lat, ok := city.LonLat()
	if !ok {
		return nil
	}
	km := float64(DefaultGeodistanceKm)
	if distanceKm != nil {
		km = *distanceKm
	}
	return []types.Param{
		{Key: "geolongitude", Value: lon},
		{Key: "geolatitude", Value: lat},
		{Key: "geodistance", Value: km * 1000},
	}
}
