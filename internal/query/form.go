// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// ParseFormQuery decodes a search form from a raw URL query, keeping the
// order in which pass-through keys first appear. A repeated pass-through
// key becomes a list value. bioontology may repeat; geoCity is given as
// "longitude,latitude".
func ParseFormQuery(rawQuery string) (types.SearchForm, error) {
	var form types.SearchForm
	index := make(map[string]int)

	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return types.SearchForm{}, fmt.Errorf("%w: parameter name %q: %v", types.ErrInvalidForm, rawKey, err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return types.SearchForm{}, fmt.Errorf("%w: value of %q: %v", types.ErrInvalidForm, key, err)
		}

		switch key {
		case types.KeyStart:
			form.Start = val
		case types.KeyEnd:
			form.End = val
		case types.KeyBioontology:
			form.Bioontology = append(form.Bioontology, val)
		case types.KeyMaterialType:
			form.MaterialType = val
		case types.KeyFreeFilters:
			form.FreeFilters = val
		case types.KeyGeoCity:
			city, err := parseCity(val)
			if err != nil {
				return types.SearchForm{}, err
			}
			form.GeoCity = city
		case types.KeyGeodistanceKm:
			if val == "" {
				continue
			}
			km, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return types.SearchForm{}, fmt.Errorf("%w: geodistanceKm %q is not a number", types.ErrInvalidForm, val)
			}
			form.GeodistanceKm = &km
		default:
			if i, ok := index[key]; ok {
				form.Params[i].Value = appendValue(form.Params[i].Value, val)
				continue
			}
			index[key] = len(form.Params)
			form.Set(key, val)
		}
	}
	return form, form.Validate()
}

func appendValue(existing any, val string) any {
	if list, ok := existing.([]any); ok {
		return append(list, val)
	}
	return []any{existing, val}
}

func parseCity(s string) (*types.GeoCity, error) {
	if s == "" {
		return nil, nil
	}
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: geoCity %q must be \"longitude,latitude\"", types.ErrInvalidForm, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: geoCity longitude %q", types.ErrInvalidForm, lonStr)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: geoCity latitude %q", types.ErrInvalidForm, latStr)
	}
	return types.NewGeoCity("", lon, lat), nil
}
