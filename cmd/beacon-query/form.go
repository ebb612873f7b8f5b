// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/beacon-query/internal/beacon"
	"github.com/pdiddy/beacon-query/pkg/types"
)

// addFormFlags registers the search form flags on fs.
func addFormFlags(fs *pflag.FlagSet) {
	fs.String("form", "", "load the search form from a YAML file (bare form or saved query)")
	fs.String("start", "", "start position or range, 1-based (e.g. 100 or 100-200)")
	fs.String("end", "", "end position or range, 1-based")
	fs.StringSlice("bioontology", nil, "ontology codes to filter by (repeatable)")
	fs.String("materialtype", "", "material type code")
	fs.String("filters", "", "free filters, comma-separated")
	fs.String("geo-city", "", "city coordinates as longitude,latitude")
	fs.Float64("geodistance-km", 0, "search radius around the city in km (default 100)")
	fs.StringArray("param", nil, "pass-through parameter key=value (repeatable, order kept)")
}

// formFromFlags builds a search form from --form and the form flags.
// Flags set on the command line override fields of the loaded form;
// --param values are appended after its parameters.
func formFromFlags(cmd *cobra.Command) (types.SearchForm, error) {
	fs := cmd.Flags()
	var form types.SearchForm

	if path, _ := fs.GetString("form"); path != "" {
		f, err := beacon.ReadForm(path)
		if err != nil {
			return form, err
		}
		form = f
	}

	if fs.Changed("start") {
		form.Start, _ = fs.GetString("start")
	}
	if fs.Changed("end") {
		form.End, _ = fs.GetString("end")
	}
	if fs.Changed("bioontology") {
		form.Bioontology, _ = fs.GetStringSlice("bioontology")
	}
	if fs.Changed("materialtype") {
		form.MaterialType, _ = fs.GetString("materialtype")
	}
	if fs.Changed("filters") {
		form.FreeFilters, _ = fs.GetString("filters")
	}
	if fs.Changed("geo-city") {
		raw, _ := fs.GetString("geo-city")
		city, err := parseLonLat(raw)
		if err != nil {
			return form, err
		}
		form.GeoCity = city
	}
	if fs.Changed("geodistance-km") {
		km, _ := fs.GetFloat64("geodistance-km")
		form.GeodistanceKm = &km
	}

	params, _ := fs.GetStringArray("param")
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return form, fmt.Errorf("%w: --param %q must be key=value", types.ErrInvalidForm, p)
		}
		form.Set(key, value)
	}
	return form, nil
}

func parseLonLat(s string) (*types.GeoCity, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: --geo-city %q must be longitude,latitude", types.ErrInvalidForm, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: --geo-city longitude %q", types.ErrInvalidForm, lonStr)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: --geo-city latitude %q", types.ErrInvalidForm, latStr)
	}
	return types.NewGeoCity("", lon, lat), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to n runes for table output.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
