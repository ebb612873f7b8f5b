// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const sampleFormYAML = `
datasetIds: progenetix
start: "7572826-7579005"
end: "7579805"
bioontology: NCIT:C3058
referenceName: "17"
geoCity:
  label: Zurich
  data:
    geojson:
      type: Point
      coordinates: [8.55, 47.37]
geodistanceKm: 25
limit: 0
variantType: [DEL, DUP]
`

func TestSearchFormUnmarshalYAML(t *testing.T) {
	var form SearchForm
	require.NoError(t, yaml.Unmarshal([]byte(sampleFormYAML), &form))

	assert.Equal(t, "7572826-7579005", form.Start)
	assert.Equal(t, "7579805", form.End)
	assert.Equal(t, []string{"NCIT:C3058"}, form.Bioontology, "a scalar code becomes a one-element list")
	require.NotNil(t, form.GeoCity)
	lon, lat, ok := form.GeoCity.LonLat()
	require.True(t, ok)
	assert.Equal(t, 8.55, lon)
	assert.Equal(t, 47.37, lat)
	require.NotNil(t, form.GeodistanceKm)
	assert.Equal(t, 25.0, *form.GeodistanceKm)

	// Pass-through keys keep document order.
	assert.Equal(t, []Param{
		{Key: "datasetIds", Value: "progenetix"},
		{Key: "referenceName", Value: "17"},
		{Key: "limit", Value: 0},
		{Key: "variantType", Value: []any{"DEL", "DUP"}},
	}, form.Params)
	assert.NoError(t, form.Validate())
}

func TestSearchFormMarshalYAMLKeepsOrder(t *testing.T) {
	form := SearchForm{
		Start:  "100",
		Params: []Param{{Key: "zeta", Value: "1"}, {Key: "alpha", Value: "2"}},
	}
	data, err := yaml.Marshal(form)
	require.NoError(t, err)
	assert.Equal(t, "start: \"100\"\nzeta: \"1\"\nalpha: \"2\"\n", string(data))
}

func TestSearchFormUnmarshalYAMLRejectsList(t *testing.T) {
	var form SearchForm
	err := yaml.Unmarshal([]byte("- a\n- b\n"), &form)
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestSearchFormValidate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name    string
		form    SearchForm
		wantErr bool
	}{
		{"empty form", SearchForm{}, false},
		{"valid city", SearchForm{GeoCity: NewGeoCity("Zurich", 8.55, 47.37)}, false},
		{"recognized key as param", SearchForm{Params: []Param{{Key: KeyFreeFilters, Value: "x"}}}, true},
		{"empty param name", SearchForm{Params: []Param{{Key: "", Value: "x"}}}, true},
		{"map value", SearchForm{Params: []Param{{Key: "k", Value: map[string]any{"a": 1}}}}, true},
		{"nested list", SearchForm{Params: []Param{{Key: "k", Value: []any{[]any{"a"}}}}}, true},
		{"negative distance", SearchForm{GeodistanceKm: &neg}, true},
		{"city without point", SearchForm{GeoCity: &GeoCity{Label: "x"}}, true},
		{"latitude out of range", SearchForm{GeoCity: NewGeoCity("pole", 0, 95)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidForm)
				return
			}
			assert.NoError(t, err)
		})
	}
}
