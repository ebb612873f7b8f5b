// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beacon-query/pkg/types"
)

func km(v float64) *float64 { return &v }

// --- Filters ---

func TestFilters(t *testing.T) {
	tests := []struct {
		name        string
		bioontology []string
		material    string
		free        string
		want        []string
	}{
		{"all sources in order", []string{"A", "B"}, "M", "x, y", []string{"A", "B", "M", "x", "y"}},
		{"nothing", nil, "", "", nil},
		{"single code", []string{"NCIT:C3058"}, "", "", []string{"NCIT:C3058"}},
		{"material only", nil, "EFO:0009656", "", []string{"EFO:0009656"}},
		{"empty free tokens dropped", nil, "", " , x ,,", []string{"x"}},
		{"empty codes dropped", []string{"", "A"}, "", "", []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filters(tt.bioontology, tt.material, tt.free))
		})
	}
}

// --- GeoParams ---

func TestGeoParams(t *testing.T) {
	city := types.NewGeoCity("Zurich", 8.55, 47.37)

	got := GeoParams(city, nil)
	require.Len(t, got, 3)
	assert.Equal(t, types.Param{Key: "geolongitude", Value: 8.55}, got[0])
	assert.Equal(t, types.Param{Key: "geolatitude", Value: 47.37}, got[1])
	assert.Equal(t, types.Param{Key: "geodistance", Value: 100000.0}, got[2])

	got = GeoParams(city, km(5))
	assert.Equal(t, 5000.0, got[2].Value)

	assert.Nil(t, GeoParams(nil, km(5)))
	assert.Nil(t, GeoParams(&types.GeoCity{}, nil))
}

// --- FlattenParams / Compact / Encode ---

func TestFlattenParams(t *testing.T) {
	got := FlattenParams([]types.Param{{Key: "k", Value: []string{"a", "b"}}})
	assert.Equal(t, []types.Param{{Key: "k", Value: "a"}, {Key: "k", Value: "b"}}, got)

	got = FlattenParams([]types.Param{
		{Key: "a", Value: 1},
		{Key: "b", Value: []any{"x", 0, "y"}},
		{Key: "c", Value: []string{}},
		{Key: "d", Value: "z"},
	})
	assert.Equal(t, []types.Param{
		{Key: "a", Value: 1},
		{Key: "b", Value: "x"},
		{Key: "b", Value: 0},
		{Key: "b", Value: "y"},
		{Key: "d", Value: "z"},
	}, got)
}

func TestCompact(t *testing.T) {
	in := []types.Param{
		{Key: "zero", Value: 0},
		{Key: "zero64", Value: int64(0)},
		{Key: "zerof", Value: 0.0},
		{Key: "nan", Value: math.NaN()},
		{Key: "empty", Value: ""},
		{Key: "false", Value: false},
		{Key: "nil", Value: nil},
		{Key: "string zero", Value: "0"},
		{Key: "negative", Value: int64(-1)},
		{Key: "true", Value: true},
	}
	got := Compact(in)
	keys := make([]string, len(got))
	for i, p := range got {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"string zero", "negative", "true"}, keys)
}

func TestEncode(t *testing.T) {
	got := Encode([]types.Param{
		{Key: "z", Value: "last"},
		{Key: "filters", Value: "NCIT:C3058"},
		{Key: "filters", Value: "free text"},
		{Key: "a", Value: int64(-1)},
		{Key: "lon", Value: 8.55},
		{Key: "flag", Value: true},
	})
	assert.Equal(t, "z=last&filters=NCIT%3AC3058&filters=free+text&a=-1&lon=8.55&flag=true", got)
	assert.Equal(t, "", Encode(nil))
}

func TestEncode_ReservedCharacters(t *testing.T) {
	got := Encode([]types.Param{
		{Key: "filters", Value: "a~b*c"},
		{Key: "q", Value: "x&y=z/w"},
	})
	assert.Equal(t, "filters=a~b%2Ac&q=x%26y%3Dz%2Fw", got)
}

// --- BuildQueryParameters ---

func TestBuildQueryParameters(t *testing.T) {
	tests := []struct {
		name string
		form types.SearchForm
		want string
	}{
		{
			name: "range search with pass-through params",
			form: types.SearchForm{
				Start:       "5",
				End:         "10-20",
				Bioontology: []string{"NCIT:C3058"},
				Params: []types.Param{
					{Key: "datasetIds", Value: "progenetix"},
					{Key: "assemblyId", Value: "GRCh38"},
					{Key: "referenceName", Value: "17"},
				},
			},
			want: "datasetIds=progenetix&assemblyId=GRCh38&referenceName=17&start=4&end=9&end=20&filters=NCIT%3AC3058",
		},
		{
			name: "start zero becomes minus one",
			form: types.SearchForm{Start: "0"},
			want: "start=-1",
		},
		{
			name: "end zero stays zero",
			form: types.SearchForm{End: "0"},
			want: "end=0",
		},
		{
			name: "start one shifts to zero and is dropped",
			form: types.SearchForm{Start: "1", End: "2"},
			want: "end=1",
		},
		{
			name: "backwards range is accepted by building",
			form: types.SearchForm{Start: "20-10"},
			want: "start=19&start=10",
		},
		{
			name: "filter order",
			form: types.SearchForm{
				Bioontology:  []string{"A", "B"},
				MaterialType: "M",
				FreeFilters:  "x, y",
			},
			want: "filters=A&filters=B&filters=M&filters=x&filters=y",
		},
		{
			name: "falsy pass-through values elided",
			form: types.SearchForm{Params: []types.Param{
				{Key: "zero", Value: 0},
				{Key: "empty", Value: ""},
				{Key: "no", Value: false},
				{Key: "none", Value: nil},
				{Key: "kept", Value: "x"},
			}},
			want: "kept=x",
		},
		{
			name: "repeated pass-through key",
			form: types.SearchForm{Params: []types.Param{
				{Key: "datasetIds", Value: []string{"progenetix", "arraymap"}},
			}},
			want: "datasetIds=progenetix&datasetIds=arraymap",
		},
		{
			name: "geo params follow pass-through params",
			form: types.SearchForm{
				Start:   "100",
				GeoCity: types.NewGeoCity("Zurich", 8.55, 47.37),
				Params:  []types.Param{{Key: "datasetIds", Value: "progenetix"}},
			},
			want: "datasetIds=progenetix&geolongitude=8.55&geolatitude=47.37&geodistance=100000&start=99",
		},
		{
			name: "explicit geo distance",
			form: types.SearchForm{
				GeoCity:       types.NewGeoCity("Zurich", 8.55, 47.37),
				GeodistanceKm: km(5),
			},
			want: "geolongitude=8.55&geolatitude=47.37&geodistance=5000",
		},
		{
			name: "empty form",
			form: types.SearchForm{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQueryParameters(tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQueryParametersStartValues(t *testing.T) {
	for _, n := range []int{2, 17, 1000, 7577120} {
		got, err := BuildQueryParameters(types.SearchForm{Start: fmt.Sprint(n)})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("start=%d", n-1), got)
	}
}

func TestBuildQueryParametersErrors(t *testing.T) {
	got, err := BuildQueryParameters(types.SearchForm{Start: "abc", End: "5"})
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrMalformedRange)
	assert.EqualError(t, err, "incorrect start range")

	_, err = BuildQueryParameters(types.SearchForm{End: "1 - 2"})
	assert.EqualError(t, err, "incorrect end range")

	_, err = BuildQueryParameters(types.SearchForm{Params: []types.Param{{Key: "start", Value: "5"}}})
	assert.ErrorIs(t, err, types.ErrInvalidForm)

	_, err = BuildQueryParameters(types.SearchForm{GeoCity: types.NewGeoCity("nowhere", 200, 10)})
	assert.ErrorIs(t, err, types.ErrInvalidForm)
}

func TestBuildQueryParametersDeterministic(t *testing.T) {
	form := types.SearchForm{
		Start:       "1000-2000",
		End:         "3000",
		Bioontology: []string{"NCIT:C3058", "NCIT:C4017"},
		FreeFilters: "PMID:28966033",
		GeoCity:     types.NewGeoCity("Heidelberg", 8.69, 49.41),
		Params: []types.Param{
			{Key: "datasetIds", Value: []string{"progenetix", "arraymap"}},
			{Key: "variantType", Value: "DEL"},
		},
	}
	first, err := BuildQueryParameters(form)
	require.NoError(t, err)
	second, err := BuildQueryParameters(form)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateBeaconQuery(t *testing.T) {
	assert.NoError(t, ValidateBeaconQuery(types.SearchForm{Start: "10", End: "20-30"}))
	assert.NoError(t, ValidateBeaconQuery(types.SearchForm{}))

	err := ValidateBeaconQuery(types.SearchForm{Start: "10", End: "x"})
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "end", re.Field)
}

func TestParams(t *testing.T) {
	params, err := Params(types.SearchForm{
		Start:  "5",
		Params: []types.Param{{Key: "datasetIds", Value: "progenetix"}},
	})
	require.NoError(t, err)
	require.Len(t, params, 4)
	assert.Equal(t, "datasetIds", params[0].Key)
	assert.Equal(t, []string{ParamStart, ParamEnd, ParamFilters},
		[]string{params[1].Key, params[2].Key, params[3].Key})
	assert.Equal(t, []any{int64(4)}, params[1].Value)
}

func TestBuildDataVisualizationParameters(t *testing.T) {
	got := BuildDataVisualizationParameters([]types.Param{
		{Key: "accessid", Value: "2833da30-e135-11ea-875b-a1a6d91b59c8"},
		{Key: "-chr2plot", Value: []string{"1", "2", "X"}},
		{Key: "-size_plotarea_h_px", Value: 100},
		{Key: "-size_title_left_px", Value: 0},
		{Key: "-markers", Value: ""},
		{Key: "group_by", Value: "NCIT"},
	})
	assert.Equal(t,
		"accessid=2833da30-e135-11ea-875b-a1a6d91b59c8&-chr2plot=1&-chr2plot=2&-chr2plot=X&-size_plotarea_h_px=100&group_by=NCIT",
		got)
}
