// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
	"go.yaml.in/yaml/v3"
)

// ErrInvalidForm is wrapped by every structural SearchForm error.
var ErrInvalidForm = errors.New("invalid search form")

// Form keys with dedicated handling. They are fields on SearchForm and
// never appear in SearchForm.Params.
const (
	KeyStart         = "start"
	KeyEnd           = "end"
	KeyBioontology   = "bioontology"
	KeyMaterialType  = "materialtype"
	KeyFreeFilters   = "freeFilters"
	KeyGeoCity       = "geoCity"
	KeyGeodistanceKm = "geodistanceKm"
)

var recognizedKeys = map[string]bool{
	KeyStart:         true,
	KeyEnd:           true,
	KeyBioontology:   true,
	KeyMaterialType:  true,
	KeyFreeFilters:   true,
	KeyGeoCity:       true,
	KeyGeodistanceKm: true,
}

// IsRecognizedKey reports whether key is one of the form keys that get
// dedicated handling instead of being passed through.
func IsRecognizedKey(key string) bool { return recognizedKeys[key] }

// Param is a pass-through query parameter. Value is a scalar (string,
// bool, integer, float, nil) or a slice of scalars, which encodes as one
// repeated key per element.
type Param struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// SearchForm is the state of a biosample search form.
type SearchForm struct {
	// Start and End are genomic positions or position ranges as entered
	// by the user: 1-based, inclusive, e.g. "1000" or "1000-2000".
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`

	// Bioontology lists ontology code filters such as "NCIT:C3058".
	Bioontology []string `json:"bioontology,omitempty" yaml:"bioontology,omitempty"`

	// MaterialType is a single material filter value.
	MaterialType string `json:"materialtype,omitempty" yaml:"materialtype,omitempty"`

	// FreeFilters is a comma-separated list of free-text filters.
	FreeFilters string `json:"freeFilters,omitempty" yaml:"freeFilters,omitempty"`

	// GeoCity is the selected city for a geo-distance search.
	GeoCity *GeoCity `json:"geoCity,omitempty" yaml:"geoCity,omitempty"`

	// GeodistanceKm is the search radius. Nil means 100 km.
	GeodistanceKm *float64 `json:"geodistanceKm,omitempty" yaml:"geodistanceKm,omitempty"`

	// Params holds every other form field in entry order.
	Params []Param `json:"params,omitempty" yaml:"-"`
}

// GeoCity is a city option from the geo lookup service.
type GeoCity struct {
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Value string      `json:"value,omitempty" yaml:"value,omitempty"`
	Data  GeoCityData `json:"data" yaml:"data"`
}

// GeoCityData carries the GeoJSON point of a city.
type GeoCityData struct {
	GeoJSON GeoPoint `json:"geojson" yaml:"geojson"`
}

// GeoPoint is a GeoJSON point; Coordinates is [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type,omitempty" yaml:"type,omitempty"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"`
}

// NewGeoCity returns a city at the given position.
func NewGeoCity(label string, longitude, latitude float64) *GeoCity {
	return &GeoCity{
		Label: label,
		Data: GeoCityData{GeoJSON: GeoPoint{
			Type:        "Point",
			Coordinates: []float64{longitude, latitude},
		}},
	}
}

// LonLat returns the city position. ok is false when the point does not
// carry exactly two coordinates.
func (c *GeoCity) LonLat() (lon, lat float64, ok bool) {
	if c == nil || len(c.Data.GeoJSON.Coordinates) != 2 {
		return 0, 0, false
	}
	return c.Data.GeoJSON.Coordinates[0], c.Data.GeoJSON.Coordinates[1], true
}

// Set appends a pass-through parameter.
func (f *SearchForm) Set(key string, value any) {
	f.Params = append(f.Params, Param{Key: key, Value: value})
}

// Validate checks the structural shape of the form. Range syntax and
// ordering are checked by the query package.
func (f SearchForm) Validate() error {
	for _, p := range f.Params {
		if p.Key == "" {
			return fmt.Errorf("%w: empty parameter name", ErrInvalidForm)
		}
		if IsRecognizedKey(p.Key) {
			return fmt.Errorf("%w: %q must be set through its form field", ErrInvalidForm, p.Key)
		}
		if !validParamValue(p.Value) {
			return fmt.Errorf("%w: parameter %q has unsupported value type %T", ErrInvalidForm, p.Key, p.Value)
		}
	}
	if f.GeodistanceKm != nil && *f.GeodistanceKm < 0 {
		return fmt.Errorf("%w: negative geo distance %v", ErrInvalidForm, *f.GeodistanceKm)
	}
	if f.GeoCity != nil {
		lon, lat, ok := f.GeoCity.LonLat()
		if !ok {
			return fmt.Errorf("%w: city needs a [longitude, latitude] pair", ErrInvalidForm)
		}
		if !s2.LatLngFromDegrees(lat, lon).IsValid() {
			return fmt.Errorf("%w: city coordinates out of range (lon %v, lat %v)", ErrInvalidForm, lon, lat)
		}
	}
	return nil
}

func validParamValue(v any) bool {
	switch vv := v.(type) {
	case []any:
		for _, e := range vv {
			if !isScalar(e) {
				return false
			}
		}
		return true
	case []string, []int, []int64, []float64, []bool:
		return true
	default:
		return isScalar(v)
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// UnmarshalYAML decodes a form mapping. Keys other than the recognized
// ones are kept in Params in document order.
func (f *SearchForm) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping, got YAML kind %d", ErrInvalidForm, node.Kind)
	}
	var out SearchForm
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		var err error
		switch key {
		case KeyStart:
			err = val.Decode(&out.Start)
		case KeyEnd:
			err = val.Decode(&out.End)
		case KeyBioontology:
			out.Bioontology, err = decodeStrings(val)
		case KeyMaterialType:
			err = val.Decode(&out.MaterialType)
		case KeyFreeFilters:
			err = val.Decode(&out.FreeFilters)
		case KeyGeoCity:
			if val.Tag != "!!null" {
				out.GeoCity = new(GeoCity)
				err = val.Decode(out.GeoCity)
			}
		case KeyGeodistanceKm:
			if val.Tag != "!!null" {
				var km float64
				err = val.Decode(&km)
				out.GeodistanceKm = &km
			}
		default:
			var v any
			err = val.Decode(&v)
			out.Params = append(out.Params, Param{Key: key, Value: v})
		}
		if err != nil {
			return fmt.Errorf("decoding form field %q: %w", key, err)
		}
	}
	*f = out
	return nil
}

// decodeStrings accepts a scalar or a sequence of scalars.
func decodeStrings(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var ss []string
		err := node.Decode(&ss)
		return ss, err
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return nil, nil
		}
		return []string{node.Value}, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings")
	}
}

// MarshalYAML encodes the form as a single mapping with Params inlined
// after the recognized fields.
func (f SearchForm) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return fmt.Errorf("encoding form field %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &val)
		return nil
	}

	fields := []struct {
		key  string
		v    any
		skip bool
	}{
		{KeyStart, f.Start, f.Start == ""},
		{KeyEnd, f.End, f.End == ""},
		{KeyBioontology, f.Bioontology, len(f.Bioontology) == 0},
		{KeyMaterialType, f.MaterialType, f.MaterialType == ""},
		{KeyFreeFilters, f.FreeFilters, f.FreeFilters == ""},
		{KeyGeoCity, f.GeoCity, f.GeoCity == nil},
		{KeyGeodistanceKm, f.GeodistanceKm, f.GeodistanceKm == nil},
	}
	for _, fld := range fields {
		if fld.skip {
			continue
		}
		if err := add(fld.key, fld.v); err != nil {
			return nil, err
		}
	}
	for _, p := range f.Params {
		if err := add(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return node, nil
}
