// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for beacon-query: the
// search form, configuration, and the response documents returned by the
// beacon/bycon services.
package types

import "encoding/json"

// Option is a selectable value with a display label, as offered by the
// dataset and ontology code pickers.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Term is an ontology term or external identifier with its label.
type Term struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// BeaconResponse is the envelope of a beacon query or data item reply.
// Older bycon versions put a single record under Data.
type BeaconResponse struct {
	Meta       json.RawMessage `json:"meta,omitempty"`
	ResultSets []ResultSet     `json:"resultSets,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     []string        `json:"errors,omitempty"`
}

// ResultSet holds the records one dataset contributed to a response.
type ResultSet struct {
	ID           string          `json:"id" yaml:"id"`
	ResultsCount int             `json:"resultsCount,omitempty" yaml:"results_count,omitempty"`
	Results      json.RawMessage `json:"results,omitempty" yaml:"-"`
}

// Biosamples decodes the result set records as biosamples.
func (rs ResultSet) Biosamples() ([]Biosample, error) {
	if len(rs.Results) == 0 || string(rs.Results) == "null" {
		return nil, nil
	}
	var out []Biosample
	if err := json.Unmarshal(rs.Results, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Biosample is a sample record as returned by the biosamples scope.
type Biosample struct {
	ID                 string            `json:"id" yaml:"id"`
	Description        string            `json:"description,omitempty" yaml:"description,omitempty"`
	Biocharacteristics []Term            `json:"biocharacteristics,omitempty" yaml:"biocharacteristics,omitempty"`
	AgeAtCollection    *AgeAtCollection  `json:"individual_age_at_collection,omitempty" yaml:"age_at_collection,omitempty"`
	Info               *BiosampleInfo    `json:"info,omitempty" yaml:"info,omitempty"`
	Provenance         *Provenance       `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	DataUseConditions  *Term             `json:"data_use_conditions,omitempty" yaml:"data_use_conditions,omitempty"`
	ExternalReferences []Term            `json:"externalReferences,omitempty" yaml:"external_references,omitempty"`
}

// AgeAtCollection is the ISO 8601 age of the individual at sampling.
type AgeAtCollection struct {
	Age string `json:"age,omitempty" yaml:"age,omitempty"`
}

// BiosampleInfo carries clinical annotations and callset links.
type BiosampleInfo struct {
	TNM            string   `json:"tnm,omitempty" yaml:"tnm,omitempty"`
	Death          string   `json:"death,omitempty" yaml:"death,omitempty"`
	FollowupMonths float64  `json:"followup_months,omitempty" yaml:"followup_months,omitempty"`
	CallsetIDs     []string `json:"callsetIds,omitempty" yaml:"callset_ids,omitempty"`
}

// Provenance describes sample material and geographic origin.
type Provenance struct {
	Material    *Term        `json:"material,omitempty" yaml:"material,omitempty"`
	GeoLocation *GeoLocation `json:"geoLocation,omitempty" yaml:"geo_location,omitempty"`
}

// GeoLocation is a GeoJSON feature with a display label.
type GeoLocation struct {
	Properties struct {
		Label string `json:"label,omitempty" yaml:"label,omitempty"`
	} `json:"properties" yaml:"properties"`
}

// Individual is a subject record as returned by the individuals scope.
type Individual struct {
	ID                 string                `json:"id" yaml:"id"`
	Description        string                `json:"description,omitempty" yaml:"description,omitempty"`
	Biocharacteristics []IndividualCharacter `json:"biocharacteristics,omitempty" yaml:"biocharacteristics,omitempty"`
}

// IndividualCharacter is a typed characteristic of an individual.
type IndividualCharacter struct {
	Type Term `json:"type" yaml:"type"`
}

// Publication is an entry of the publications service.
type Publication struct {
	ID         string         `json:"id" yaml:"id"`
	Title      string         `json:"title,omitempty" yaml:"title,omitempty"`
	Authors    string         `json:"authors,omitempty" yaml:"authors,omitempty"`
	Journal    string         `json:"journal,omitempty" yaml:"journal,omitempty"`
	Abstract   string         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Counts     map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Provenance struct {
		GeoLocation GeoLocation `json:"geo_location" yaml:"geo_location"`
	} `json:"provenance" yaml:"provenance"`
}

// Collation is a subset summary from the collations service.
type Collation struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Count       int    `json:"count,omitempty" yaml:"count,omitempty"`
	CodeMatches int    `json:"code_matches,omitempty" yaml:"code_matches,omitempty"`
}

// OntologymapsResponse is the reply of the ontologymaps service.
type OntologymapsResponse struct {
	Data struct {
		UniqueCodes map[string][]Term `json:"unique_codes"`
		CodeGroups  [][]Term          `json:"code_groups"`
	} `json:"data"`
}

// DatasetsResponse is the reply of the dataset id listing.
type DatasetsResponse struct {
	Datasets []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"datasets"`
}
