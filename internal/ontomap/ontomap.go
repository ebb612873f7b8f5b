// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ontomap browses the mappings between NCIT and ICD-O codes
// offered by the ontologymaps service. A first code narrows the choice
// of a second; both together select the matching code groups.
package ontomap

import (
	"context"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// Precision is the filter precision used for the code listing and the
// groups link.
const Precision = "start"

// allOntologies lists the prefixes offered for the first selection.
const allOntologies = "NCIT,icdom,icdot"

// optionPrefixes fixes the order in which unique codes become options.
var optionPrefixes = []string{"NCIT", "icdom", "icdot"}

// Service is the subset of the beacon client the browser needs.
type Service interface {
	Ontologymaps(ctx context.Context, filters, precision string) (*types.OntologymapsResponse, error)
	OntologymapsURL(filters, precision string) string
}

// Browser drives the two-stage code selection.
type Browser struct {
	svc Service
}

// New returns a Browser backed by svc.
func New(svc Service) *Browser {
	return &Browser{svc: svc}
}

// FirstOptions lists every NCIT and ICD-O code.
func (b *Browser) FirstOptions(ctx context.Context) ([]types.Option, error) {
	resp, err := b.svc.Ontologymaps(ctx, allOntologies, Precision)
	if err != nil {
		return nil, err
	}
	return mapToOptions(resp), nil
}

// SecondOptions lists the codes mapped to first, excluding first itself.
// An empty first selection yields no options without a request.
func (b *Browser) SecondOptions(ctx context.Context, first string) ([]types.Option, error) {
	if first == "" {
		return nil, nil
	}
	resp, err := b.svc.Ontologymaps(ctx, first, "")
	if err != nil {
		return nil, err
	}
	opts := mapToOptions(resp)
	out := opts[:0]
	for _, o := range opts {
		if o.Value != first {
			out = append(out, o)
		}
	}
	return out, nil
}

// Groups is the result of a selection.
type Groups struct {
	Filters    string         `json:"filters" yaml:"filters"`
	CodeGroups [][]types.Term `json:"code_groups" yaml:"code_groups"`
	// URL links to the JSON reply of the service for the selection.
	URL string `json:"url" yaml:"url"`
}

// Groups fetches the code groups matching the selections. Without a
// first selection no request is sent and the result is empty.
func (b *Browser) Groups(ctx context.Context, first, second string) (*Groups, error) {
	if first == "" {
		return &Groups{}, nil
	}
	filters := joinSelections(first, second)
	resp, err := b.svc.Ontologymaps(ctx, filters, "")
	if err != nil {
		return nil, err
	}
	return &Groups{
		Filters:    filters,
		CodeGroups: resp.Data.CodeGroups,
		URL:        b.svc.OntologymapsURL(filters, Precision),
	}, nil
}

// Selection holds the current pair of choices.
type Selection struct {
	First  string
	Second string
}

// SetFirst changes the first choice and clears the second.
func (s *Selection) SetFirst(first string) {
	s.First = first
	s.Second = ""
}

// SetSecond changes the second choice. It is ignored without a first.
func (s *Selection) SetSecond(second string) {
	if s.First == "" {
		return
	}
	s.Second = second
}

// Filters returns the non-empty choices joined by commas.
func (s Selection) Filters() string {
	return joinSelections(s.First, s.Second)
}

func joinSelections(selections ...string) string {
	var nonEmpty []string
	for _, s := range selections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, ",")
}

// mapToOptions turns unique codes into options labeled "id: label".
func mapToOptions(resp *types.OntologymapsResponse) []types.Option {
	if resp == nil || resp.Data.UniqueCodes == nil {
		return nil
	}
	var out []types.Option
	for _, prefix := range optionPrefixes {
		for _, code := range resp.Data.UniqueCodes[prefix] {
			out = append(out, types.Option{Label: code.ID + ": " + code.Label, Value: code.ID})
		}
	}
	return out
}
