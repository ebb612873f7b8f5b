// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beacon

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

// QueryFile is the on-disk representation of a search form and the
// biosamples it returned. A saved search can be reloaded and re-run, or
// inspected without querying the service again.
type QueryFile struct {
	Form    types.SearchForm  `yaml:"form"`
	Query   string            `yaml:"query"`
	Results []types.Biosample `yaml:"results"`
	Summary QuerySummary      `yaml:"summary"`
}

// QuerySummary stores per-dataset counts and a timestamp.
type QuerySummary struct {
	Total      int               `yaml:"total"`
	ResultSets []types.ResultSet `yaml:"result_sets,omitempty"`
	Errors     []string          `yaml:"errors,omitempty"`
	Timestamp  time.Time         `yaml:"timestamp"`
}

// NewQueryFile collects the biosamples of every result set in resp.
func NewQueryFile(form types.SearchForm, resp *types.BeaconResponse) (*QueryFile, error) {
	qs, err := query.BuildQueryParameters(form)
	if err != nil {
		return nil, err
	}
	qf := &QueryFile{Form: form, Query: qs}
	if resp != nil {
		for _, rs := range resp.ResultSets {
			samples, err := rs.Biosamples()
			if err != nil {
				return nil, fmt.Errorf("decoding result set %s: %w", rs.ID, err)
			}
			qf.Results = append(qf.Results, samples...)
			qf.Summary.ResultSets = append(qf.Summary.ResultSets, types.ResultSet{
				ID:           rs.ID,
				ResultsCount: rs.ResultsCount,
			})
		}
		qf.Summary.Errors = resp.Errors
	}
	qf.Summary.Total = len(qf.Results)
	qf.Summary.Timestamp = time.Now().UTC()
	return qf, nil
}

// WriteQueryFile saves qf to a YAML file.
func WriteQueryFile(path string, qf *QueryFile) error {
	data, err := yaml.Marshal(qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ReadForm loads a search form from a YAML file. The file may be a bare
// form or a saved query file.
func ReadForm(path string) (types.SearchForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SearchForm{}, fmt.Errorf("reading form file: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.SearchForm{}, fmt.Errorf("parsing form file: %w", err)
	}
	if node := savedForm(&doc); node != nil {
		var form types.SearchForm
		if err := node.Decode(&form); err != nil {
			return types.SearchForm{}, fmt.Errorf("parsing form file: %w", err)
		}
		return form, nil
	}
	var form types.SearchForm
	if err := yaml.Unmarshal(data, &form); err != nil {
		return types.SearchForm{}, fmt.Errorf("parsing form file: %w", err)
	}
	return form, nil
}

// savedForm returns the mapping under the top-level form key, or nil when
// the document is a bare form.
func savedForm(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "form" && root.Content[i+1].Kind == yaml.MappingNode {
			return root.Content[i+1]
		}
	}
	return nil
}
