// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sample(id, description string, codes ...string) types.Biosample {
	bs := types.Biosample{ID: id, Description: description}
	for _, c := range codes {
		bs.Biocharacteristics = append(bs.Biocharacteristics, types.Term{ID: c})
	}
	return bs
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	glioma := sample("pgxbs-2", "Glioblastoma multiforme", "NCIT:C3058", "icdom-94403")
	glioma.Provenance = &types.Provenance{
		Material:    &types.Term{ID: "EFO:0009656", Label: "neoplastic sample"},
		GeoLocation: &types.GeoLocation{},
	}
	glioma.Provenance.GeoLocation.Properties.Label = "Zurich, Switzerland"

	_, err := s.Ingest(ctx, "progenetix", []types.Biosample{
		sample("pgxbs-1", "Breast carcinoma", "NCIT:C4872"),
		glioma,
	})
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "arraymap", []types.Biosample{
		sample("amxbs-1", "Glioma, 50%_grade", "NCIT:C3059"),
	})
	require.NoError(t, err)
}

// --- Ingest ---

func TestIngest_InsertThenUpdate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sum, err := s.Ingest(ctx, "progenetix", []types.Biosample{
		sample("pgxbs-1", "first"),
		sample("", "skipped"),
	})
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Inserted: 1}, sum)

	sum, err = s.Ingest(ctx, "progenetix", []types.Biosample{
		sample("pgxbs-1", "second"),
		sample("pgxbs-2", "new"),
	})
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Inserted: 1, Updated: 1}, sum)
	assert.Equal(t, 2, sum.Total())

	got, err := s.Retrieve(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Description)
}

func TestIngest_NoDataset(t *testing.T) {
	_, err := testStore(t).Ingest(context.Background(), "", []types.Biosample{sample("x", "")})
	assert.True(t, errors.Is(err, ErrNoDataset))
}

func TestIngestResponse(t *testing.T) {
	s := testStore(t)
	resp := &types.BeaconResponse{ResultSets: []types.ResultSet{
		{ID: "progenetix", Results: json.RawMessage(`[{"id": "pgxbs-1"}, {"id": "pgxbs-2"}]`)},
		{ID: "arraymap", Results: json.RawMessage(`[{"id": "amxbs-1"}]`)},
	}}
	sum, err := s.IngestResponse(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Inserted)

	counts, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"progenetix": 2, "arraymap": 1}, counts)
}

// --- Retrieve ---

func TestRetrieve(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all ordered by dataset", QueryOptions{}, []string{"amxbs-1", "pgxbs-1", "pgxbs-2"}},
		{"dataset", QueryOptions{DatasetID: "progenetix"}, []string{"pgxbs-1", "pgxbs-2"}},
		{"code", QueryOptions{Codes: []string{"NCIT:C3058"}}, []string{"pgxbs-2"}},
		{"codes AND", QueryOptions{Codes: []string{"NCIT:C3058", "icdom-94403"}}, []string{"pgxbs-2"}},
		{"codes AND miss", QueryOptions{Codes: []string{"NCIT:C3058", "NCIT:C4872"}}, []string{}},
		{"material code", QueryOptions{Codes: []string{"EFO:0009656"}}, []string{"pgxbs-2"}},
		{"text case-insensitive", QueryOptions{Text: "GLIO"}, []string{"amxbs-1", "pgxbs-2"}},
		{"text matches location", QueryOptions{Text: "zurich"}, []string{"pgxbs-2"}},
		{"text wildcard escaped", QueryOptions{Text: "50%_"}, []string{"amxbs-1"}},
		{"text literal percent", QueryOptions{Text: "%"}, []string{"amxbs-1"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"amxbs-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Retrieve(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRetrieve_RecordRoundTrip(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Retrieve(context.Background(), QueryOptions{Codes: []string{"NCIT:C3058"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "progenetix", got[0].DatasetID)
	assert.NotEmpty(t, got[0].IngestedAt)
	require.NotNil(t, got[0].Provenance)
	assert.Equal(t, "neoplastic sample", got[0].Provenance.Material.Label)
}

func TestQueryOptions_IsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Text: "x"}.IsEmpty())
	assert.False(t, QueryOptions{Codes: []string{"x"}}.IsEmpty())
}

// --- Export ---

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	path, err := s.ExportYAML(context.Background(), QueryOptions{DatasetID: "progenetix"})
	require.NoError(t, err)
	assert.Equal(t, "export.yaml", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "pgxbs-1", records[0]["id"])
	assert.Equal(t, "progenetix", records[0]["dataset_id"])
}

func TestExportJSON_Empty(t *testing.T) {
	s := testStore(t)

	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
