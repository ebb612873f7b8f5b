// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// QueryOptions holds the filters of an archive query.
type QueryOptions struct {
	// Text matches case-insensitively against description, material
	// and location labels.
	Text string

	// DatasetID filters by dataset.
	DatasetID string

	// Codes filters by biocharacteristic or material codes with AND
	// semantics.
	Codes []string

	// MaxResults limits the result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Text == "" && q.DatasetID == "" && len(q.Codes) == 0
}

// Record is an archived biosample with its dataset.
type Record struct {
	types.Biosample `yaml:",inline"`
	DatasetID       string `json:"dataset_id" yaml:"dataset_id"`
	IngestedAt      string `json:"ingested_at" yaml:"ingested_at"`
}

// Retrieve returns archived biosamples matching opts, ordered by dataset
// and sample id.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT dataset_id, record, ingested_at FROM biosamples b WHERE 1=1`)

	if opts.DatasetID != "" {
		qb.WriteString(` AND b.dataset_id = ?`)
		args = append(args, opts.DatasetID)
	}

	if opts.Text != "" {
		qb.WriteString(` AND (b.description LIKE ? ESCAPE '\' OR b.material LIKE ? ESCAPE '\' OR b.geo_label LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(opts.Text) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	for _, code := range opts.Codes {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(b.codes) WHERE value = ?)`)
		args = append(args, code)
	}

	qb.WriteString(` ORDER BY b.dataset_id, b.id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var (
			r      Record
			record string
		)
		if err := rows.Scan(&r.DatasetID, &record, &r.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(record), &r.Biosample); err != nil {
			return nil, fmt.Errorf("decoding archived biosample: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of archived biosamples per dataset.
func (s *Store) Count(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset_id, count(*) FROM biosamples GROUP BY dataset_id`)
	if err != nil {
		return nil, fmt.Errorf("counting archive: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			ds string
			n  int
		)
		if err := rows.Scan(&ds, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out[ds] = n
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
