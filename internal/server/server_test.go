// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beacon-query/pkg/types"
)

func testServer(t *testing.T) (*Server, *Metrics) {
	t.Helper()
	m := NewMetrics("test")
	return New(types.ServerConfig{Addr: ":0"}, zerolog.Nop(), m), m
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantQuery  string
		wantError  string
	}{
		{
			name:       "ranges shifted",
			target:     "/api/query?datasetIds=progenetix&start=5&end=10",
			wantStatus: http.StatusOK,
			wantQuery:  "datasetIds=progenetix&start=4&end=9",
		},
		{
			name:       "filters appended last",
			target:     "/api/query?bioontology=NCIT%3AC3058&materialtype=EFO%3A0009656&referenceName=17",
			wantStatus: http.StatusOK,
			wantQuery:  "referenceName=17&filters=NCIT%3AC3058&filters=EFO%3A0009656",
		},
		{
			name:       "malformed start",
			target:     "/api/query?start=abc",
			wantStatus: http.StatusBadRequest,
			wantError:  "incorrect start range",
		},
		{
			name:       "malformed end",
			target:     "/api/query?end=1-2-3",
			wantStatus: http.StatusBadRequest,
			wantError:  "incorrect end range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := testServer(t)
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, tt.wantQuery, body["query"])
		})
	}
}

func TestQuery_OrderWarning(t *testing.T) {
	s, _ := testServer(t)
	rec := get(t, s, "/api/query?start=9-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "start=8&start=1", body["query"])
	assert.Equal(t, []any{"Incorrect range input, max should be greater than min"}, body["warnings"])
}

func TestValidate(t *testing.T) {
	s, m := testServer(t)

	rec := get(t, s, "/api/validate?start=5&end=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"valid": true}, decode(t, rec))

	rec = get(t, s, "/api/validate?start=x")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"valid": false, "error": "incorrect start range"}, decode(t, rec))

	rec = get(t, s, "/api/validate?geoCity=nowhere")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["valid"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("malformed_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("invalid_form")))
}

func TestRange(t *testing.T) {
	tests := []struct {
		value string
		want  map[string]any
	}{
		{"", map[string]any{}},
		{"5", map[string]any{}},
		{"5-5", map[string]any{}},
		{"9-1", map[string]any{"error": "Incorrect range input, max should be greater than min"}},
		{"abc", map[string]any{"error": "Input should be a range (ex: 1-5) or a single value"}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			s, _ := testServer(t)
			rec := get(t, s, "/api/range?value="+tt.value)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec))
		})
	}
}

func TestRequestID(t *testing.T) {
	s, _ := testServer(t)

	rec := get(t, s, "/healthz")
	assert.Equal(t, "ok", rec.Body.String())
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	s := New(types.ServerConfig{}, log, NewMetrics(""))

	req := httptest.NewRequest(http.MethodGet, "/api/range?value=5", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	s.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "/api/range", entry["route"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestMetrics(t *testing.T) {
	s, m := testServer(t)
	get(t, s, "/api/range?value=5")
	get(t, s, "/api/range?value=6")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/range", "200")))

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "beacon_query_http_requests_total")
	assert.Contains(t, rec.Body.String(), `beacon_query_build_info{version="test"} 1`)
}
