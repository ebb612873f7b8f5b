// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/beacon-query/pkg/types"
)

// FlattenParams expands every slice value into one parameter per element
// sharing the key. Order of keys and of elements within a key is kept.
// Falsy values are kept; see Compact.
func FlattenParams(params []types.Param) []types.Param {
	out := make([]types.Param, 0, len(params))
	for _, p := range params {
		switch v := p.Value.(type) {
		case []any:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		case []string:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		case []int:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		case []int64:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		case []float64:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		case []bool:
			for _, e := range v {
				out = append(out, types.Param{Key: p.Key, Value: e})
			}
		default:
			out = append(out, p)
		}
	}
	return out
}

// Compact drops parameters whose value is falsy: nil, "", false, a
// numeric zero or NaN. The string "0" is not falsy.
func Compact(params []types.Param) []types.Param {
	out := make([]types.Param, 0, len(params))
	for _, p := range params {
		if truthy(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

func truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case string:
		return vv != ""
	case bool:
		return vv
	case int:
		return vv != 0
	case int8:
		return vv != 0
	case int16:
		return vv != 0
	case int32:
		return vv != 0
	case int64:
		return vv != 0
	case uint:
		return vv != 0
	case uint8:
		return vv != 0
	case uint16:
		return vv != 0
	case uint32:
		return vv != 0
	case uint64:
		return vv != 0
	case float32:
		return vv != 0 && !math.IsNaN(float64(vv))
	case float64:
		return vv != 0 && !math.IsNaN(vv)
	default:
		return true
	}
}

// FormatValue renders a scalar parameter value the way it appears in a
// query string.
func FormatValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.Itoa(vv)
	case int8:
		return strconv.FormatInt(int64(vv), 10)
	case int16:
		return strconv.FormatInt(int64(vv), 10)
	case int32:
		return strconv.FormatInt(int64(vv), 10)
	case int64:
		return strconv.FormatInt(vv, 10)
	case uint:
		return strconv.FormatUint(uint64(vv), 10)
	case uint8:
		return strconv.FormatUint(uint64(vv), 10)
	case uint16:
		return strconv.FormatUint(uint64(vv), 10)
	case uint32:
		return strconv.FormatUint(uint64(vv), 10)
	case uint64:
		return strconv.FormatUint(vv, 10)
	case float32:
		return strconv.FormatFloat(float64(vv), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	default:
		return ""
	}
}

// Encode serializes flat parameters as application/x-www-form-urlencoded
// with repeated keys. Unlike url.Values.Encode it keeps the given order.
func Encode(params []types.Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(FormatValue(p.Value)))
	}
	return b.String()
}
