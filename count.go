package offsetpager

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// countAlias is the column name the count statement selects its aggregate as.
const countAlias = "aggregate"

// extractTotal reads the row count from the first row of res. Missing or
// malformed values yield 0.
func extractTotal(res *Result) int64 {
	if res == nil || len(res.Rows) == 0 {
		return 0
	}

	row := res.Rows[0]
	value, ok := row[countAlias]
	if !ok {
		if len(row) != 1 {
			return 0
		}
		for _, only := range row {
			value = only
		}
	}

	total, ok := toInt64(value)
	if !ok || total < 0 {
		return 0
	}

	return total
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uint64ToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uint64ToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case json.Number:
		return stringToInt64(n.String())
	case []byte:
		return stringToInt64(string(n))
	case string:
		return stringToInt64(n)
	default:
		return 0, false
	}
}

func uint64ToInt64(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}

	return int64(n), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}

	return int64(f), true
}

func stringToInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}

	// Some drivers render aggregates as decimals, e.g. "95.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return floatToInt64(f)
}
