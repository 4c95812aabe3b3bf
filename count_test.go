package offsetpager

import (
	"encoding/json"
	"math"
	"testing"
)

func Test_extractTotal(t *testing.T) {
	tests := []struct {
		name string
		res  *Result
		want int64
	}{
		{"nil result", nil, 0},
		{"no rows", &Result{}, 0},
		{"int64 aggregate", &Result{Rows: []Row{{countAlias: int64(95)}}}, 95},
		{"int aggregate", &Result{Rows: []Row{{countAlias: 7}}}, 7},
		{"uint32 aggregate", &Result{Rows: []Row{{countAlias: uint32(3)}}}, 3},
		{"float aggregate", &Result{Rows: []Row{{countAlias: 12.0}}}, 12},
		{"bytes aggregate", &Result{Rows: []Row{{countAlias: []byte("41")}}}, 41},
		{"string aggregate", &Result{Rows: []Row{{countAlias: " 8 "}}}, 8},
		{"decimal string aggregate", &Result{Rows: []Row{{countAlias: "95.0"}}}, 95},
		{"json number aggregate", &Result{Rows: []Row{{countAlias: json.Number("19")}}}, 19},
		{"single unnamed column", &Result{Rows: []Row{{"count(*)": int64(5)}}}, 5},
		{"ambiguous columns", &Result{Rows: []Row{{"a": int64(1), "b": int64(2)}}}, 0},
		{"malformed string", &Result{Rows: []Row{{countAlias: "many"}}}, 0},
		{"nil value", &Result{Rows: []Row{{countAlias: nil}}}, 0},
		{"negative value", &Result{Rows: []Row{{countAlias: int64(-1)}}}, 0},
		{"overflowing uint64", &Result{Rows: []Row{{countAlias: uint64(math.MaxUint64)}}}, 0},
		{"NaN", &Result{Rows: []Row{{countAlias: math.NaN()}}}, 0},
		{"unsupported type", &Result{Rows: []Row{{countAlias: struct{}{}}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTotal(tt.res); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}
