package offsetpager

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RawPager_Validate(t *testing.T) {
	tests := []struct {
		name string
		raw  RawPager
		ok   bool
	}{
		{"empty payload", RawPager{}, true},
		{"negative page is corrected later", RawPager{Page: -1, PerPage: -5}, true},
		{"lowercase direction", RawPager{Sort: "name", Direction: "desc"}, true},
		{"uppercase direction", RawPager{Sort: "name", Direction: "ASC"}, true},
		{"unknown direction", RawPager{Sort: "name", Direction: "up"}, false},
		{"largest page and per page", RawPager{Page: 1000000, PerPage: 1000}, true},
		{"page too large", RawPager{Page: 1000001}, false},
		{"per page too large", RawPager{PerPage: 1001}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.raw.Validate(); (err == nil) != tt.ok {
				t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
			}
		})
	}
}

func Test_Paginator_Decode(t *testing.T) {
	p, err := New(&recordingExecutor{}, "SELECT * FROM users")
	require.NoError(t, err)

	p, err = p.WithAllowedColumns("name").Decode(RawPager{Page: 0, PerPage: 25, Sort: "name", Direction: "desc"})
	require.NoError(t, err)

	opts := p.Options()
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 25, opts.PerPage)
	assert.Equal(t, &OrderBy{Column: "name", Direction: DirectionDESC}, opts.Sort)

	p, err = p.Decode(RawPager{Page: 3, PerPage: 5, Sort: "password"})
	require.NoError(t, err)
	assert.Equal(t, &OrderBy{Column: DefaultSortColumn, Direction: DirectionASC}, p.Options().Sort)

	_, err = p.Decode(RawPager{Sort: "name", Direction: "sideways"})
	require.ErrorContains(t, err, "invalid pager")

	_, err = p.Decode(RawPager{Page: math.MaxInt, PerPage: 10})
	require.ErrorContains(t, err, "invalid pager")
}

func Test_Paginator_Decode_KeepsSortWhenEmpty(t *testing.T) {
	p := new(Paginator[Row]).WithOrderBy("created_at", DirectionDESC)

	p, err := p.Decode(RawPager{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, &OrderBy{Column: "created_at", Direction: DirectionDESC}, p.Options().Sort)
}
