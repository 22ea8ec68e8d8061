package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-4, DefaultLimit},
		{1, 1},
		{50, 50},
		{51, MaxLimit},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeLimit(tc.in), "limit %d", tc.in)
	}
}

func TestParamsNormalize(t *testing.T) {
	got := Params{Limit: 500, Offset: -3}.Normalize()
	assert.Equal(t, Params{Limit: MaxLimit, Offset: 0}, got)

	got = Params{Limit: 5, Offset: 10}.Normalize()
	assert.Equal(t, Params{Limit: 5, Offset: 10}, got)
}
