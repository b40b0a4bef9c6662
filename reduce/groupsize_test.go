package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcWorkGroupSize1D(t *testing.T) {
	cases := []struct {
		global, local, want int
	}{
		{1000, 256, 8},
		{1024, 256, 256},
		{100, 256, 100},
		{997, 256, 1},
		{1, 1024, 1},
		{3000, 1024, 8},
		{4096, 0, 1},
	}
	for _, c := range cases {
		w := WorkSizing{Global: []int{c.global}, Local: []int{c.local}}
		require.True(t, CalcWorkGroupSize(&w, 1024))
		assert.Equal(t, c.want, w.Local[0], "global=%d local=%d", c.global, c.local)
	}
}

func TestCalcWorkGroupSize1DInvariants(t *testing.T) {
	for _, maxGroup := range []int{1, 7, 64, 256, 1024} {
		for n := 1; n <= 3000; n += 37 {
			w := Sizing1D(n, maxGroup)
			l := w.Local[0]
			require.GreaterOrEqual(t, l, 1)
			require.LessOrEqual(t, l, n)
			require.LessOrEqual(t, l, maxGroup)
			require.Zero(t, n%l, "n=%d max=%d local=%d", n, maxGroup, l)
		}
	}
}

func TestCalcWorkGroupSize2D(t *testing.T) {
	w := Sizing2D(64, 64, 256)
	assert.Equal(t, []int{16, 16}, w.Local)

	for _, g := range [][2]int{{64, 64}, {100, 30}, {7, 13}, {1, 500}, {1024, 3}} {
		w := Sizing2D(g[0], g[1], 256)
		lx, ly := w.Local[0], w.Local[1]
		require.GreaterOrEqual(t, lx, 1)
		require.GreaterOrEqual(t, ly, 1)
		assert.LessOrEqual(t, lx*ly, 256, "%v", g)
		assert.Zero(t, g[0]%lx, "%v", g)
		assert.Zero(t, g[1]%ly, "%v", g)
	}
}

func TestCalcWorkGroupSize2DStopsAtOne(t *testing.T) {
	// x reaches 1 long before y divides.
	w := WorkSizing{Global: []int{1, 97}, Local: []int{4, 64}}
	require.True(t, CalcWorkGroupSize(&w, 16))
	assert.Equal(t, 1, w.Local[0])
	assert.Equal(t, 1, w.Local[1])
}

func TestCalcWorkGroupSizeIgnored(t *testing.T) {
	w := WorkSizing{Global: []int{8, 8, 8}, Local: []int{2, 2, 2}}
	assert.False(t, CalcWorkGroupSize(&w, 64))
	assert.Equal(t, []int{2, 2, 2}, w.Local)

	w = WorkSizing{Global: []int{0}, Local: []int{4}}
	assert.False(t, CalcWorkGroupSize(&w, 64))
	assert.Equal(t, []int{4}, w.Local)

	w = WorkSizing{Global: []int{8, 8}, Local: []int{8}}
	assert.False(t, CalcWorkGroupSize(&w, 64))
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 8, gcd(1000, 256))
	assert.Equal(t, 1, gcd(997, 256))
	assert.Equal(t, 5, gcd(5, 0))
}
