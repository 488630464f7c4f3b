package once

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCell_Get_empty(t *testing.T) {
	var c Cell[string]
	v, ok := c.Get()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestCell_GetOrInit(t *testing.T) {
	var c Cell[int]
	require.Equal(t, 5, c.GetOrInit(func() int { return 5 }))
	require.Equal(t, 5, c.GetOrInit(func() int { panic(`should not be called`) }))
	v, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, 5, v)
}

func TestCell_Set(t *testing.T) {
	var c Cell[string]
	require.True(t, c.Set(`a`))
	require.False(t, c.Set(`b`))
	v, _ := c.Get()
	require.Equal(t, `a`, v)
}

func TestCell_GetOrInit_panicResets(t *testing.T) {
	var c Cell[int]
	require.PanicsWithValue(t, `boom`, func() { c.GetOrInit(func() int { panic(`boom`) }) })
	_, ok := c.Get()
	require.False(t, ok)
	require.Equal(t, 2, c.GetOrInit(func() int { return 2 }))
}

func TestCell_GetOrInit_concurrent(t *testing.T) {
	var (
		c     Cell[int]
		calls atomic.Int32
		g     errgroup.Group
		start = make(chan struct{})
	)
	const n = 32
	results := make([]int, n)
	for i := range n {
		g.Go(func() error {
			<-start
			results[i] = c.GetOrInit(func() int {
				calls.Add(1)
				// keep the others blocked for a while
				time.Sleep(time.Millisecond * 20)
				return i + 1
			})
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, results[0], v)
	}
}

// every goroutine walks the same cells, racing to initialise each, and must
// observe the same values
func TestCell_race(t *testing.T) {
	const cellCount = 2000
	workers := max(runtime.GOMAXPROCS(0), 4)
	cells := make([]Cell[int], cellCount)
	var (
		result Cell[int]
		g      errgroup.Group
	)
	for id := range workers {
		g.Go(func() error {
			var sum int
			for i := range cells {
				sum += cells[i].GetOrInit(func() int { return id })
			}
			if got := result.GetOrInit(func() int { return sum }); got != sum {
				t.Errorf(`worker %d: sum %d, want %d`, id, sum, got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
