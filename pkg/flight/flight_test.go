package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGroupMemoizes(t *testing.T) {
	var calls atomic.Int32
	g := NewGroup(func(k string) (int, error) {
		calls.Add(1)
		return len(k), nil
	})

	v, err := g.Get("pikachu")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = g.Get("pikachu")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, g.Len())
}

func TestGroupCoalescesConcurrentCalls(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	g := NewGroup(func(k string) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return k + "!", nil
	})

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = g.Get("raichu")
	}()
	<-started

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = g.Get("raichu")
		}(i)
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "raichu!", r)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, g.Len())
}

func TestGroupDoesNotMemoizeFailures(t *testing.T) {
	calls := 0
	g := NewGroup(func(k int) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("upstream down")
		}
		return k * 2, nil
	})

	_, err := g.Get(21)
	require.Error(t, err)

	v, err := g.Get(21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestGroupSeed(t *testing.T) {
	g := NewGroup(func(k string) (int, error) {
		t.Fatalf("work called for %s", k)
		return 0, nil
	})
	g.Seed("pichu", 172)
	g.Seed("pichu", 1)

	v, err := g.Get("pichu")
	require.NoError(t, err)
	assert.Equal(t, 172, v)
}
