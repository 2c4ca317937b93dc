package youtube

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPool_RoundRobin(t *testing.T) {
	pool := newCredentialPool([]string{"a", "b", "c"}, 100)

	var got []string
	for i := 0; i < 6; i++ {
		key, _, err := pool.acquire(1)
		require.NoError(t, err)
		got = append(got, key)
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, got)
}

func TestCredentialPool_SkipsExhausted(t *testing.T) {
	pool := newCredentialPool([]string{"a", "b", "c"}, 100)

	// Exhaust "a" in one heavy call
	key, _, err := pool.acquire(100)
	require.NoError(t, err)
	assert.Equal(t, "a", key)

	var got []string
	for i := 0; i < 4; i++ {
		key, _, err := pool.acquire(1)
		require.NoError(t, err)
		got = append(got, key)
	}

	assert.Equal(t, []string{"b", "c", "b", "c"}, got)
	assert.Equal(t, 2, pool.remaining())
}

func TestCredentialPool_Exhausted(t *testing.T) {
	pool := newCredentialPool([]string{"a", "b"}, 100)

	_, _, err := pool.acquire(100)
	require.NoError(t, err)
	_, _, err = pool.acquire(150)
	require.NoError(t, err)

	assert.Equal(t, 0, pool.remaining())

	_, idx, err := pool.acquire(1)
	require.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Equal(t, -1, idx)

	// Counters are untouched by a failed acquire
	usage := pool.snapshot()
	assert.Equal(t, int64(100), usage[0].Consumed)
	assert.Equal(t, int64(150), usage[1].Consumed)
}

func TestCredentialPool_Reset(t *testing.T) {
	pool := newCredentialPool([]string{"a", "b"}, 10)

	for i := 0; i < 4; i++ {
		_, _, err := pool.acquire(5)
		require.NoError(t, err)
	}
	require.Equal(t, 0, pool.remaining())

	pool.reset()

	assert.Equal(t, 2, pool.remaining())
	for _, u := range pool.snapshot() {
		assert.Zero(t, u.Consumed)
		assert.False(t, u.Exhausted())
	}
}

func TestCredentialPool_RemainingMatchesSnapshot(t *testing.T) {
	pool := newCredentialPool([]string{"a", "b", "c", "d"}, 50)
	costs := []int64{100, 1, 1, 30, 30, 1, 100, 1}

	for _, cost := range costs {
		_, _, _ = pool.acquire(cost)

		below := 0
		for _, u := range pool.snapshot() {
			if u.Consumed < u.Capacity {
				below++
			}
		}

		assert.Equal(t, below, pool.remaining())
	}
}

func TestCredentialPool_FairnessUnderConcurrency(t *testing.T) {
	const (
		keys     = 5
		capacity = int64(1000)
		cost     = int64(10)
		workers  = 20
	)

	names := make([]string, keys)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	pool := newCredentialPool(names, capacity)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, _, err := pool.acquire(cost); err != nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, pool.remaining())
	for _, u := range pool.snapshot() {
		// Never more than one call's overshoot past the cap
		assert.LessOrEqual(t, u.Consumed, capacity+cost-1)
		assert.GreaterOrEqual(t, u.Consumed, capacity)
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "****wxyz", maskKey("AIzaSyABCDEFwxyz"))
}
