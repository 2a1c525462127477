package offheap_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/offheap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = []offheap.Backend{offheap.BackendMmap, offheap.BackendHeap}

func newArray(t *testing.T, opts ...offheap.Option) *offheap.Array {
	t.Helper()
	a, err := offheap.NewArray(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func arrayContents(t *testing.T, a *offheap.Array) []int64 {
	t.Helper()
	n, err := a.Len()
	require.NoError(t, err)
	out := make([]int64, n)
	for i := range out {
		out[i], err = a.Get(i)
		require.NoError(t, err)
	}
	return out
}

func TestArray_AddPreservesOrder(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			a := newArray(t, offheap.WithBackend(backend))

			want := make([]int64, 0, 1000)
			for i := int64(0); i < 1000; i++ {
				v := i*7 - 300
				require.NoError(t, a.Add(v))
				want = append(want, v)
			}

			assert.Equal(t, want, arrayContents(t, a))

			capacity, err := a.Cap()
			require.NoError(t, err)
			assert.Equal(t, 1024, capacity)
		})
	}
}

func TestArray_Defaults(t *testing.T) {
	a := newArray(t)

	n, err := a.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	capacity, err := a.Cap()
	require.NoError(t, err)
	assert.Equal(t, offheap.DefaultArrayCapacity, capacity)

	empty, err := a.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestArray_GrowthDoubles(t *testing.T) {
	a := newArray(t, offheap.WithInitialCapacity(3))

	for i := int64(0); i < 3; i++ {
		require.NoError(t, a.Add(i))
	}
	capacity, _ := a.Cap()
	assert.Equal(t, 3, capacity)

	require.NoError(t, a.Add(3))
	capacity, _ = a.Cap()
	assert.Equal(t, 6, capacity)
	assert.Equal(t, []int64{0, 1, 2, 3}, arrayContents(t, a))
}

func TestArray_RemoveAt(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		expect []int64
	}{
		{"head", 0, []int64{2, 3, 4}},
		{"middle", 2, []int64{1, 2, 4}},
		{"tail", 3, []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArray(t)
			for _, v := range []int64{1, 2, 3, 4} {
				require.NoError(t, a.Add(v))
			}

			require.NoError(t, a.RemoveAt(tt.index))
			assert.Equal(t, tt.expect, arrayContents(t, a))

			capacity, _ := a.Cap()
			assert.Equal(t, offheap.DefaultArrayCapacity, capacity)
		})
	}
}

func TestArray_OutOfRange(t *testing.T) {
	a := newArray(t)
	require.NoError(t, a.Add(10))
	require.NoError(t, a.Add(20))

	for _, i := range []int{-1, 2, 100} {
		_, err := a.Get(i)
		require.ErrorIs(t, err, offheap.ErrOutOfRange)

		var idxErr *offheap.IndexError
		require.ErrorAs(t, err, &idxErr)
		assert.Equal(t, i, idxErr.Index)
		assert.Equal(t, 2, idxErr.Len)

		assert.ErrorIs(t, a.Set(i, 1), offheap.ErrOutOfRange)
		assert.ErrorIs(t, a.RemoveAt(i), offheap.ErrOutOfRange)
	}

	assert.Equal(t, []int64{10, 20}, arrayContents(t, a))
}

func TestArray_Set(t *testing.T) {
	a := newArray(t)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, a.Add(i))
	}

	require.NoError(t, a.Set(2, -42))
	assert.Equal(t, []int64{0, 1, -42, 3, 4}, arrayContents(t, a))
}

func TestArray_ReserveAndClear(t *testing.T) {
	a := newArray(t)
	require.NoError(t, a.Add(1))
	require.NoError(t, a.Add(2))

	require.NoError(t, a.Reserve(100))
	capacity, _ := a.Cap()
	assert.Equal(t, 100, capacity)
	assert.Equal(t, []int64{1, 2}, arrayContents(t, a))

	// Reserving less than the capacity is a no-op.
	require.NoError(t, a.Reserve(10))
	capacity, _ = a.Cap()
	assert.Equal(t, 100, capacity)

	require.NoError(t, a.Clear())
	n, _ := a.Len()
	assert.Equal(t, 0, n)
	capacity, _ = a.Cap()
	assert.Equal(t, 100, capacity)

	require.NoError(t, a.Add(9))
	assert.Equal(t, []int64{9}, arrayContents(t, a))
}

func TestArray_GrowFailureLeavesArrayUnchanged(t *testing.T) {
	// 16 slots = 128 bytes; doubling needs another 256 while the old region is held.
	a := newArray(t,
		offheap.WithBackend(offheap.BackendHeap),
		offheap.WithMemoryLimit(200),
	)
	for i := int64(0); i < 16; i++ {
		require.NoError(t, a.Add(i))
	}

	err := a.Add(16)
	require.ErrorIs(t, err, offheap.ErrAllocationFailed)
	require.ErrorIs(t, err, offheap.ErrMemoryLimitExceeded)

	n, _ := a.Len()
	assert.Equal(t, 16, n)
	capacity, _ := a.Cap()
	assert.Equal(t, 16, capacity)
	v, err := a.Get(15)
	require.NoError(t, err)
	assert.Equal(t, int64(15), v)

	assert.ErrorIs(t, a.Reserve(64), offheap.ErrAllocationFailed)
	capacity, _ = a.Cap()
	assert.Equal(t, 16, capacity)
}

func TestArray_InvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -5} {
		_, err := offheap.NewArray(offheap.WithInitialCapacity(n))
		assert.ErrorIs(t, err, offheap.ErrInvalidCapacity)
	}
}

func TestArray_Stats(t *testing.T) {
	a := newArray(t, offheap.WithBackend(offheap.BackendHeap))
	for i := int64(0); i < 17; i++ {
		require.NoError(t, a.Add(i))
	}

	stats, err := a.Stats()
	require.NoError(t, err)
	assert.Equal(t, 17, stats.Len)
	assert.Equal(t, 32, stats.Cap)
	assert.Equal(t, offheap.BackendHeap, stats.Memory.Backend)
	assert.Equal(t, 1, stats.Memory.Regions)
	assert.Equal(t, uint64(32*8), stats.Memory.BytesRequested)
	assert.Equal(t, uint64(32*8), stats.Memory.BytesReserved)
	assert.Equal(t, uint64(2), stats.Memory.TotalAllocs)
	assert.Equal(t, uint64(1), stats.Memory.TotalFrees)
}

func TestArray_String(t *testing.T) {
	a := newArray(t)
	assert.Equal(t, "Array[]", a.String())

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, a.Add(i))
	}
	assert.Equal(t, "Array[1, 2, 3]", a.String())

	for i := int64(4); i <= 105; i++ {
		require.NoError(t, a.Add(i))
	}
	s := a.String()
	assert.True(t, strings.HasPrefix(s, "Array[1, 2, 3, "))
	assert.True(t, strings.HasSuffix(s, fmt.Sprintf("100, ... (%d more)]", 5)))

	require.NoError(t, a.Close())
	assert.Equal(t, "Array[closed]", a.String())
}
