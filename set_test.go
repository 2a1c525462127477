package offheap_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/offheap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hashers = []offheap.Hasher{
	offheap.HasherMix64,
	offheap.HasherXXHash,
	offheap.HasherXXH3,
	offheap.HasherMurmur3,
}

func newSet(t *testing.T, opts ...offheap.Option) *offheap.Set {
	t.Helper()
	s, err := offheap.NewSet(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSet_NoDuplicates(t *testing.T) {
	s := newSet(t)

	added, err := s.Add(42)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(42)
	require.NoError(t, err)
	assert.False(t, added)

	n, _ := s.Len()
	assert.Equal(t, 1, n)

	ok, err := s.Contains(42)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = s.Contains(43)
	assert.False(t, ok)
}

func TestSet_ResizePreservesMembership(t *testing.T) {
	for _, backend := range backends {
		for _, h := range hashers {
			t.Run(fmt.Sprintf("%s/%s", backend, h), func(t *testing.T) {
				metrics := &offheap.BasicMetricsCollector{}
				s := newSet(t,
					offheap.WithBackend(backend),
					offheap.WithHasher(h),
					offheap.WithMetricsCollector(metrics),
				)

				for i := int64(0); i < 5000; i++ {
					added, err := s.Add(i * 3)
					require.NoError(t, err)
					require.True(t, added)
				}

				n, _ := s.Len()
				assert.Equal(t, 5000, n)
				for i := int64(0); i < 5000; i++ {
					ok, err := s.Contains(i * 3)
					require.NoError(t, err)
					require.True(t, ok, "missing %d", i*3)

					ok, _ = s.Contains(i*3 + 1)
					require.False(t, ok)
				}

				stats, err := s.Stats()
				require.NoError(t, err)
				assert.Equal(t, 8192, stats.Cap)
				assert.LessOrEqual(t, 4*stats.Len, 3*stats.Cap)
				assert.Equal(t, int64(9), metrics.GetStats().SetRehashes)
			})
		}
	}
}

func TestSet_TombstoneReuse(t *testing.T) {
	s := newSet(t)

	for i := int64(0); i < 10; i++ {
		_, err := s.Add(i)
		require.NoError(t, err)
	}
	for i := int64(0); i < 10; i += 2 {
		removed, err := s.Remove(i)
		require.NoError(t, err)
		assert.True(t, removed)
	}

	stats, _ := s.Stats()
	assert.Equal(t, 5, stats.Len)
	assert.Equal(t, 5, stats.Tombstones)

	removed, err := s.Remove(0)
	require.NoError(t, err)
	assert.False(t, removed)

	// Odd values are still reachable past the tombstones.
	for i := int64(1); i < 10; i += 2 {
		ok, _ := s.Contains(i)
		assert.True(t, ok)
	}

	for i := int64(0); i < 10; i += 2 {
		added, err := s.Add(i)
		require.NoError(t, err)
		assert.True(t, added)
	}

	stats, _ = s.Stats()
	assert.Equal(t, 10, stats.Len)
	assert.Equal(t, offheap.DefaultSetCapacity, stats.Cap)
	assert.Equal(t, 0, stats.Tombstones)
}

func TestSet_ChurnTerminates(t *testing.T) {
	// Repeated add/remove of distinct values fills every free slot with a
	// tombstone without ever triggering a resize.
	s := newSet(t, offheap.WithInitialCapacity(8))

	for i := int64(0); i < 1000; i++ {
		added, err := s.Add(i)
		require.NoError(t, err)
		require.True(t, added)

		ok, _ := s.Contains(i + 1)
		require.False(t, ok)

		removed, err := s.Remove(i)
		require.NoError(t, err)
		require.True(t, removed)
	}

	stats, _ := s.Stats()
	assert.Equal(t, 0, stats.Len)
	assert.Equal(t, 8, stats.Cap)
}

func TestSet_NegativeAndExtremeValues(t *testing.T) {
	s := newSet(t)
	values := []int64{0, -1, 1, -9223372036854775808, 9223372036854775807}

	for _, v := range values {
		added, err := s.Add(v)
		require.NoError(t, err)
		assert.True(t, added)
	}
	for _, v := range values {
		ok, _ := s.Contains(v)
		assert.True(t, ok, "missing %d", v)
	}
}

func TestSet_Clear(t *testing.T) {
	s := newSet(t)
	for i := int64(0); i < 100; i++ {
		_, err := s.Add(i)
		require.NoError(t, err)
	}
	_, err := s.Remove(5)
	require.NoError(t, err)

	before, _ := s.Stats()
	require.NoError(t, s.Clear())

	stats, _ := s.Stats()
	assert.Equal(t, 0, stats.Len)
	assert.Equal(t, 0, stats.Tombstones)
	assert.Equal(t, before.Cap, stats.Cap)

	empty, _ := s.IsEmpty()
	assert.True(t, empty)
	ok, _ := s.Contains(7)
	assert.False(t, ok)
}

func TestSet_InitialCapacityRoundsUp(t *testing.T) {
	s := newSet(t, offheap.WithInitialCapacity(100))
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 128, stats.Cap)
}

func TestSet_SmallCapacityKeepsLoadFactor(t *testing.T) {
	tests := []struct {
		initial int
		wantCap int
	}{
		{1, 4},
		{2, 4},
		{3, 4},
		{5, 8},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("initial=%d", tt.initial), func(t *testing.T) {
			s := newSet(t, offheap.WithInitialCapacity(tt.initial))

			stats, err := s.Stats()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCap, stats.Cap)

			for v := int64(0); v < 50; v++ {
				added, err := s.Add(v)
				require.NoError(t, err)
				require.True(t, added)

				stats, err := s.Stats()
				require.NoError(t, err)
				require.LessOrEqual(t, 4*stats.Len, 3*stats.Cap, "after adding %d", v)
			}
			for v := int64(0); v < 50; v++ {
				ok, _ := s.Contains(v)
				require.True(t, ok, "missing %d", v)
			}
		})
	}
}

func TestSet_GrowFailureLeavesSetUnchanged(t *testing.T) {
	// 16 slots = 256 bytes; the resize to 32 needs 512 more.
	s := newSet(t,
		offheap.WithBackend(offheap.BackendHeap),
		offheap.WithMemoryLimit(300),
	)
	for i := int64(0); i < 12; i++ {
		_, err := s.Add(i)
		require.NoError(t, err)
	}

	_, err := s.Add(12)
	require.ErrorIs(t, err, offheap.ErrAllocationFailed)

	stats, _ := s.Stats()
	assert.Equal(t, 12, stats.Len)
	assert.Equal(t, 16, stats.Cap)
	for i := int64(0); i < 12; i++ {
		ok, _ := s.Contains(i)
		assert.True(t, ok)
	}
	ok, _ := s.Contains(12)
	assert.False(t, ok)
}

func TestSet_String(t *testing.T) {
	s := newSet(t)
	assert.Equal(t, "Set{}", s.String())

	_, err := s.Add(7)
	require.NoError(t, err)
	assert.Equal(t, "Set{7}", s.String())

	require.NoError(t, s.Close())
	assert.Equal(t, "Set[closed]", s.String())
}
