//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := IntToUint64(math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestMulInt(t *testing.T) {
	tests := []struct {
		name        string
		count, size int
		want        int
		wantErr     bool
	}{
		{name: "zero", count: 0, size: 8, want: 0},
		{name: "slots", count: 16, size: 16, want: 256},
		{name: "negative count", count: -1, size: 8, wantErr: true},
		{name: "overflow", count: math.MaxInt / 4, size: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulInt(tt.count, tt.size)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {16, 16}, {17, 32}, {1000, 1024},
	}
	for _, tt := range tests {
		got, err := NextPowerOfTwo(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "in=%d", tt.in)
	}

	_, err := NextPowerOfTwo(math.MaxInt)
	assert.ErrorIs(t, err, ErrOverflow)
}
