package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUint32Slice(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"small", 16},
		{"section", 4096},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cleanup := GetUint32Slice(tt.size)
			defer cleanup()

			require.Len(t, s, tt.size)
			for i := range s {
				s[i] = uint32(i)
			}
		})
	}
}

func TestGetUint32Slice_Reuse(t *testing.T) {
	s, cleanup := GetUint32Slice(4096)
	cleanup()

	// A smaller request after a larger one must still honor the length.
	small, cleanup2 := GetUint32Slice(8)
	defer cleanup2()
	assert.Len(t, small, 8)
	_ = s
}

func TestGetByteSlice(t *testing.T) {
	b, cleanup := GetByteSlice(2048)
	defer cleanup()

	require.Len(t, b, 2048)
	b[2047] = 0xFF
	assert.Equal(t, byte(0xFF), b[2047])
}

func TestSlicePoolConcurrency(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s, cleanup := GetUint32Slice(n*100 + j)
				assert.Len(t, s, n*100+j)
				cleanup()

				b, cleanupB := GetByteSlice(j)
				assert.Len(t, b, j)
				cleanupB()
			}
		}(i)
	}
	wg.Wait()
}
