package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
)

func result(id int64, startTime float64) *amplitude.Result {
	return &amplitude.Result{
		Detection:   amplitude.Detection{ID: id},
		Measurement: amplitude.Measurement{StartTime: startTime},
	}
}

func ids(results []*amplitude.Result) []int64 {
	var out []int64
	for _, r := range results {
		out = append(out, r.Detection.ID)
	}
	return out
}

func TestResultBuffer_Ordering(t *testing.T) {
	b, err := NewResultBuffer(10, 5)
	require.NoError(t, err)

	for _, r := range []*amplitude.Result{
		result(1, 30),
		result(2, 10),
		result(3, 20),
		result(5, 10), // same start time, keeps ID order
		result(4, 10),
		result(6, 40),
	} {
		require.NoError(t, b.Insert(r))
	}

	assert.Equal(t, 6, b.Size())
	assert.False(t, b.IsFull())
	assert.Equal(t, []int64{2, 4, 5, 3, 1, 6}, ids(b.DrainAll()))
	assert.Equal(t, 0, b.Size())
	assert.Nil(t, b.DrainAll())
}

func TestResultBuffer_Flush(t *testing.T) {
	b, err := NewResultBuffer(3, 2)
	require.NoError(t, err)

	assert.Nil(t, b.Flush())

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, b.Insert(result(i, float64(i))))
	}
	assert.True(t, b.IsFull())

	// one over capacity, flushes the overflow too
	assert.Equal(t, []int64{1, 2, 3}, ids(b.Flush()))
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, []int64{4}, ids(b.Flush()))
}

func TestResultBuffer_Invalid(t *testing.T) {
	_, err := NewResultBuffer(0, 1)
	assert.Error(t, err)

	_, err = NewResultBuffer(2, 3)
	assert.Error(t, err)

	b, err := NewResultBuffer(1, 1)
	require.NoError(t, err)
	assert.Error(t, b.Insert(nil))
}
