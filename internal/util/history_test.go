package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestHistoryAppendAndSnapshot(t *testing.T) {
	// GIVEN
	history := NewHistory[int](5)

	// WHEN
	history.Append(1)
	history.Append(2)
	history.Append(3)

	// THEN
	assert.Equal(t, []int{1, 2, 3}, history.Snapshot())
	assert.Equal(t, 3, history.Size())
}

func TestHistoryEvictsOldestOnOverflow(t *testing.T) {
	// GIVEN
	history := NewHistory[int](3)

	// WHEN
	for i := 1; i <= 10; i++ {
		history.Append(i)
	}

	// THEN
	assert.Equal(t, 3, history.Size())
	assert.Equal(t, []int{8, 9, 10}, history.Snapshot())
}

func TestHistoryLast(t *testing.T) {
	// GIVEN
	history := NewHistory[string](2)

	// WHEN
	_, okEmpty := history.Last()
	history.Append("a")
	history.Append("b")
	last, ok := history.Last()

	// THEN
	assert.False(t, okEmpty)
	assert.True(t, ok)
	assert.Equal(t, "b", last)
}

func TestHistoryClear(t *testing.T) {
	// GIVEN
	history := NewHistory[int](3)
	history.Append(1)
	history.Append(2)

	// WHEN
	history.Clear()

	// THEN
	assert.Equal(t, 0, history.Size())
	assert.Empty(t, history.Snapshot())
}

func TestHistoryNeverExceedsCapacity(t *testing.T) {
	// GIVEN
	history := NewHistory[int](100)

	// WHEN
	for i := 0; i < 1000; i++ {
		history.Append(i)
	}

	// THEN
	assert.Equal(t, 100, history.Size())
	assert.Equal(t, 900, history.Snapshot()[0])
}
