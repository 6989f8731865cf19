package collision

import (
	"testing"

	"github.com/arloliu/voxsec/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track_Success(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("section.decoded", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("section.decode_failed", 0xfedcba0987654321))
	require.Equal(t, 2, tracker.Count())
	require.Equal(t, []string{"section.decoded", "section.decode_failed"}, tracker.Names())

	name, ok := tracker.Name(0xfedcba0987654321)
	require.True(t, ok)
	require.Equal(t, "section.decode_failed", name)

	_, ok = tracker.Name(42)
	require.False(t, ok)
}

func TestTracker_Track_SameNameTwice(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("tick", 7))
	require.NoError(t, tracker.Track("tick", 7))
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Track_EmptyName(t *testing.T) {
	tracker := NewTracker()

	err := tracker.Track("", 0x1234567890abcdef)

	require.ErrorIs(t, err, errs.ErrInvalidEventName)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Track_Collision(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("block.changed", 0x1234567890abcdef))

	err := tracker.Track("block.removed", 0x1234567890abcdef)
	require.ErrorIs(t, err, errs.ErrHashCollision)
	require.ErrorContains(t, err, "block.removed")

	// The first name keeps the hash.
	name, _ := tracker.Name(0x1234567890abcdef)
	require.Equal(t, "block.changed", name)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Names_IsCopy(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Track("a", 1))

	names := tracker.Names()
	names[0] = "mutated"

	require.Equal(t, []string{"a"}, tracker.Names())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Track("a", 1))
	require.NoError(t, tracker.Track("b", 2))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Names())
	require.NoError(t, tracker.Track("c", 1))
}
