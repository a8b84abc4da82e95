package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyflow/autofill-engine/internal/models"
)

func TestGroupIndex_MonotonicInOrderOfFirstAppearance(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	assert.Equal(t, 0, tracker.GroupIndex("form_a", 7))
	assert.Equal(t, 1, tracker.GroupIndex("form_a", 2))
	assert.Equal(t, 2, tracker.GroupIndex("form_a", 11))
}

func TestGroupIndex_StableOnReencounter(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	first := tracker.GroupIndex("form_a", 7)
	tracker.GroupIndex("form_a", 2)

	assert.Equal(t, first, tracker.GroupIndex("form_a", 7))
	assert.Equal(t, first, tracker.GroupIndex("form_a", 7))
}

func TestGroupIndex_DistinctIDsNeverShareAnIndex(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, rawID := range []int{5, 1, 9, 0, 12, 3} {
		idx := tracker.GroupIndex("form_a", rawID)
		assert.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
	}
}

func TestGroupIndex_SessionsAreIndependent(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	assert.Equal(t, 0, tracker.GroupIndex("form_a", 7))
	assert.Equal(t, 0, tracker.GroupIndex("form_b", 3))
	assert.Equal(t, 1, tracker.GroupIndex("form_b", 7))
}

func TestGroupIndex_ConcurrentAssignmentIsSerialized(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tracker.GroupIndex("form_a", 42)
		}(i)
	}
	wg.Wait()

	// All concurrent lookups of the same raw id must agree on one index.
	for _, idx := range results {
		assert.Equal(t, results[0], idx)
	}
}

func TestSessionTracker_CapsTrackedSessions(t *testing.T) {
	tracker, err := NewSessionTracker(4)
	require.NoError(t, err)

	for _, formID := range []string{"a", "b", "c", "d", "e", "f"} {
		tracker.GroupIndex(formID, 0)
	}

	assert.LessOrEqual(t, tracker.Sessions(), 4)
}

func TestFormID_StableAndOrderSensitive(t *testing.T) {
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)

	fields := []models.Field{
		{FieldID: "f1", Label: "First Name"},
		{FieldID: "f2", Label: "Last Name"},
	}
	reordered := []models.Field{
		{FieldID: "f2", Label: "Last Name"},
		{FieldID: "f1", Label: "First Name"},
	}

	assert.Equal(t, tracker.FormID(fields), tracker.FormID(fields))
	assert.NotEqual(t, tracker.FormID(fields), tracker.FormID(reordered))
}
