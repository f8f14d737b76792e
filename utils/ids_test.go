package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, GenerateID())
}

func TestNewSortableID_Monotonic(t *testing.T) {
	prev := NewSortableID()
	for i := 0; i < 100; i++ {
		next := NewSortableID()
		_, err := ulid.Parse(next)
		require.NoError(t, err)
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestConfigure(t *testing.T) {
	require.NoError(t, Configure("debug"))
	require.NoError(t, Configure("info"))
	require.Error(t, Configure("loud"))
}
