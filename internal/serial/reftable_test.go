package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTableAddAsset(t *testing.T) {
	table := NewRefTable()
	table.AddAsset("id-1", "clock")

	name, ok := table.NameByID("id-1")
	require.True(t, ok)
	assert.Equal(t, "clock", name)

	id, ok := table.IDByName("clock")
	require.True(t, ok)
	assert.Equal(t, "id-1", id)

	_, ok = table.NameByID("id-2")
	assert.False(t, ok)
	_, ok = table.IDByName("horn")
	assert.False(t, ok)
}

func TestRefTableRegisterSynthesizesIDs(t *testing.T) {
	table := NewRefTable()
	first := table.Register("clock")
	second := table.Register("horn")

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	id, ok := table.IDByName("clock")
	require.True(t, ok)
	assert.Equal(t, first, id)
}

func TestRefTableDuplicateNameLastWins(t *testing.T) {
	table := NewRefTable()
	table.AddAsset("id-1", "clock")
	table.AddAsset("id-2", "clock")

	id, ok := table.IDByName("clock")
	require.True(t, ok)
	assert.Equal(t, "id-2", id)
}
