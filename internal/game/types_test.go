// internal/game/types_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry(Options{})

	gt, ok := r.Lookup("")
	require.True(t, ok)
	assert.Equal(t, TypeDhihaEi, gt.ID)
	assert.Equal(t, 4, gt.MaxPlayers)
	assert.Equal(t, 4, gt.QuickMatchSize)
	assert.Equal(t, 30*time.Second, gt.ConfirmWindow)
	assert.True(t, gt.Teamed)
	assert.True(t, gt.SupportsQuickMatch())
}

func TestRegistryTunables(t *testing.T) {
	r := NewRegistry(Options{ConfirmWindow: 10 * time.Second, QuickMatchSize: 4})
	gt := r.Default()
	assert.Equal(t, 10*time.Second, gt.ConfirmWindow)
}

func TestCasualTypeHasNoQuickMatch(t *testing.T) {
	r := NewRegistry(Options{})
	gt, ok := r.Lookup(TypeCasual)
	require.True(t, ok)
	assert.False(t, gt.SupportsQuickMatch())
	assert.False(t, gt.Teamed)
	assert.Equal(t, 2, gt.MinPlayers)
	assert.Equal(t, 4, gt.MaxPlayers)
}

func TestLookupUnknown(t *testing.T) {
	r := NewRegistry(Options{})
	_, ok := r.Lookup("whist")
	assert.False(t, ok)
}

func TestTeamLayout(t *testing.T) {
	gt := Type{MaxPlayers: 4, Teamed: true}
	assert.Equal(t, []int{0, 2}, gt.TeamPositions(0))
	assert.Equal(t, []int{1, 3}, gt.TeamPositions(1))

	assert.Equal(t, 0, TeamOf(0))
	assert.Equal(t, 1, TeamOf(1))
	assert.Equal(t, 0, TeamOf(2))
	assert.Equal(t, 1, TeamOf(3))
}
