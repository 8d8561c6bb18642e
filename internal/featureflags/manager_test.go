package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledBooleanValues(t *testing.T) {
	m := NewManager("disable_signup=on,disable_comments=off,maintenance=true,beta_player=false,dark=1,legacy=0")

	assert.True(t, m.Enabled("disable_signup", 1))
	assert.True(t, m.Enabled("maintenance", 1))
	assert.True(t, m.Enabled("dark", 1))

	assert.False(t, m.Enabled("disable_comments", 1))
	assert.False(t, m.Enabled("beta_player", 1))
	assert.False(t, m.Enabled("legacy", 1))

	// Unknown flags are off: a missing kill switch leaves the feature on.
	assert.False(t, m.Enabled("disable_bookmarks", 1))
}

func TestEnabledPercentageRollout(t *testing.T) {
	m := NewManager("full=100%,dark=0%,player_v2=25%")

	assert.True(t, m.Enabled("full", 7))
	assert.False(t, m.Enabled("dark", 7))

	// Per-user evaluation is stable across calls.
	first := m.Enabled("player_v2", 42)
	for range 5 {
		assert.Equal(t, first, m.Enabled("player_v2", 42))
	}

	// Anonymous viewers never fall into a partial rollout.
	assert.False(t, m.Enabled("player_v2", 0))

	// Roughly a quarter of users land in a 25% rollout.
	in := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("player_v2", uid) {
			in++
		}
	}
	assert.Greater(t, in, 150)
	assert.Less(t, in, 350)
}

func TestManagerParsingAndSnapshot(t *testing.T) {
	m := NewManager(" junk ,disable_signup=on, player_v2 = 20% ,disable_comments=off ")

	raw := m.Raw()
	require.Len(t, raw, 3)
	assert.Equal(t, "on", raw["disable_signup"])
	assert.Equal(t, "20%", raw["player_v2"])
	assert.Equal(t, "off", raw["disable_comments"])

	snap := m.Snapshot(123)
	require.Len(t, snap, 3)
	assert.True(t, snap["disable_signup"])
	assert.False(t, snap["disable_comments"])
}

func TestNilManagerIsAllOff(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("disable_signup", 1))
}
