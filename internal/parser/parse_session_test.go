package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starinfo/extension/pkg/core"
)

func TestParseGameState(t *testing.T) {
	p := newTestParser()

	change, err := p.ParseGameState([]string{"hopping", "302"})
	require.NoError(t, err)
	assert.Equal(t, core.GameStateHopping, change.State)
	assert.Equal(t, 302, change.World)
	assert.True(t, change.State.IsWorldTransition())

	change, err = p.ParseGameState([]string{"LOGGED_IN"})
	require.NoError(t, err)
	assert.Equal(t, core.GameStateLoggedIn, change.State)
	assert.Zero(t, change.World)
	assert.False(t, change.State.IsWorldTransition())

	_, err = p.ParseGameState(nil)
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, err = p.ParseGameState([]string{"LOGGED_IN", "three-oh-one"})
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestParseConfigChange(t *testing.T) {
	p := newTestParser()

	change, err := p.ParseConfigChange([]string{`"textColor"`, `"#00ff00"`})
	require.NoError(t, err)
	assert.Equal(t, ConfigChange{Key: "textColor", Value: "#00ff00"}, change)

	_, err = p.ParseConfigChange([]string{"showMiners"})
	assert.ErrorIs(t, err, ErrMissingArgs)
}
