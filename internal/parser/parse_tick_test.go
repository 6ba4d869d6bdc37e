package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starinfo/extension/pkg/core"
)

func TestParseTick(t *testing.T) {
	p := newTestParser()

	players := `[
		{"name":"Zezima","x":3028,"y":3348,"plane":0,"orientation":1536,"animation":624,"healthRatio":30,"healthScale":30},
		{"name":"Woox","x":3031,"y":3349,"plane":0,"orientation":512,"animation":-1},
		{"name":"","x":1,"y":1}
	]`

	tick, err := p.ParseTick([]string{"1042", "3030", "3350", "0", players})
	require.NoError(t, err)

	assert.Equal(t, 1042, tick.Count)
	require.NotNil(t, tick.Local)
	assert.Equal(t, core.WorldPoint{X: 3030, Y: 3350}, *tick.Local)

	require.Len(t, tick.Players, 2, "nameless players are skipped")
	assert.Equal(t, core.Player{
		Name:        "Zezima",
		Location:    core.WorldPoint{X: 3028, Y: 3348},
		Orientation: 1536,
		Animation:   624,
		HealthRatio: 30,
		HealthScale: 30,
	}, tick.Players[0])
	assert.Equal(t, "Woox", tick.Players[1].Name)
	assert.Equal(t, -1, tick.Players[1].HealthRatio, "missing health is unknown")
}

func TestParseTick_NoObserver(t *testing.T) {
	p := newTestParser()

	tick, err := p.ParseTick([]string{"7", "", "", "", "[]"})
	require.NoError(t, err)
	assert.Nil(t, tick.Local)
	assert.Empty(t, tick.Players)
}

func TestParseTick_NoPlayers(t *testing.T) {
	p := newTestParser()

	tick, err := p.ParseTick([]string{"7.00", "1", "2", "0"})
	require.NoError(t, err)
	assert.Equal(t, 7, tick.Count)
	assert.Nil(t, tick.Players)
}

func TestParseTick_Errors(t *testing.T) {
	p := newTestParser()

	_, err := p.ParseTick([]string{"7"})
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, err = p.ParseTick([]string{"soon", "1", "2", "0"})
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = p.ParseTick([]string{"7", "1", "x", "0"})
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = p.ParseTick([]string{"7", "1", "2", "0", "{not json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error unmarshalling players")
}
