package parser

import (
	"strings"

	"github.com/starinfo/extension/pkg/core"
)

// GameStateChange is a client state change and the world it happened on.
type GameStateChange struct {
	State core.GameState
	World int
}

// ParseGameState parses [state, world]. The world is optional and 0 when absent.
func (p *Parser) ParseGameState(data []string) (GameStateChange, error) {
	var change GameStateChange
	if err := requireArgs("game state", data, 1); err != nil {
		return change, err
	}
	data = clean(data)

	change.State = core.GameState(strings.ToUpper(data[0]))
	if len(data) >= 2 && data[1] != "" {
		world, err := parseInt("world", data[1])
		if err != nil {
			return change, err
		}
		change.World = world
	}
	return change, nil
}

// ConfigChange is a single setting changed by the user.
type ConfigChange struct {
	Key   string
	Value string
}

// ParseConfigChange parses [key, value].
func (p *Parser) ParseConfigChange(data []string) (ConfigChange, error) {
	if err := requireArgs("config change", data, 2); err != nil {
		return ConfigChange{}, err
	}
	data = clean(data)
	return ConfigChange{Key: data[0], Value: data[1]}, nil
}
