package parser

import (
	"encoding/json"
	"fmt"

	"github.com/starinfo/extension/pkg/core"
)

// playerWire is a player as the host serialises it on :TICK:.
type playerWire struct {
	Name        string `json:"name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Plane       int    `json:"plane"`
	Orientation int    `json:"orientation"`
	Animation   int    `json:"animation"`
	HealthRatio *int   `json:"healthRatio"`
	HealthScale *int   `json:"healthScale"`
}

// ParseTick parses [tick, localX, localY, localPlane, playersJSON].
// Empty local coordinates mean the host could not resolve the local player.
// A missing player list is an empty snapshot.
func (p *Parser) ParseTick(data []string) (core.Tick, error) {
	var tick core.Tick
	if err := requireArgs("tick", data, 4); err != nil {
		return tick, err
	}
	// the player list is JSON and keeps its quotes
	var players string
	if len(data) >= 5 {
		players = data[4]
	}
	data = clean(data[:4])

	count, err := parseCounter("tick", data[0])
	if err != nil {
		return tick, err
	}
	tick.Count = count

	if data[1] != "" && data[2] != "" && data[3] != "" {
		v, err := parseInts(data[1:], "localX", "localY", "localPlane")
		if err != nil {
			return tick, err
		}
		tick.Local = &core.WorldPoint{X: v[0], Y: v[1], Plane: v[2]}
	}

	tick.Players, err = p.parsePlayers(players)
	if err != nil {
		return tick, err
	}
	return tick, nil
}

func (p *Parser) parsePlayers(raw string) ([]core.Player, error) {
	if raw == "" {
		return nil, nil
	}

	var wire []playerWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("error unmarshalling players: %w", err)
	}

	players := make([]core.Player, 0, len(wire))
	for _, w := range wire {
		if w.Name == "" {
			p.logger.Debug("Skipping player without name", "x", w.X, "y", w.Y)
			continue
		}
		player := core.Player{
			Name:        w.Name,
			Location:    core.WorldPoint{X: w.X, Y: w.Y, Plane: w.Plane},
			Orientation: w.Orientation,
			Animation:   w.Animation,
			HealthRatio: -1,
			HealthScale: -1,
		}
		if w.HealthRatio != nil && w.HealthScale != nil {
			player.HealthRatio = *w.HealthRatio
			player.HealthScale = *w.HealthScale
		}
		players = append(players, player)
	}
	return players, nil
}
