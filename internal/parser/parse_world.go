package parser

import (
	"github.com/starinfo/extension/pkg/core"
)

// ParseGameObject parses [objectId, x, y, plane].
func (p *Parser) ParseGameObject(data []string) (core.GameObject, error) {
	var obj core.GameObject
	if err := requireArgs("game object", data, 4); err != nil {
		return obj, err
	}
	data = clean(data)

	v, err := parseInts(data, "objectId", "x", "y", "plane")
	if err != nil {
		return obj, err
	}
	obj.ID = v[0]
	obj.Location = core.WorldPoint{X: v[1], Y: v[2], Plane: v[3]}
	return obj, nil
}

// ParseNPC parses [npcId, index, x, y, plane, healthRatio, healthScale].
// The health pair is optional; without it the NPC has no health reading.
func (p *Parser) ParseNPC(data []string) (core.NPC, error) {
	npc := core.NPC{HealthRatio: -1, HealthScale: -1}
	if err := requireArgs("npc", data, 5); err != nil {
		return npc, err
	}
	data = clean(data)

	v, err := parseInts(data, "npcId", "index", "x", "y", "plane")
	if err != nil {
		return npc, err
	}
	npc.ID = v[0]
	npc.Index = v[1]
	npc.Location = core.WorldPoint{X: v[2], Y: v[3], Plane: v[4]}

	if len(data) >= 7 {
		health, err := parseInts(data[5:], "healthRatio", "healthScale")
		if err != nil {
			return npc, err
		}
		npc.HealthRatio = health[0]
		npc.HealthScale = health[1]
	}
	return npc, nil
}

// HealthUpdate is a new health bar reading for the NPC with Index.
type HealthUpdate struct {
	Index int
	Ratio int
	Scale int
}

// ParseNPCHealth parses [index, healthRatio, healthScale].
func (p *Parser) ParseNPCHealth(data []string) (HealthUpdate, error) {
	var h HealthUpdate
	if err := requireArgs("npc health", data, 3); err != nil {
		return h, err
	}
	data = clean(data)

	v, err := parseInts(data, "index", "healthRatio", "healthScale")
	if err != nil {
		return h, err
	}
	h.Index, h.Ratio, h.Scale = v[0], v[1], v[2]
	return h, nil
}
