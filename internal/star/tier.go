package star

// NPCID is the invisible NPC that carries a star's health bar.
const NPCID = 10629

// tiers maps crashed star object IDs to their tier.
var tiers = map[int]int{
	41020: 1,
	41021: 2,
	41223: 3,
	41224: 4,
	41225: 5,
	41226: 6,
	41227: 7,
	41228: 8,
	41229: 9,
}

// TierOf returns the tier of a crashed star object, or -1 for any other object.
func TierOf(objectID int) int {
	if tier, ok := tiers[objectID]; ok {
		return tier
	}
	return -1
}

// ObjectIDForTier returns the object ID of the given tier, or -1.
func ObjectIDForTier(tier int) int {
	for id, t := range tiers {
		if t == tier {
			return id
		}
	}
	return -1
}

// IsStarNPC reports whether npcID is the star health NPC.
func IsStarNPC(npcID int) bool {
	return npcID == NPCID
}
