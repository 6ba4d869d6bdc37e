package miner

// pickaxes maps mining animation IDs to the pickaxe's mining duration in ticks.
// Only membership is used for counting; the weights are kept for estimating
// the time left on a star.
var pickaxes = map[int]float64{
	625:  8.0,      // bronze
	626:  7.0,      // iron
	627:  6.0,      // steel
	3873: 5.0,      // black
	629:  5.0,      // mithril
	628:  3.0,      // adamant
	624:  3.0,      // rune
	8313: 3.0,      // gilded
	8347: 2.75,     // crystal
	7139: 17.0 / 6, // dragon
	642:  17.0 / 6, // dragon (upgraded)
	8346: 17.0 / 6, // dragon (or)
	8887: 17.0 / 6, // dragon (or, trailblazer)
	4482: 17.0 / 6, // infernal
	7283: 17.0 / 6, // 3rd age
	8787: 17.0 / 6, // trailblazer
	8788: 17.0 / 6,
	8789: 17.0 / 6,
}

// IsMining reports whether animation is a pickaxe mining animation.
func IsMining(animation int) bool {
	_, ok := pickaxes[animation]
	return ok
}

// Weight returns the mining duration of the pickaxe behind animation.
func Weight(animation int) (float64, bool) {
	w, ok := pickaxes[animation]
	return w, ok
}
