// Package display turns the registry's promoted star into host side effects:
// the info box, the hint arrow, the overlay text and the copied summary.
package display

import "github.com/starinfo/extension/pkg/core"

// StarItemID is the item whose icon is shown on the star info box.
const StarItemID = 25547

// Badge is the content of the star info box.
type Badge struct {
	ItemID  int
	Text    string
	Tooltip string
	Color   string
}

// Host applies display side effects. Implementations must tolerate
// redundant remove and clear calls.
type Host interface {
	SetInfoBox(b Badge) error
	RemoveInfoBox() error
	SetHintArrow(p core.WorldPoint) error
	ClearHintArrow() error
}

// Options are the display toggles read from configuration.
type Options struct {
	ShowInfoBox   bool
	ShowHintArrow bool
	TextColor     string
}
