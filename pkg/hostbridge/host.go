package hostbridge

import (
	"github.com/starinfo/extension/internal/display"
	"github.com/starinfo/extension/pkg/core"
)

// Host turns display and chat effects into callbacks.
type Host struct {
	b *Bridge
}

// Host returns the callback-backed host for b.
func (b *Bridge) Host() *Host {
	return &Host{b: b}
}

func (h *Host) SetInfoBox(badge display.Badge) error {
	return h.b.WriteCallback(CallbackInfoBoxSet, badge.ItemID, badge.Text, badge.Tooltip, badge.Color)
}

func (h *Host) RemoveInfoBox() error {
	return h.b.WriteCallback(CallbackInfoBoxRemove)
}

func (h *Host) SetHintArrow(p core.WorldPoint) error {
	return h.b.WriteCallback(CallbackHintSet, p.X, p.Y, p.Plane)
}

func (h *Host) ClearHintArrow() error {
	return h.b.WriteCallback(CallbackHintClear)
}

// Chat prints message in the client chat box with the given message type.
func (h *Host) Chat(chatType, message string) error {
	return h.b.WriteCallback(CallbackChat, chatType, message)
}

// Copy asks the host to put text on the clipboard.
func (h *Host) Copy(text string) error {
	return h.b.WriteCallback(CallbackClipboard, text)
}
