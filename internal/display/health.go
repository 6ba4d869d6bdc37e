package display

import (
	"fmt"

	"github.com/starinfo/extension/internal/star"
)

// HealthText formats a star's health for display. The last valid reading is
// kept for the star it was taken from and reused while that star's NPC
// reports no health bar.
type HealthText struct {
	starID uint64
	text   string
}

// Text returns " NN%" for s, the remembered text for the same star when its
// reading is invalid, or an empty string.
func (h *HealthText) Text(s *star.Star) string {
	if s == nil {
		return ""
	}
	if s.NPC() == nil {
		return ""
	}
	if health := s.Health(); health >= 0 {
		h.starID = s.ID()
		h.text = fmt.Sprintf(" %d%%", health)
		return h.text
	}
	if s.ID() == h.starID {
		return h.text
	}
	return ""
}

// Forget drops the remembered text unless it belongs to the star with id.
func (h *HealthText) Forget(id uint64) {
	if h.starID != id {
		h.Reset()
	}
}

func (h *HealthText) Reset() {
	h.starID = 0
	h.text = ""
}
