package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/starinfo/extension/internal/star"
)

// OverlayText returns the label drawn above a star: "T<tier> <miners>M"
// followed by the health text.
func OverlayText(s *star.Star, health string) string {
	return fmt.Sprintf("T%d %sM%s", s.Tier(), s.Miners(), health)
}

// Summary returns the text copied to the clipboard for s.
//
//	W301 T6 50% - 3 Miners - Rimmington mine <t:1700000000:R>
func Summary(s *star.Star, sites *star.Sites, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "W%d T%d ", s.World(), s.Tier())
	if health := s.Health(); health >= 0 {
		fmt.Fprintf(&b, "%d%% ", health)
	}
	if s.Miners() != star.UnknownMiners {
		fmt.Fprintf(&b, "- %s Miners - ", s.Miners())
	}
	b.WriteString(sites.Describe(s.Location()))
	b.WriteString(" ")
	b.WriteString(RelativeTimestamp(now))
	return b.String()
}

// RelativeTimestamp formats t as a Discord relative timestamp.
func RelativeTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// SpawnMessage is the chat line announcing a newly tracked star.
func SpawnMessage(s *star.Star, sites *star.Sites) string {
	if s.Tier() > 0 {
		return fmt.Sprintf("Star T%d found on world %d at %s.", s.Tier(), s.World(), sites.Describe(s.Location()))
	}
	return fmt.Sprintf("Star found on world %d at %s.", s.World(), sites.Describe(s.Location()))
}

// CopiedMessage is the chat line shown after a summary is copied.
const CopiedMessage = "Copied star information to clipboard."

func tooltip(s *star.Star, health string) string {
	lines := []string{
		fmt.Sprintf("World %d", s.World()),
		fmt.Sprintf("Tier %d", s.Tier()),
	}
	if s.Miners() != star.UnknownMiners {
		lines = append(lines, fmt.Sprintf("Miners %s", s.Miners()))
	}
	if health != "" {
		lines = append(lines, "Health"+health)
	}
	return strings.Join(lines, "</br>")
}
