// internal/storage/memory/export.go
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// SessionExport is the root JSON structure
type SessionExport struct {
	SessionID        string         `json:"sessionId"`
	ExtensionVersion string         `json:"extensionVersion"`
	World            int            `json:"world"`
	StartTime        time.Time      `json:"startTime"`
	EndTime          time.Time      `json:"endTime"`
	Settings         map[string]any `json:"settings,omitempty"`
	Stars            []StarJSON     `json:"stars"`
}

// StarJSON is one tracked star.
// Location is [x, y, plane]; each state is [tick, tier, health, miners|null].
type StarJSON struct {
	ID        uint64       `json:"id"`
	Tier      int          `json:"tier"`
	World     int          `json:"world"`
	Location  [3]int       `json:"location"`
	Site      string       `json:"site,omitempty"`
	FirstSeen time.Time    `json:"firstSeen"`
	FirstTick int          `json:"firstTick"`
	States    [][]any      `json:"states"`
	Removed   *RemovalJSON `json:"removed,omitempty"`
}

// RemovalJSON describes why and when a star left the registry
type RemovalJSON struct {
	Tick           int     `json:"tick"`
	Reason         string  `json:"reason"`
	TrackedSeconds float64 `json:"trackedSeconds"`
}

// exportJSON writes the session data to a JSON file, gzipped when configured
func (b *Backend) exportJSON(end time.Time) error {
	export := b.buildExport(end)

	timestamp := b.session.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("starinfo_w%d_%s.json", b.session.World, timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)
	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport(end time.Time) SessionExport {
	export := SessionExport{
		SessionID:        b.session.ID,
		ExtensionVersion: b.session.ExtensionVersion,
		World:            b.session.World,
		StartTime:        b.session.StartTime,
		EndTime:          end,
		Settings:         b.session.Settings,
		Stars:            make([]StarJSON, 0, len(b.order)),
	}

	for _, id := range b.order {
		record := b.stars[id]
		s := record.Sighting
		star := StarJSON{
			ID:        s.StarID,
			Tier:      s.Tier,
			World:     s.World,
			Location:  [3]int{s.Location.X, s.Location.Y, s.Location.Plane},
			Site:      s.Site,
			FirstSeen: s.Time,
			FirstTick: s.Tick,
			States:    make([][]any, 0, len(record.States)),
		}

		for _, st := range record.States {
			var miners any
			if st.Miners != nil {
				miners = *st.Miners
			}
			star.States = append(star.States, []any{st.Tick, st.Tier, st.Health, miners})
		}

		if r := record.Removal; r != nil {
			star.Removed = &RemovalJSON{
				Tick:           r.Tick,
				Reason:         r.Reason,
				TrackedSeconds: r.Tracked.Seconds(),
			}
		}

		export.Stars = append(export.Stars, star)
	}

	return export
}

func writeExport(path string, data SessionExport, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if !compress {
		return encode(f, data)
	}

	gzWriter := gzip.NewWriter(f)
	if err := encode(gzWriter, data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

func encode(w io.Writer, data SessionExport) error {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}
