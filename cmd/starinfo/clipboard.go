package main

import (
	"log/slog"

	"golang.design/x/clipboard"

	"github.com/starinfo/extension/internal/handlers"
)

// systemClipboard writes to the OS clipboard and hands the text to the host
// when no clipboard is available (headless or sandboxed clients).
type systemClipboard struct {
	available bool
	fallback  handlers.Clipboard
}

func newClipboard(fallback handlers.Clipboard, logger *slog.Logger) *systemClipboard {
	c := &systemClipboard{fallback: fallback}
	if err := clipboard.Init(); err != nil {
		logger.Info("System clipboard unavailable, copying through the host", "error", err)
		return c
	}
	c.available = true
	return c
}

func (c *systemClipboard) Copy(text string) error {
	if !c.available {
		return c.fallback.Copy(text)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
