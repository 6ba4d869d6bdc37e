package handlers

import (
	"fmt"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/display"
	"github.com/starinfo/extension/internal/star"
)

// MenuCopy is the menu entry offered on an examined star.
const MenuCopy = "Copy"

func (s *Service) handleMenuExamine(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseGameObject(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse examined object: %w", err)
	}
	if !config.GetStarConfig().CopyToClipboard || star.TierOf(obj.ID) < 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	promoted := s.registry.Promoted()
	if promoted == nil || promoted.Location() != obj.Location {
		return nil, nil
	}
	return MenuCopy, nil
}

func (s *Service) handleMenuCopy(e dispatcher.Event) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promoted := s.registry.Promoted()
	if promoted == nil {
		return nil, nil
	}

	text := display.Summary(promoted, s.deps.Sites, s.deps.Session.Now())
	if s.deps.Clipboard != nil {
		if err := s.deps.Clipboard.Copy(text); err != nil {
			return nil, fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	s.chat(ChatGame, display.CopiedMessage)
	return text, nil
}

func (s *Service) handleOverlayText(e dispatcher.Event) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, color, ok := s.reconciler.Overlay(s.registry.Promoted())
	if !ok {
		return nil, nil
	}
	return []string{text, color}, nil
}
