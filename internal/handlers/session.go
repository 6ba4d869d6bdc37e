package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/star"
)

// ErrUnknownSetting is returned for a :CONFIG:CHANGED: key the extension does not own.
var ErrUnknownSetting = errors.New("unknown setting")

func (s *Service) handleSessionStart(e dispatcher.Event) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Session.GetSession() != nil {
		s.stopSession()
	}
	s.reset(star.RemovedReset)
	s.reconcile()

	sess := s.deps.Session.Start()
	sess.Settings = config.GetStarConfig().Settings()
	if err := s.deps.Recorder.StartSession(sess); err != nil {
		return nil, fmt.Errorf("failed to start recording: %w", err)
	}

	s.writeLog(":SESSION:START:", fmt.Sprintf("Session %s started on world %d", sess.ID, sess.World), "INFO")
	return ResultOK, nil
}

func (s *Service) handleSessionStop(e dispatcher.Event) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stopSession(); err != nil {
		return nil, err
	}
	return ResultOK, nil
}

// stopSession clears every tracked star and closes the recording.
func (s *Service) stopSession() error {
	s.reset(star.RemovedReset)
	s.reconcile()

	sess := s.deps.Session.Stop()
	if sess == nil {
		return nil
	}
	if err := s.deps.Recorder.EndSession(); err != nil {
		return fmt.Errorf("failed to end recording: %w", err)
	}
	s.writeLog(":SESSION:STOP:", fmt.Sprintf("Session %s stopped", sess.ID), "INFO")
	return nil
}

func (s *Service) handleGameState(e dispatcher.Event) (any, error) {
	change, err := s.deps.Parser.ParseGameState(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deps.Session.SetGameState(change.State, change.World)
	if change.State.IsWorldTransition() {
		s.reset(star.RemovedReset)
		s.reconcile()
	}
	return ResultOK, nil
}

func (s *Service) handleConfigChanged(e dispatcher.Event) (any, error) {
	change, err := s.deps.Parser.ParseConfigChange(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config change: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch change.Key {
	case config.KeyShowInfoBox, config.KeyShowHintArrow, config.KeyCopyToClipboard, config.KeyAddToChat:
		v, err := strconv.ParseBool(change.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", change.Key, err)
		}
		config.Set(change.Key, v)

	case config.KeyShowMiners:
		v, err := strconv.ParseBool(change.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", change.Key, err)
		}
		config.Set(change.Key, v)
		if v {
			s.tracker.Update(s.registry.Promoted(), s.lastTick)
		}

	case config.KeyRemoveDistance:
		v, err := strconv.Atoi(change.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", change.Key, err)
		}
		config.Set(change.Key, v)

	case config.KeyTextColor:
		c, err := config.ParseColor(change.Value)
		if err != nil {
			return nil, err
		}
		config.Set(change.Key, c.Hex())

	case config.KeyLocationsFile:
		sites, err := star.LoadSites(change.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to load landing sites: %w", err)
		}
		config.Set(change.Key, change.Value)
		s.deps.Sites = sites

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, change.Key)
	}

	err = s.reconciler.SetOptions(displayOptions(config.GetStarConfig()), s.registry.Promoted())
	if err != nil {
		s.writeLog(":CONFIG:CHANGED:", fmt.Sprintf("Host display update failed: %v", err), "WARN")
	}
	return ResultOK, nil
}
