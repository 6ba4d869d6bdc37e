package handlers

import (
	"fmt"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/display"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

// Results of the object commands.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultIgnored = "ignored"
	ResultQueued  = "queued"
	ResultOK      = "ok"
)

func (s *Service) handleObjectSpawned(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseGameObject(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse object: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, created := s.registry.OnObjectSpawned(obj, s.deps.Session.World())
	if st == nil {
		return ResultIgnored, nil
	}

	if created {
		s.starCreated(st)
		if config.GetStarConfig().AddToChat {
			s.chat(ChatConsole, display.SpawnMessage(st, s.deps.Sites))
		}
	}
	s.reconcile()

	if created {
		return ResultCreated, nil
	}
	return ResultUpdated, nil
}

func (s *Service) handleObjectDespawned(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseGameObject(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse object: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.OnObjectDespawned(obj) {
		return ResultIgnored, nil
	}
	return ResultQueued, nil
}

func (s *Service) handleNPCSpawned(e dispatcher.Event) (any, error) {
	npc, err := s.deps.Parser.ParseNPC(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse npc: %w", err)
	}
	if !star.IsStarNPC(npc.ID) {
		return ResultIgnored, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.registry.Find(npc.Location)
	st := s.registry.OnNPCSpawned(npc, s.deps.Session.World())
	if !existed {
		s.starCreated(st)
	}
	s.reconcile()
	return ResultOK, nil
}

func (s *Service) handleNPCDespawned(e dispatcher.Event) (any, error) {
	npc, err := s.deps.Parser.ParseNPC(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse npc: %w", err)
	}
	if !star.IsStarNPC(npc.ID) {
		return ResultIgnored, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.OnNPCDespawned(npc) {
		return ResultIgnored, nil
	}
	s.reconcile()
	return ResultOK, nil
}

func (s *Service) handleNPCHealth(e dispatcher.Event) (any, error) {
	h, err := s.deps.Parser.ParseNPCHealth(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse npc health: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.UpdateNPCHealth(h.Index, h.Ratio, h.Scale) {
		return ResultIgnored, nil
	}
	s.reconcile()
	return ResultOK, nil
}

// starCreated records a new star and logs it.
func (s *Service) starCreated(st *star.Star) {
	s.updateTracked()
	s.writeLog("star", fmt.Sprintf("Tracking star %d: tier %d on world %d at %s",
		st.ID(), st.Tier(), st.World(), s.deps.Sites.Describe(st.Location())), "INFO")

	if s.deps.Session.GetSession() == nil {
		return
	}
	site, _ := s.deps.Sites.Name(st.Location())
	s.deps.Recorder.Sighted(core.StarSighting{
		StarID:   st.ID(),
		Time:     st.FirstSeen(),
		Tick:     s.lastTick.Count,
		World:    st.World(),
		Tier:     st.Tier(),
		Location: st.Location(),
		Site:     site,
	})
}
