package handlers

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/geo"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

func (s *Service) handleTick(e dispatcher.Event) (any, error) {
	tick, err := s.deps.Parser.ParseTick(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tick: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTick = tick
	s.runTick(tick)
	return ResultOK, nil
}

// runTick is the per-tick pipeline: sweep, measure, reconcile, record.
func (s *Service) runTick(tick core.Tick) {
	cfg := config.GetStarConfig()

	s.sweep(tick, cfg.RemoveDistance)
	if cfg.ShowMiners {
		s.measure(tick)
	}
	s.reconcile()
	s.record(tick)
}

// sweep drops despawned stars and stars beyond maxDistance. Without an
// observer nothing is out of range.
func (s *Service) sweep(tick core.Tick, maxDistance int) {
	distance := func(core.WorldPoint) int { return 0 }
	if tick.Local != nil {
		local := *tick.Local
		distance = func(p core.WorldPoint) int { return geo.Distance(local, p) }
	}

	removed := s.registry.Sweep(distance, maxDistance)
	if len(removed) == 0 {
		return
	}
	s.recordRemovals(removed)
	s.updateTracked()
}

// measure updates the miner count of the promoted star.
func (s *Service) measure(tick core.Tick) {
	promoted := s.registry.Promoted()
	if promoted == nil {
		return
	}
	miners := s.tracker.Update(promoted, tick)
	if n, err := strconv.Atoi(miners); err == nil {
		s.metrics.countedMiners(n)
	}
}

// record writes a state sample for every star whose tier, health or miner
// count changed since the last sample.
func (s *Service) record(tick core.Tick) {
	if s.deps.Session.GetSession() == nil {
		return
	}
	now := s.deps.Session.Now()

	for _, st := range s.registry.Stars() {
		state := recordedState{tier: st.Tier(), health: st.Health(), miners: st.Miners()}
		if last, ok := s.recorded[st.ID()]; ok && last == state {
			continue
		}
		s.recorded[st.ID()] = state

		sample := core.StarState{
			StarID: st.ID(),
			Time:   now,
			Tick:   tick.Count,
			Tier:   state.tier,
			Health: state.health,
		}
		if n, err := strconv.Atoi(state.miners); err == nil {
			sample.Miners = &n
		}
		s.deps.Recorder.State(sample)
	}
}

func (s *Service) recordRemovals(removed []star.Removal) {
	now := s.deps.Session.Now()
	active := s.deps.Session.GetSession() != nil

	for _, r := range removed {
		st := r.Star
		delete(s.recorded, st.ID())
		s.metrics.starRemoved(string(r.Reason))
		s.writeLog("star", fmt.Sprintf("Removed star %d (%s), first seen %s",
			st.ID(), r.Reason, humanize.RelTime(st.FirstSeen(), now, "ago", "from now")), "INFO")

		if !active {
			continue
		}
		s.deps.Recorder.Removed(core.StarRemoval{
			StarID:  st.ID(),
			Time:    now,
			Tick:    s.lastTick.Count,
			Reason:  string(r.Reason),
			Tracked: now.Sub(st.FirstSeen()),
		})
	}
}
