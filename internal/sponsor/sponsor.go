// internal/sponsor/sponsor.go
package sponsor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sponsor is the active campaign configuration for one named slot.
type Sponsor struct {
	Enabled bool   `json:"enabled"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	URL     string `json:"url"`
	Callout string `json:"callout"`
}

// slotState pairs a slot's sponsor config with its counters.
type slotState struct {
	Sponsor     Sponsor `json:"sponsor"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
}

type fileFormat struct {
	Slots map[string]*slotState `json:"slots"`
}

// Service is the sponsor/campaign collaborator. The game coordinator never
// calls into it; only the HTTP surface does. Persistence failures are logged
// and must not block anything else.
type Service struct {
	log  *logrus.Logger
	path string

	mu    sync.Mutex
	slots map[string]*slotState
}

// Load reads the sponsor file. A missing file yields an empty service: every
// slot reads as disabled.
func Load(log *logrus.Logger, path string) (*Service, error) {
	s := &Service{log: log, path: path, slots: make(map[string]*slotState)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read sponsor config: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sponsor config: %w", err)
	}
	if f.Slots != nil {
		s.slots = f.Slots
	}
	return s, nil
}

// ActiveSponsor returns the sponsor configuration for a slot, if one is
// configured and enabled.
func (s *Service) ActiveSponsor(slot string) (Sponsor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.slots[slot]
	if !ok || !st.Sponsor.Enabled {
		return Sponsor{}, false
	}
	return st.Sponsor, true
}

// RecordImpression bumps a slot's impression counter.
func (s *Service) RecordImpression(slot string) {
	s.bump(slot, func(st *slotState) { st.Impressions++ })
}

// RecordClick bumps a slot's click counter.
func (s *Service) RecordClick(slot string) {
	s.bump(slot, func(st *slotState) { st.Clicks++ })
}

func (s *Service) bump(slot string, fn func(*slotState)) {
	s.mu.Lock()
	st, ok := s.slots[slot]
	if !ok {
		st = &slotState{}
		s.slots[slot] = st
	}
	fn(st)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		s.log.Warnf("sponsor: persist counters: %v", err)
	}
}

// Stats returns a slot's current counters.
func (s *Service) Stats(slot string) (impressions, clicks int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.slots[slot]; ok {
		return st.Impressions, st.Clicks
	}
	return 0, 0
}

func (s *Service) persistLocked() error {
	data, err := json.MarshalIndent(fileFormat{Slots: s.slots}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
