package ads

import (
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"math/rand"
	"sync"
	"time"
)

const defaultLoadLatency = 150 * time.Millisecond

// Simulated stands in for a mobile ad SDK. Loads fill with probability
// fillRate after a short latency; a shown ad completes after playback.
type Simulated struct {
	mu          sync.Mutex
	gameID      string
	ready       map[string]bool
	fillRate    float64
	playback    time.Duration
	loadLatency time.Duration
	testMode    bool
	logger      providers.Logger

	loads atomic.Int64
	shows atomic.Int64
}

func NewSimulated(conf structures.AdsConfig, logger providers.Logger) *Simulated {
	return &Simulated{
		ready:       make(map[string]bool),
		fillRate:    conf.FillRate,
		playback:    conf.Playback,
		loadLatency: defaultLoadLatency,
		testMode:    conf.TestMode,
		logger:      logger,
	}
}

func (s *Simulated) Initialize(gameID string) error {
	if gameID == "" {
		return ErrNotInitialized
	}
	s.mu.Lock()
	s.gameID = gameID
	s.mu.Unlock()
	s.logger.Infof(providers.TypeAds, "Ads initialized: game=%s testMode=%t", gameID, s.testMode)
	return nil
}

func (s *Simulated) initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID != ""
}

func (s *Simulated) LoadRewardedAd(placementID string) {
	s.loads.Inc()
	if !s.initialized() {
		s.logger.Warnf(providers.TypeAds, "Load %s skipped: %s", placementID, ErrNotInitialized)
		return
	}

	time.AfterFunc(s.loadLatency, func() {
		filled := s.testMode || rand.Float64() < s.fillRate
		s.mu.Lock()
		s.ready[placementID] = filled
		s.mu.Unlock()
		if filled {
			s.logger.Debugf(providers.TypeAds, "Rewarded ad loaded for %s", placementID)
		} else {
			s.logger.Warnf(providers.TypeAds, "No fill for %s", placementID)
		}
	})
}

func (s *Simulated) IsAdReady(placementID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready[placementID]
}

func (s *Simulated) ShowRewardedAd(placementID string, onCompleted func(), onFailed func(error)) {
	s.mu.Lock()
	ready := s.ready[placementID]
	// a loaded ad can be shown once
	s.ready[placementID] = false
	s.mu.Unlock()

	if !ready {
		go onFailed(ErrNotReady)
		return
	}

	s.shows.Inc()
	session := uuid.NewString()
	s.logger.Infof(providers.TypeAds, "Showing rewarded ad %s on %s", session, placementID)
	time.AfterFunc(s.playback, func() {
		s.logger.Infof(providers.TypeAds, "Rewarded ad %s completed", session)
		onCompleted()
	})
}

func (s *Simulated) Loads() int64 {
	return s.loads.Load()
}

func (s *Simulated) Shows() int64 {
	return s.shows.Load()
}
