package testutil

import (
	"errors"
	"sync"
)

// MockAds implements ads.RewardedAds. Show completes or fails synchronously
// unless Hold is set, in which case the callbacks are parked until Finish.
type MockAds struct {
	mu          sync.Mutex
	Ready       bool
	ShowErr     error
	Hold        bool
	GameID      string
	LoadCalls   []string
	ShowCalls   []string
	pendingDone func()
	pendingFail func(error)
}

func (m *MockAds) Initialize(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameID = gameID
	return nil
}

func (m *MockAds) LoadRewardedAd(placementID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls = append(m.LoadCalls, placementID)
}

func (m *MockAds) IsAdReady(_ string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Ready
}

func (m *MockAds) ShowRewardedAd(placementID string, onCompleted func(), onFailed func(error)) {
	m.mu.Lock()
	m.ShowCalls = append(m.ShowCalls, placementID)
	if m.Hold {
		m.pendingDone, m.pendingFail = onCompleted, onFailed
		m.mu.Unlock()
		return
	}
	err := m.ShowErr
	m.mu.Unlock()

	if err != nil {
		onFailed(err)
		return
	}
	onCompleted()
}

// Finish releases a held show; a nil err completes it.
func (m *MockAds) Finish(err error) error {
	m.mu.Lock()
	done, fail := m.pendingDone, m.pendingFail
	m.pendingDone, m.pendingFail = nil, nil
	m.mu.Unlock()

	if done == nil {
		return errors.New("no ad is being shown")
	}
	if err != nil {
		fail(err)
		return nil
	}
	done()
	return nil
}

func (m *MockAds) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LoadCalls)
}

func (m *MockAds) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ShowCalls)
}

func (m *MockAds) Showing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingDone != nil
}
