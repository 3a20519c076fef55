package controllers

import (
	"betcodes/internal/codes"
	"betcodes/internal/models"
	"betcodes/internal/providers"
	"context"
	"sync"
	"time"
)

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockViewModel struct {
	lastQuery   codes.Query
	codes       models.Result[codes.CodesView]
	predictions models.Result[codes.PredictionsView]
}

func (m *mockViewModel) Codes(_ context.Context, q codes.Query) models.Result[codes.CodesView] {
	m.lastQuery = q
	return m.codes
}

func (m *mockViewModel) Predictions(_ context.Context, q codes.Query) models.Result[codes.PredictionsView] {
	m.lastQuery = q
	return m.predictions
}

type mockTimer struct {
	mu        sync.Mutex
	state     models.PremiumState
	watchErr  error
	purchases int
	logouts   int
	subs      []chan models.PremiumState
}

func newMockTimer() *mockTimer {
	return &mockTimer{state: models.DefaultPremiumState()}
}

func (m *mockTimer) State() models.PremiumState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockTimer) OnWatchAdClicked(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watchErr != nil {
		return m.watchErr
	}
	m.state = models.PremiumState{IsTimerActive: true, TimeRemaining: 20 * time.Minute, Access: models.AccessUnlocked}
	return nil
}

func (m *mockTimer) OnSubscriptionPurchased() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases++
	m.state = models.PremiumState{IsSubscribed: true, Access: models.AccessSubscribed}
}

func (m *mockTimer) OnLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logouts++
	m.state = models.DefaultPremiumState()
}

func (m *mockTimer) Subscribe() (<-chan models.PremiumState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan models.PremiumState, 1)
	ch <- m.state
	m.subs = append(m.subs, ch)
	return ch, func() {}
}

func (m *mockTimer) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *mockTimer) publish(state models.PremiumState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	for _, ch := range m.subs {
		ch <- state
	}
}

func (m *mockTimer) closeStreams() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

type mockRefresher struct {
	err   error
	calls int
}

func (m *mockRefresher) RefreshSubscription(_ context.Context) error {
	m.calls++
	return m.err
}
