package testutil

import (
	"betcodes/internal/models"
	"betcodes/internal/providers"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Contains reports whether any rendered message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(fmt.Sprintf(e.Format, e.Args...), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface with counters.
type MockMetrics struct {
	mu               sync.Mutex
	TimerStarts      int
	TimerExpirations int
	AdOutcomes       map[string]int
	AccessStates     []string
	Upstream         map[string]int
	Persisted        int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveUpstreamDuration(resource string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Upstream == nil {
		m.Upstream = make(map[string]int)
	}
	m.Upstream[resource]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) IncTimerStarts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimerStarts++
}
func (m *MockMetrics) IncTimerExpirations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimerExpirations++
}
func (m *MockMetrics) IncAdOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AdOutcomes == nil {
		m.AdOutcomes = make(map[string]int)
	}
	m.AdOutcomes[outcome]++
}
func (m *MockMetrics) SetAccessState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccessStates = append(m.AccessStates, state)
}

func (m *MockMetrics) Outcome(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AdOutcomes[outcome]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Pinned map[string]bool
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// SetFor ignores ttl; entries written this way are listed in Pinned.
func (m *MockCache) SetFor(key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	if m.Pinned == nil {
		m.Pinned = make(map[string]bool)
	}
	m.Pinned[key] = true
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements prefs.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockProfile implements profile.Client.
type MockProfile struct {
	mu       sync.Mutex
	Profile  *models.Profile
	Err      error
	Fetches  int
	LoggedIn bool
}

func (m *MockProfile) Fetch(_ context.Context) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profile, nil
}

func (m *MockProfile) IsUserLoggedIn(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoggedIn
}

func (m *MockProfile) GetUsername(_ context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.LoggedIn || m.Profile == nil {
		return "", false
	}
	return m.Profile.Username, true
}

func (m *MockProfile) Set(p *models.Profile, loggedIn bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profile = p
	m.LoggedIn = loggedIn
}
