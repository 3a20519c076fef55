package premium

import (
	"betcodes/internal/models"
	"betcodes/internal/prefs"
	"betcodes/internal/structures"
	"betcodes/internal/testutil"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placement = "Rewarded_Android"

var epoch = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

type fixture struct {
	timer   *Timer
	clock   *testutil.FakeClock
	store   prefs.Store
	ads     *testutil.MockAds
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func testConfig() *structures.Config {
	return &structures.Config{
		Premium: structures.PremiumConfig{
			Window:      20 * time.Minute,
			Tick:        time.Second,
			GameId:      "5551234",
			PlacementId: placement,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, prefs.NewMemoryStore(), testutil.NewFakeClock(epoch))
}

func newFixtureWith(t *testing.T, store prefs.Store, clock *testutil.FakeClock) *fixture {
	t.Helper()
	f := &fixture{
		clock:   clock,
		store:   store,
		ads:     &testutil.MockAds{Ready: true},
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
	}
	f.timer = NewTimerWithClock(testConfig(), f.store, f.ads, f.logger, f.metrics, f.clock)
	t.Cleanup(f.timer.Close)
	return f
}

// advance waits for the countdown to park on the clock, then moves time forward.
func (f *fixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool { return f.clock.Waiters() > 0 }, time.Second, time.Millisecond)
	f.clock.Advance(d)
}

func (f *fixture) savedWindow() (start, end int64, ok bool) {
	start, okStart := f.store.GetInt64(prefs.KeyPremiumStartTime)
	end, okEnd := f.store.GetInt64(prefs.KeyPremiumEndTime)
	return start, end, okStart && okEnd
}

func (f *fixture) keysAbsent() bool {
	_, okStart := f.store.GetInt64(prefs.KeyPremiumStartTime)
	_, okEnd := f.store.GetInt64(prefs.KeyPremiumEndTime)
	return !okStart && !okEnd
}

func (f *fixture) saveWindow(t *testing.T, start, end time.Time) {
	t.Helper()
	require.NoError(t, f.store.SetInt64(prefs.KeyPremiumStartTime, start.UnixMilli()))
	require.NoError(t, f.store.SetInt64(prefs.KeyPremiumEndTime, end.UnixMilli()))
}

func TestNewTimer_StartsLocked(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, models.DefaultPremiumState(), f.timer.State())
}

func TestStartTimer_UnlocksAndPersists(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()

	s := f.timer.State()
	assert.False(t, s.IsBlurActive)
	assert.True(t, s.IsTimerActive)
	assert.False(t, s.IsSubscribed)
	assert.Equal(t, 20*time.Minute, s.TimeRemaining)
	assert.Equal(t, models.AccessUnlocked, s.Access)

	start, end, ok := f.savedWindow()
	require.True(t, ok)
	assert.Equal(t, epoch.UnixMilli(), start)
	assert.Equal(t, epoch.Add(20*time.Minute).UnixMilli(), end)
	assert.Equal(t, 1, f.metrics.TimerStarts)
}

func TestCountdown_RecomputesFromEndTime(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()

	f.advance(t, time.Second)
	require.Eventually(t, func() bool {
		return f.timer.State().TimeRemaining == 20*time.Minute-time.Second
	}, time.Second, time.Millisecond)

	// a late tick still lands on the true remaining time
	f.advance(t, 5*time.Minute)
	require.Eventually(t, func() bool {
		return f.timer.State().TimeRemaining == 15*time.Minute-time.Second
	}, time.Second, time.Millisecond)
}

func TestCountdown_ExpiryScenario(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()

	f.advance(t, 19*time.Minute+59*time.Second)
	require.Eventually(t, func() bool {
		return f.timer.State().TimeRemaining == time.Second
	}, time.Second, time.Millisecond)
	assert.False(t, f.timer.State().IsBlurActive)
	assert.False(t, f.keysAbsent())

	f.advance(t, 2*time.Second)
	require.Eventually(t, func() bool {
		return f.timer.State().IsBlurActive
	}, time.Second, time.Millisecond)

	s := f.timer.State()
	assert.False(t, s.IsTimerActive)
	assert.Zero(t, s.TimeRemaining)
	assert.Equal(t, models.AccessLocked, s.Access)
	assert.True(t, f.keysAbsent())
	assert.Equal(t, 1, f.metrics.TimerExpirations)
}

func TestCheckSavedTimerState_RestoresActiveWindow(t *testing.T) {
	f := newFixture(t)
	f.saveWindow(t, epoch.Add(-15*time.Minute), epoch.Add(5*time.Minute))

	assert.True(t, f.timer.CheckSavedTimerState())

	s := f.timer.State()
	assert.False(t, s.IsBlurActive)
	assert.True(t, s.IsTimerActive)
	assert.Equal(t, 5*time.Minute, s.TimeRemaining)
	assert.Equal(t, models.AccessUnlocked, s.Access)

	f.advance(t, 5*time.Minute)
	require.Eventually(t, func() bool { return f.timer.State().IsBlurActive }, time.Second, time.Millisecond)
	assert.True(t, f.keysAbsent())
}

func TestCheckSavedTimerState_ExpiredWindowIsClearedEagerly(t *testing.T) {
	f := newFixture(t)
	f.saveWindow(t, epoch.Add(-21*time.Minute), epoch.Add(-time.Minute))

	assert.False(t, f.timer.CheckSavedTimerState())

	s := f.timer.State()
	assert.True(t, s.IsBlurActive)
	assert.False(t, s.IsTimerActive)
	assert.True(t, f.keysAbsent())
}

func TestCheckSavedTimerState_EndEqualsNowIsExpired(t *testing.T) {
	f := newFixture(t)
	f.saveWindow(t, epoch.Add(-20*time.Minute), epoch)

	assert.False(t, f.timer.CheckSavedTimerState())
	assert.True(t, f.timer.State().IsBlurActive)
	assert.True(t, f.keysAbsent())
}

func TestCheckSavedTimerState_NoKeys(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.timer.CheckSavedTimerState())
	assert.Equal(t, models.DefaultPremiumState(), f.timer.State())
}

func TestCheckSavedTimerState_PartialKeysAreCleared(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetInt64(prefs.KeyPremiumStartTime, epoch.UnixMilli()))

	assert.False(t, f.timer.CheckSavedTimerState())
	assert.True(t, f.timer.State().IsBlurActive)
	assert.True(t, f.keysAbsent())
}

func TestCheckSavedTimerState_ClampsWindowAfterClockMovedBack(t *testing.T) {
	clock := testutil.NewFakeClock(epoch)
	f := newFixtureWith(t, prefs.NewMemoryStore(), clock)
	f.saveWindow(t, epoch, epoch.Add(20*time.Minute))

	clock.Set(epoch.Add(-time.Hour))
	assert.True(t, f.timer.CheckSavedTimerState())

	assert.Equal(t, 20*time.Minute, f.timer.State().TimeRemaining)
	_, end, ok := f.savedWindow()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(-40*time.Minute).UnixMilli(), end)
	assert.True(t, f.logger.Contains("warn", "clamping"))
}

func TestStartTimer_ThenRestoreIsEquivalent(t *testing.T) {
	store := prefs.NewMemoryStore()
	clock := testutil.NewFakeClock(epoch)

	first := newFixtureWith(t, store, clock)
	first.timer.StartTimer()
	want := first.timer.State()
	first.timer.Close()

	second := newFixtureWith(t, store, clock)
	require.True(t, second.timer.CheckSavedTimerState())
	got := second.timer.State()

	assert.Equal(t, want.IsBlurActive, got.IsBlurActive)
	assert.Equal(t, want.IsTimerActive, got.IsTimerActive)
	assert.InDelta(t, want.TimeRemaining, got.TimeRemaining, float64(time.Second))
}

func TestStartTimer_ReplacesRunningCountdown(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()

	f.timer.mu.Lock()
	firstDone := f.timer.done
	f.timer.mu.Unlock()
	require.NotNil(t, firstDone)

	f.advance(t, 10*time.Minute)
	require.Eventually(t, func() bool {
		return f.timer.State().TimeRemaining == 10*time.Minute
	}, time.Second, time.Millisecond)

	f.timer.StartTimer()
	select {
	case <-firstDone:
	case <-time.After(time.Second):
		t.Fatal("previous countdown was not cancelled")
	}

	assert.Equal(t, 20*time.Minute, f.timer.State().TimeRemaining)
	_, end, _ := f.savedWindow()
	assert.Equal(t, epoch.Add(30*time.Minute).UnixMilli(), end)
}

func TestOnSubscriptionPurchased_CancelsCountdown(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()

	f.timer.mu.Lock()
	done := f.timer.done
	f.timer.mu.Unlock()

	f.timer.OnSubscriptionPurchased()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown kept running after purchase")
	}

	updates, cancel := f.timer.Subscribe()
	defer cancel()
	<-updates

	f.clock.Advance(time.Minute)
	select {
	case s := <-updates:
		t.Fatalf("unexpected update after purchase: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}

	s := f.timer.State()
	assert.True(t, s.IsSubscribed)
	assert.False(t, s.IsBlurActive)
	assert.False(t, s.IsTimerActive)
	assert.Zero(t, s.TimeRemaining)
	assert.Equal(t, models.AccessSubscribed, s.Access)

	// persisted keys are not touched
	_, _, ok := f.savedWindow()
	assert.True(t, ok)

	f.clock.Advance(time.Hour)
	assert.False(t, f.timer.State().IsBlurActive)
}

func TestOnSubscriptionPurchased_Idempotent(t *testing.T) {
	once := newFixture(t)
	once.timer.OnSubscriptionPurchased()

	twice := newFixture(t)
	twice.timer.OnSubscriptionPurchased()
	twice.timer.OnSubscriptionPurchased()

	assert.Equal(t, once.timer.State(), twice.timer.State())
}

func TestStartTimer_WhileSubscribedOnlySavesWindow(t *testing.T) {
	f := newFixture(t)
	f.timer.OnSubscriptionPurchased()
	f.timer.StartTimer()

	s := f.timer.State()
	assert.True(t, s.IsSubscribed)
	assert.False(t, s.IsTimerActive)
	_, _, ok := f.savedWindow()
	assert.True(t, ok)
}

func TestSetSubscribed_LapseFallsBackToSavedWindow(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()
	f.timer.SetSubscribed(true)
	assert.True(t, f.timer.State().IsSubscribed)

	f.clock.Advance(5 * time.Minute)
	f.timer.SetSubscribed(false)

	s := f.timer.State()
	assert.False(t, s.IsSubscribed)
	assert.False(t, s.IsBlurActive)
	assert.True(t, s.IsTimerActive)
	assert.Equal(t, 15*time.Minute, s.TimeRemaining)
}

func TestSetSubscribed_LapseWithoutWindowLocks(t *testing.T) {
	f := newFixture(t)
	f.timer.SetSubscribed(true)
	f.timer.SetSubscribed(false)

	assert.Equal(t, models.DefaultPremiumState(), f.timer.State())
}

func TestSetSubscribed_FalseWhenNotSubscribedIsNoop(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()
	before := f.timer.State()

	f.timer.SetSubscribed(false)
	assert.Equal(t, before, f.timer.State())
}

func TestOnLogout_ClearsSubscription(t *testing.T) {
	f := newFixture(t)
	f.timer.OnSubscriptionPurchased()
	f.timer.OnLogout()

	assert.False(t, f.timer.State().IsSubscribed)
	assert.True(t, f.timer.State().IsBlurActive)
}

func TestOnWatchAdClicked_CompletionStartsTimer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.timer.OnWatchAdClicked(context.Background()))

	s := f.timer.State()
	assert.False(t, s.IsBlurActive)
	assert.True(t, s.IsTimerActive)
	assert.Equal(t, models.AccessUnlocked, s.Access)
	assert.Equal(t, 1, f.ads.Shows())
	_, _, ok := f.savedWindow()
	assert.True(t, ok)
	// the next fill is requested once the reward lands
	assert.Equal(t, []string{placement}, f.ads.LoadCalls)
}

func TestOnWatchAdClicked_NotReadyReloadsOnce(t *testing.T) {
	f := newFixture(t)
	f.ads.Ready = false

	err := f.timer.OnWatchAdClicked(context.Background())

	assert.ErrorIs(t, err, ErrAdNotReady)
	assert.Equal(t, 1, f.ads.Loads())
	assert.Equal(t, []string{placement}, f.ads.LoadCalls)
	assert.Equal(t, 0, f.ads.Shows())
	assert.False(t, f.timer.State().IsTimerActive)
	assert.True(t, f.timer.State().IsBlurActive)
	assert.True(t, f.keysAbsent())
}

func TestOnWatchAdClicked_ShowFailureReloadsAndStaysLocked(t *testing.T) {
	f := newFixture(t)
	f.ads.ShowErr = errors.New("user skipped")

	err := f.timer.OnWatchAdClicked(context.Background())

	assert.ErrorIs(t, err, ErrAdFailed)
	assert.Contains(t, err.Error(), "user skipped")
	assert.Equal(t, 1, f.ads.Loads())
	assert.Equal(t, models.AccessLocked, f.timer.State().Access)
	assert.True(t, f.timer.State().IsBlurActive)
	assert.True(t, f.keysAbsent())
}

func TestOnWatchAdClicked_FailureKeepsRunningWindow(t *testing.T) {
	f := newFixture(t)
	f.timer.StartTimer()
	f.ads.ShowErr = errors.New("no fill")

	assert.ErrorIs(t, f.timer.OnWatchAdClicked(context.Background()), ErrAdFailed)

	s := f.timer.State()
	assert.True(t, s.IsTimerActive)
	assert.Equal(t, models.AccessUnlocked, s.Access)
}

func TestOnWatchAdClicked_SubscribedSkipsAd(t *testing.T) {
	f := newFixture(t)
	f.timer.OnSubscriptionPurchased()

	assert.NoError(t, f.timer.OnWatchAdClicked(context.Background()))
	assert.Equal(t, 0, f.ads.Shows())
	assert.False(t, f.timer.State().IsTimerActive)
}

func TestOnWatchAdClicked_UnlockingAndBusy(t *testing.T) {
	f := newFixture(t)
	f.ads.Hold = true

	result := make(chan error, 1)
	go func() { result <- f.timer.OnWatchAdClicked(context.Background()) }()

	require.Eventually(t, f.ads.Showing, time.Second, time.Millisecond)
	assert.Equal(t, models.AccessUnlocking, f.timer.State().Access)
	assert.True(t, f.timer.State().IsBlurActive)
	assert.ErrorIs(t, f.timer.OnWatchAdClicked(context.Background()), ErrBusy)

	require.NoError(t, f.ads.Finish(nil))
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch-ad call never returned")
	}
	assert.Equal(t, models.AccessUnlocked, f.timer.State().Access)
}

func TestOnWatchAdClicked_CallerGivesUp(t *testing.T) {
	f := newFixture(t)
	f.ads.Hold = true

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- f.timer.OnWatchAdClicked(ctx) }()

	require.Eventually(t, f.ads.Showing, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)

	// the reward still lands when the ad finishes
	require.NoError(t, f.ads.Finish(nil))
	assert.True(t, f.timer.State().IsTimerActive)
}

func TestSubscribe_ReceivesCurrentAndUpdates(t *testing.T) {
	f := newFixture(t)
	updates, cancel := f.timer.Subscribe()
	defer cancel()

	first := <-updates
	assert.True(t, first.IsBlurActive)

	f.timer.StartTimer()
	next := <-updates
	assert.True(t, next.IsTimerActive)
	assert.Equal(t, 20*time.Minute, next.TimeRemaining)
}

func TestSubscribe_ConflatesToNewest(t *testing.T) {
	f := newFixture(t)
	updates, cancel := f.timer.Subscribe()
	defer cancel()

	f.timer.StartTimer()
	f.timer.OnSubscriptionPurchased()

	s := <-updates
	assert.True(t, s.IsSubscribed)
	select {
	case extra := <-updates:
		t.Fatalf("expected a single conflated value, got %+v", extra)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	f := newFixture(t)
	updates, cancel := f.timer.Subscribe()
	<-updates

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	f.timer.StartTimer()
}

func TestClose_StopsCountdownAndStreams(t *testing.T) {
	f := newFixture(t)
	updates, _ := f.timer.Subscribe()
	<-updates
	f.timer.StartTimer()
	<-updates

	f.timer.Close()
	_, open := <-updates
	assert.False(t, open)

	f.timer.mu.Lock()
	assert.Nil(t, f.timer.cancel)
	f.timer.mu.Unlock()

	assert.ErrorIs(t, f.timer.OnWatchAdClicked(context.Background()), ErrClosed)

	// the window survives for the next process
	_, _, ok := f.savedWindow()
	assert.True(t, ok)

	late, _ := f.timer.Subscribe()
	<-late
	_, open = <-late
	assert.False(t, open)
}

type failingStore struct{ *prefs.MemoryStore }

func (s *failingStore) SetInt64(_ prefs.Key, _ int64) error { return errors.New("disk full") }

func TestStartTimer_PersistFailureStillUnlocks(t *testing.T) {
	store := &failingStore{MemoryStore: prefs.NewMemoryStore()}
	f := newFixtureWith(t, store, testutil.NewFakeClock(epoch))

	f.timer.StartTimer()

	assert.True(t, f.timer.State().IsTimerActive)
	assert.True(t, f.logger.Contains("error", "disk full"))
}

// hookStore runs onSetEnd once, right after the window end is written.
type hookStore struct {
	*prefs.MemoryStore
	mu       sync.Mutex
	onSetEnd func()
}

func (s *hookStore) SetInt64(key prefs.Key, value int64) error {
	if err := s.MemoryStore.SetInt64(key, value); err != nil {
		return err
	}
	if key != prefs.KeyPremiumEndTime {
		return nil
	}
	s.mu.Lock()
	hook := s.onSetEnd
	s.onSetEnd = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (s *hookStore) arm(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSetEnd = fn
}

func TestStartTimer_ExpiryDuringRestartKeepsNewWindow(t *testing.T) {
	store := &hookStore{MemoryStore: prefs.NewMemoryStore()}
	f := newFixtureWith(t, store, testutil.NewFakeClock(epoch))
	f.timer.StartTimer()

	f.advance(t, 19*time.Minute+59*time.Second)
	require.Eventually(t, func() bool {
		return f.timer.State().TimeRemaining == time.Second && f.clock.Waiters() > 0
	}, time.Second, time.Millisecond)

	// the old window runs out while the new one is being written
	restartedAt := f.clock.Now()
	store.arm(func() { f.clock.Advance(time.Second) })
	f.timer.StartTimer()

	assert.Never(t, f.keysAbsent, 100*time.Millisecond, 5*time.Millisecond)
	start, end, ok := f.savedWindow()
	require.True(t, ok)
	assert.Equal(t, restartedAt.UnixMilli(), start)
	assert.Equal(t, restartedAt.Add(20*time.Minute).UnixMilli(), end)

	s := f.timer.State()
	assert.True(t, s.IsTimerActive)
	assert.False(t, s.IsBlurActive)
	assert.Equal(t, models.AccessUnlocked, s.Access)
	assert.Equal(t, 0, f.metrics.TimerExpirations)
}

func TestStartTimer_AfterCloseIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.timer.Close()

	f.timer.StartTimer()

	assert.True(t, f.keysAbsent())
	assert.Equal(t, 0, f.metrics.TimerStarts)
	assert.False(t, f.timer.State().IsTimerActive)
}

func TestCheckSavedTimerState_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := prefs.NewRedisStore(structures.RedisConfig{Addr: mr.Addr(), KeyPrefix: "device42", Timeout: time.Second}, &testutil.MockLogger{})
	t.Cleanup(func() { _ = store.Close() })

	f := newFixtureWith(t, store, testutil.NewFakeClock(epoch))
	f.saveWindow(t, epoch.Add(-12*time.Minute), epoch.Add(8*time.Minute))

	require.True(t, f.timer.CheckSavedTimerState())
	assert.Equal(t, 8*time.Minute, f.timer.State().TimeRemaining)

	f.advance(t, 8*time.Minute)
	require.Eventually(t, func() bool { return f.timer.State().IsBlurActive }, time.Second, time.Millisecond)
	assert.False(t, mr.Exists("device42:prefs"))
}
