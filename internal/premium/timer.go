package premium

import (
	"betcodes/internal/ads"
	"betcodes/internal/models"
	"betcodes/internal/prefs"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultWindow = 20 * time.Minute
	DefaultTick   = time.Second
)

var (
	ErrAdNotReady = errors.New("rewarded ad is not ready, please try again shortly")
	ErrAdFailed   = errors.New("rewarded ad was not completed")
	ErrBusy       = errors.New("a rewarded ad is already being shown")
	ErrClosed     = errors.New("premium timer is closed")
)

// Timer owns premium access for one device: the subscription flag, the
// temporary window granted by a rewarded ad and the blur signal derived
// from both. At most one countdown goroutine runs at a time.
type Timer struct {
	mu        sync.Mutex
	state     models.PremiumState
	showing   bool
	cancel    context.CancelFunc
	done      chan struct{}
	subs      map[int]chan models.PremiumState
	nextSubID int
	closed    bool

	store     prefs.Store
	ads       ads.RewardedAds
	clock     Clock
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	window    time.Duration
	tick      time.Duration
	placement string
}

func NewTimer(conf *structures.Config, store prefs.Store, rewarded ads.RewardedAds, logger providers.Logger, metrics providers.MetricsProviderInterface) *Timer {
	return NewTimerWithClock(conf, store, rewarded, logger, metrics, RealClock{})
}

func NewTimerWithClock(conf *structures.Config, store prefs.Store, rewarded ads.RewardedAds, logger providers.Logger, metrics providers.MetricsProviderInterface, clock Clock) *Timer {
	window := conf.Premium.Window
	if window <= 0 {
		window = DefaultWindow
	}
	tick := conf.Premium.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	t := &Timer{
		state:     models.DefaultPremiumState(),
		subs:      make(map[int]chan models.PremiumState),
		store:     store,
		ads:       rewarded,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		window:    window,
		tick:      tick,
		placement: conf.Premium.PlacementId,
	}
	metrics.SetAccessState(t.state.Access.String())
	return t
}

func (t *Timer) State() models.PremiumState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// StartTimer grants a fresh premium window, replacing any running one.
// The window is written under the lock so an expiring countdown cannot clear
// the keys between the write and the replacement.
func (t *Timer) StartTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	w := models.NewTimerWindow(t.clock.Now(), t.window)
	t.persistWindow(w)
	t.metrics.IncTimerStarts()
	if t.state.IsSubscribed {
		t.logger.Infof(providers.TypeTimer, "Window saved until %s, subscription already unlocks premium", w.End().Format(time.RFC3339))
		return
	}

	t.cancelCountdownLocked()
	t.state.IsBlurActive = false
	t.state.IsTimerActive = true
	t.state.TimeRemaining = t.window
	t.startCountdownLocked(w.End())
	t.logger.Infof(providers.TypeTimer, "Premium unlocked until %s", w.End().Format(time.RFC3339))
	t.publishLocked()
}

// CheckSavedTimerState restores a window persisted by a previous process.
// It reports whether a countdown was resumed.
func (t *Timer) CheckSavedTimerState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	restored := t.restoreLocked()
	t.publishLocked()
	return restored
}

// OnSubscriptionPurchased unlocks premium permanently. Saved window keys are
// left in place; they matter again only if the subscription lapses.
func (t *Timer) OnSubscriptionPurchased() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.cancelCountdownLocked()
	t.state.IsSubscribed = true
	t.state.IsBlurActive = false
	t.state.IsTimerActive = false
	t.state.TimeRemaining = 0
	t.publishLocked()
}

// SetSubscribed applies an externally refreshed subscription status.
// Losing the subscription falls back to whatever saved window remains.
func (t *Timer) SetSubscribed(subscribed bool) {
	if subscribed {
		if !t.State().IsSubscribed {
			t.logger.Infof(providers.TypeTimer, "Subscription became active")
		}
		t.OnSubscriptionPurchased()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.state.IsSubscribed {
		return
	}
	t.logger.Infof(providers.TypeTimer, "Subscription is no longer active")
	t.state = models.DefaultPremiumState()
	t.restoreLocked()
	t.publishLocked()
}

func (t *Timer) OnLogout() {
	t.SetSubscribed(false)
}

// OnWatchAdClicked shows a rewarded ad and starts the premium window once it
// completes. It blocks until the ad finishes, fails, or ctx is done.
func (t *Timer) OnWatchAdClicked(ctx context.Context) error {
	t.mu.Lock()
	switch {
	case t.closed:
		t.mu.Unlock()
		return ErrClosed
	case t.state.IsSubscribed:
		t.mu.Unlock()
		return nil
	case t.showing:
		t.mu.Unlock()
		return ErrBusy
	}

	if !t.ads.IsAdReady(t.placement) {
		t.mu.Unlock()
		t.logger.Warnf(providers.TypeAds, "Rewarded ad not ready for %s, reloading", t.placement)
		t.ads.LoadRewardedAd(t.placement)
		return ErrAdNotReady
	}

	t.showing = true
	t.publishLocked()
	t.mu.Unlock()

	result := make(chan error, 1)
	t.ads.ShowRewardedAd(t.placement, func() {
		t.finishShowing()
		t.StartTimer()
		// the fill is spent, queue the next one
		t.ads.LoadRewardedAd(t.placement)
		result <- nil
	}, func(err error) {
		t.logger.Warnf(providers.TypeAds, "Rewarded ad failed on %s: %s", t.placement, err)
		t.ads.LoadRewardedAd(t.placement)
		t.finishShowing()
		result <- fmt.Errorf("%w: %s", ErrAdFailed, err)
	})

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Timer) finishShowing() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showing = false
	t.publishLocked()
}

// Subscribe returns a conflated stream of state changes, starting with the
// current state. The stream is closed by the returned cancel func or Close.
func (t *Timer) Subscribe() (<-chan models.PremiumState, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan models.PremiumState, 1)
	ch <- t.state
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextSubID
	t.nextSubID++
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the countdown and ends all subscriptions. Saved windows are kept.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	done := t.done
	t.cancelCountdownLocked()
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (t *Timer) restoreLocked() bool {
	end, ok := t.store.GetInt64(prefs.KeyPremiumEndTime)
	if !ok {
		if _, partial := t.store.GetInt64(prefs.KeyPremiumStartTime); partial {
			t.clearWindow()
		}
		return false
	}
	start, _ := t.store.GetInt64(prefs.KeyPremiumStartTime)
	w := models.TimerWindow{StartTime: start, EndTime: end}

	now := t.clock.Now()
	remaining := w.Remaining(now)
	if remaining <= 0 {
		t.logger.Debugf(providers.TypeTimer, "Saved window ended at %s", w.End().Format(time.RFC3339))
		t.clearWindow()
		return false
	}
	if remaining > t.window {
		// the wall clock moved backwards since the window was saved
		t.logger.Warnf(providers.TypeTimer, "Saved window exceeds %s by %s, clamping", t.window, remaining-t.window)
		w = models.NewTimerWindow(now, t.window)
		remaining = t.window
		t.persistWindow(w)
	}
	if t.state.IsSubscribed {
		return false
	}

	t.cancelCountdownLocked()
	t.state.IsBlurActive = false
	t.state.IsTimerActive = true
	t.state.TimeRemaining = remaining
	t.startCountdownLocked(w.End())
	t.logger.Infof(providers.TypeTimer, "Restored premium window, %s left", remaining.Round(time.Second))
	return true
}

func (t *Timer) startCountdownLocked(end time.Time) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	go t.countdown(ctx, end, done)
}

func (t *Timer) cancelCountdownLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
		t.done = nil
	}
}

// countdown recomputes the remaining time from end on every tick rather than
// decrementing, so suspended or delayed ticks never stretch the window.
func (t *Timer) countdown(ctx context.Context, end time.Time, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.clock.After(t.tick):
		}

		remaining := end.Sub(t.clock.Now())

		t.mu.Lock()
		if ctx.Err() != nil {
			t.mu.Unlock()
			return
		}
		if remaining <= 0 {
			t.expireLocked()
			t.mu.Unlock()
			return
		}
		t.state.TimeRemaining = remaining
		t.publishLocked()
		t.mu.Unlock()
	}
}

func (t *Timer) expireLocked() {
	t.clearWindow()
	t.cancelCountdownLocked()
	t.state.IsBlurActive = !t.state.IsSubscribed
	t.state.IsTimerActive = false
	t.state.TimeRemaining = 0
	t.metrics.IncTimerExpirations()
	t.logger.Infof(providers.TypeTimer, "Premium window expired")
	t.publishLocked()
}

func (t *Timer) persistWindow(w models.TimerWindow) {
	if err := t.store.SetInt64(prefs.KeyPremiumStartTime, w.StartTime); err != nil {
		t.logger.Errorf(providers.TypeTimer, "Unable to save window start: %s", err)
		return
	}
	if err := t.store.SetInt64(prefs.KeyPremiumEndTime, w.EndTime); err != nil {
		t.logger.Errorf(providers.TypeTimer, "Unable to save window end: %s", err)
	}
}

func (t *Timer) clearWindow() {
	if err := t.store.Remove(prefs.KeyPremiumStartTime, prefs.KeyPremiumEndTime); err != nil {
		t.logger.Errorf(providers.TypeTimer, "Unable to clear saved window: %s", err)
	}
}

func (t *Timer) publishLocked() {
	switch {
	case t.state.IsSubscribed:
		t.state.Access = models.AccessSubscribed
	case t.showing:
		t.state.Access = models.AccessUnlocking
	case t.state.IsTimerActive:
		t.state.Access = models.AccessUnlocked
	default:
		t.state.Access = models.AccessLocked
	}
	t.metrics.SetAccessState(t.state.Access.String())

	for _, ch := range t.subs {
		select {
		case ch <- t.state:
		default:
			// drop the stale value, keep the newest
			select {
			case <-ch:
			default:
			}
			ch <- t.state
		}
	}
}
