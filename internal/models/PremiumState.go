package models

import (
	json "github.com/goccy/go-json"
	"time"
)

type AccessState uint8

const (
	AccessLocked AccessState = iota
	AccessUnlocking
	AccessUnlocked
	AccessSubscribed
)

var accessStateNames = [...]string{"locked", "unlocking", "unlocked", "subscribed"}

func (s AccessState) String() string {
	if int(s) < len(accessStateNames) {
		return accessStateNames[s]
	}
	return "unknown"
}

func (s AccessState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// PremiumState is the in-memory view of premium access. It is never persisted;
// it is rebuilt from the saved TimerWindow on startup.
type PremiumState struct {
	IsSubscribed  bool          `json:"isSubscribed"`
	IsBlurActive  bool          `json:"isBlurActive"`
	IsTimerActive bool          `json:"isTimerActive"`
	TimeRemaining time.Duration `json:"-"`
	Access        AccessState   `json:"accessState"`
}

// DefaultPremiumState is the locked, blurred state.
func DefaultPremiumState() PremiumState {
	return PremiumState{IsBlurActive: true, Access: AccessLocked}
}

func (p PremiumState) MarshalJSON() ([]byte, error) {
	type plain PremiumState
	return json.Marshal(struct {
		plain
		TimeRemaining int64 `json:"timeRemaining"`
	}{
		plain:         plain(p),
		TimeRemaining: p.TimeRemaining.Milliseconds(),
	})
}

// TimerWindow is the temporary unlock granted by a rewarded ad.
type TimerWindow struct {
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

func NewTimerWindow(now time.Time, length time.Duration) TimerWindow {
	return TimerWindow{
		StartTime: now.UnixMilli(),
		EndTime:   now.Add(length).UnixMilli(),
	}
}

func (w TimerWindow) Remaining(now time.Time) time.Duration {
	return time.Duration(w.EndTime-now.UnixMilli()) * time.Millisecond
}

func (w TimerWindow) Active(now time.Time) bool {
	return w.Remaining(now) > 0
}

func (w TimerWindow) End() time.Time {
	return time.UnixMilli(w.EndTime)
}
