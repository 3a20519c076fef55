package models

import "time"

type CodeStatus string

const (
	CodePending CodeStatus = "pending"
	CodeWon     CodeStatus = "won"
	CodeLost    CodeStatus = "lost"
)

type BettingCode struct {
	ID        string     `json:"id"`
	Bookmaker string     `json:"bookmaker"`
	Code      string     `json:"code"`
	League    string     `json:"league"`
	Title     string     `json:"title"`
	Odds      float64    `json:"odds"`
	Kickoff   time.Time  `json:"kickoff"`
	Status    CodeStatus `json:"status"`
	Premium   bool       `json:"premium"`
}

type Prediction struct {
	ID         string     `json:"id"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	League     string     `json:"league"`
	Kickoff    time.Time  `json:"kickoff"`
	Tip        string     `json:"tip"`
	Odds       float64    `json:"odds"`
	Confidence float64    `json:"confidence"`
	Status     CodeStatus `json:"status"`
	Premium    bool       `json:"premium"`
}

type Subscription struct {
	Active    bool       `json:"active"`
	Plan      string     `json:"plan,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type Profile struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// SubscriptionActive reports whether the profile carries a paid, unexpired plan.
func (p *Profile) SubscriptionActive(now time.Time) bool {
	if p == nil || p.Subscription == nil || !p.Subscription.Active {
		return false
	}
	return p.Subscription.ExpiresAt == nil || now.Before(*p.Subscription.ExpiresAt)
}
