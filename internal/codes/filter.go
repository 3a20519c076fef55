package codes

import (
	"betcodes/internal/models"
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

type SortOrder string

const (
	SortKickoffAsc     SortOrder = "kickoff"
	SortKickoffDesc    SortOrder = "-kickoff"
	SortOddsDesc       SortOrder = "odds"
	SortConfidenceDesc SortOrder = "confidence"
)

// Query narrows a fetched list on the client side. Zero fields match everything.
type Query struct {
	League    string
	Status    models.CodeStatus
	Bookmaker string
	Search    string
	From      time.Time
	To        time.Time
	Premium   *bool
	Sort      SortOrder
}

func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		League:    strings.TrimSpace(v.Get("league")),
		Status:    models.CodeStatus(strings.ToLower(v.Get("status"))),
		Bookmaker: strings.TrimSpace(v.Get("bookmaker")),
		Search:    strings.TrimSpace(v.Get("q")),
		Sort:      SortOrder(v.Get("sort")),
	}

	switch q.Status {
	case "", models.CodePending, models.CodeWon, models.CodeLost:
	default:
		return Query{}, fmt.Errorf("unknown status %q", q.Status)
	}

	switch q.Sort {
	case "":
		q.Sort = SortKickoffAsc
	case SortKickoffAsc, SortKickoffDesc, SortOddsDesc, SortConfidenceDesc:
	default:
		return Query{}, fmt.Errorf("unknown sort %q", q.Sort)
	}

	var err error
	if q.From, err = parseTime(v.Get("from")); err != nil {
		return Query{}, fmt.Errorf("bad from: %w", err)
	}
	if q.To, err = parseTime(v.Get("to")); err != nil {
		return Query{}, fmt.Errorf("bad to: %w", err)
	}

	if raw := v.Get("premium"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Query{}, fmt.Errorf("bad premium: %w", err)
		}
		q.Premium = &b
	}
	return q, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func (q Query) matches(league string, status models.CodeStatus, kickoff time.Time, premium bool, text ...string) bool {
	if q.League != "" && !strings.EqualFold(q.League, league) {
		return false
	}
	if q.Status != "" && q.Status != status {
		return false
	}
	if !q.From.IsZero() && kickoff.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !kickoff.Before(q.To) {
		return false
	}
	if q.Premium != nil && *q.Premium != premium {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		for _, t := range text {
			if strings.Contains(strings.ToLower(t), needle) {
				return true
			}
		}
		return false
	}
	return true
}

func FilterCodes(items []models.BettingCode, q Query) []models.BettingCode {
	out := make([]models.BettingCode, 0, len(items))
	for _, c := range items {
		if q.Bookmaker != "" && !strings.EqualFold(q.Bookmaker, c.Bookmaker) {
			continue
		}
		if q.matches(c.League, c.Status, c.Kickoff, c.Premium, c.Title, c.League, c.Bookmaker) {
			out = append(out, c)
		}
	}
	return out
}

func FilterPredictions(items []models.Prediction, q Query) []models.Prediction {
	out := make([]models.Prediction, 0, len(items))
	for _, p := range items {
		if q.matches(p.League, p.Status, p.Kickoff, p.Premium, p.HomeTeam, p.AwayTeam, p.League) {
			out = append(out, p)
		}
	}
	return out
}

// SortCodes sorts in place. Codes carry no confidence, so that order falls
// back to odds.
func SortCodes(items []models.BettingCode, order SortOrder) {
	slices.SortStableFunc(items, func(a, b models.BettingCode) int {
		switch order {
		case SortKickoffDesc:
			return b.Kickoff.Compare(a.Kickoff)
		case SortOddsDesc, SortConfidenceDesc:
			return cmp.Compare(b.Odds, a.Odds)
		default:
			return a.Kickoff.Compare(b.Kickoff)
		}
	})
}

func SortPredictions(items []models.Prediction, order SortOrder) {
	slices.SortStableFunc(items, func(a, b models.Prediction) int {
		switch order {
		case SortKickoffDesc:
			return b.Kickoff.Compare(a.Kickoff)
		case SortOddsDesc:
			return cmp.Compare(b.Odds, a.Odds)
		case SortConfidenceDesc:
			return cmp.Compare(b.Confidence, a.Confidence)
		default:
			return a.Kickoff.Compare(b.Kickoff)
		}
	})
}
