package jobs

import (
	"betcodes/internal/models"
	"context"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	RefreshSubscription(ctx context.Context) error
}

type PremiumTimer interface {
	CheckSavedTimerState() bool
	SetSubscribed(subscribed bool)
	State() models.PremiumState
}

type SubscriptionSource interface {
	Resolve(ctx context.Context) (bool, error)
}

type ListPrefetcher interface {
	Refresh(ctx context.Context) error
}
