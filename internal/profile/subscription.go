package profile

import (
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"errors"
	"time"
)

// SubscriptionResolver turns the remote profile into the subscription fact.
// A paid, unexpired plan on the profile counts, and so does a username on the
// configured allow list (used for QA accounts).
type SubscriptionResolver struct {
	client  Client
	allowed map[string]struct{}
	now     func() time.Time
	logger  providers.Logger
}

func NewSubscriptionResolver(conf *structures.Config, client Client, logger providers.Logger) *SubscriptionResolver {
	allowed := make(map[string]struct{}, len(conf.Subscription.AllowedUsers))
	for _, u := range conf.Subscription.AllowedUsers {
		allowed[u] = struct{}{}
	}
	return &SubscriptionResolver{
		client:  client,
		allowed: allowed,
		now:     time.Now,
		logger:  logger,
	}
}

// Resolve reports false without error for a signed-out user. Only the
// profile fetch reaches the backend; the login and username checks reuse it.
func (r *SubscriptionResolver) Resolve(ctx context.Context) (bool, error) {
	p, err := r.client.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return false, nil
		}
		return false, err
	}
	if p == nil || !r.client.IsUserLoggedIn(ctx) {
		return false, nil
	}
	username, ok := r.client.GetUsername(ctx)
	if !ok || username == "" {
		return false, nil
	}

	if p.SubscriptionActive(r.now()) {
		return true, nil
	}
	if _, ok := r.allowed[username]; ok {
		r.logger.Debugf(providers.TypeApp, "Premium granted to allow-listed user %s", username)
		return true, nil
	}
	return false, nil
}
