package controllers

import (
	"betcodes/internal/models"
	"betcodes/internal/premium"
	"betcodes/internal/providers"
	"context"
	"errors"
	"net/http"
)

type PremiumTimer interface {
	State() models.PremiumState
	OnWatchAdClicked(ctx context.Context) error
	OnSubscriptionPurchased()
	OnLogout()
	Subscribe() (<-chan models.PremiumState, func())
}

type SubscriptionRefresher interface {
	RefreshSubscription(ctx context.Context) error
}

type PremiumController struct {
	logger    providers.Logger
	timer     PremiumTimer
	refresher SubscriptionRefresher
	streams   *streamHub
}

func NewPremiumController(logger providers.Logger, timer PremiumTimer, refresher SubscriptionRefresher) *PremiumController {
	return &PremiumController{
		logger:    logger,
		timer:     timer,
		refresher: refresher,
		streams:   newStreamHub(logger, timer),
	}
}

func (pc *PremiumController) GetState(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, models.Success(pc.timer.State()))
}

// WatchAd blocks until the rewarded ad completes or fails.
func (pc *PremiumController) WatchAd(w http.ResponseWriter, r *http.Request) {
	err := pc.timer.OnWatchAdClicked(r.Context())
	if err == nil {
		writeResult(w, http.StatusOK, models.Success(pc.timer.State()))
		return
	}

	status, message := watchAdFailure(err)
	if status == 0 {
		return
	}
	pc.logger.Infof(providers.TypeAds, "Watch ad request ended: %s", err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeResult(w, status, models.Failure[models.PremiumState](message))
}

// watchAdFailure maps timer errors to a response. A zero status means the
// client went away and nothing should be written.
func watchAdFailure(err error) (int, string) {
	switch {
	case errors.Is(err, premium.ErrAdNotReady):
		return http.StatusServiceUnavailable, "Ad is still loading, please try again in a moment"
	case errors.Is(err, premium.ErrAdFailed):
		return http.StatusBadGateway, "Ad was not completed, premium stays locked"
	case errors.Is(err, premium.ErrBusy):
		return http.StatusConflict, "An ad is already playing"
	case errors.Is(err, premium.ErrClosed):
		return http.StatusServiceUnavailable, "Service is shutting down"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 0, ""
	default:
		return http.StatusInternalServerError, "Unable to show ad"
	}
}

func (pc *PremiumController) Subscribe(w http.ResponseWriter, r *http.Request) {
	pc.timer.OnSubscriptionPurchased()
	pc.logger.Infof(providers.TypeApi, "Subscription purchase confirmed")
	writeResult(w, http.StatusOK, models.Success(pc.timer.State()))
}

func (pc *PremiumController) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := pc.refresher.RefreshSubscription(r.Context()); err != nil {
		writeResult(w, http.StatusBadGateway, models.Failure[models.PremiumState]("Unable to refresh subscription, please retry"))
		return
	}
	writeResult(w, http.StatusOK, models.Success(pc.timer.State()))
}

func (pc *PremiumController) Logout(w http.ResponseWriter, r *http.Request) {
	pc.timer.OnLogout()
	writeResult(w, http.StatusOK, models.Success(pc.timer.State()))
}

func (pc *PremiumController) Stream(w http.ResponseWriter, r *http.Request) {
	pc.streams.ServeWS(w, r)
}

// Close disconnects every open state stream.
func (pc *PremiumController) Close() {
	pc.streams.Close()
}
