package ads

import (
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"errors"
	"fmt"
)

var (
	ErrNotInitialized = errors.New("ads: sdk not initialized")
	ErrNotReady       = errors.New("ads: no rewarded ad loaded")
)

// RewardedAds is the surface of a rewarded-video ad network. Callbacks may
// run on any goroutine; exactly one of them is invoked per Show call.
type RewardedAds interface {
	Initialize(gameID string) error
	LoadRewardedAd(placementID string)
	ShowRewardedAd(placementID string, onCompleted func(), onFailed func(error))
	IsAdReady(placementID string) bool
}

func NewRewardedAds(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (RewardedAds, error) {
	var inner RewardedAds
	switch conf.Ads.Driver {
	case "simulated", "":
		inner = NewSimulated(conf.Ads, logger)
	default:
		return nil, fmt.Errorf("unknown ads driver %q", conf.Ads.Driver)
	}

	ads := NewInstrumented(inner, metrics)
	if err := ads.Initialize(conf.Premium.GameId); err != nil {
		return nil, err
	}
	ads.LoadRewardedAd(conf.Premium.PlacementId)
	return ads, nil
}
