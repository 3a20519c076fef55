package ads

import "betcodes/internal/providers"

const (
	OutcomeLoad        = "load"
	OutcomeCompleted   = "completed"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
)

// Instrumented counts ad lifecycle events.
type Instrumented struct {
	inner   RewardedAds
	metrics providers.MetricsProviderInterface
}

func NewInstrumented(inner RewardedAds, metrics providers.MetricsProviderInterface) *Instrumented {
	return &Instrumented{inner: inner, metrics: metrics}
}

func (i *Instrumented) Initialize(gameID string) error {
	return i.inner.Initialize(gameID)
}

func (i *Instrumented) LoadRewardedAd(placementID string) {
	i.metrics.IncAdOutcome(OutcomeLoad)
	i.inner.LoadRewardedAd(placementID)
}

func (i *Instrumented) IsAdReady(placementID string) bool {
	ready := i.inner.IsAdReady(placementID)
	if !ready {
		i.metrics.IncAdOutcome(OutcomeUnavailable)
	}
	return ready
}

func (i *Instrumented) ShowRewardedAd(placementID string, onCompleted func(), onFailed func(error)) {
	i.inner.ShowRewardedAd(placementID, func() {
		i.metrics.IncAdOutcome(OutcomeCompleted)
		onCompleted()
	}, func(err error) {
		i.metrics.IncAdOutcome(OutcomeFailed)
		onFailed(err)
	})
}
