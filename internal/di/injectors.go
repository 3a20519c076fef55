//go:build wireinject
// +build wireinject

package di

import (
	"betcodes/internal"
	"betcodes/internal/ads"
	"betcodes/internal/codes"
	"betcodes/internal/controllers"
	"betcodes/internal/jobs"
	"betcodes/internal/prefs"
	"betcodes/internal/premium"
	"betcodes/internal/profile"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		prefs.NewZstdCompressor,
		prefs.NewStore,
		ads.NewRewardedAds,
		premium.NewTimer,
		profile.NewRESTClient,
		profile.NewSubscriptionResolver,
		codes.NewService,
		codes.NewViewModel,
		jobs.NewScheduler,
		controllers.NewApiController,
		controllers.NewPremiumController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,

		wire.Bind(new(codes.PremiumStateSource), new(*premium.Timer)),
		wire.Bind(new(jobs.PremiumTimer), new(*premium.Timer)),
		wire.Bind(new(jobs.SubscriptionSource), new(*profile.SubscriptionResolver)),
		wire.Bind(new(jobs.ListPrefetcher), new(codes.ServiceInterface)),
		wire.Bind(new(controllers.CodesViewModel), new(*codes.ViewModel)),
		wire.Bind(new(controllers.PremiumTimer), new(*premium.Timer)),
		wire.Bind(new(controllers.SubscriptionRefresher), new(jobs.SchedulerInterface)),
		wire.Bind(new(controllers.StateReader), new(*premium.Timer)),
	)

	return nil, nil
}
