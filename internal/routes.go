package internal

import (
	"betcodes/internal/controllers"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, premiumController *controllers.PremiumController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	watchAdLimit := providers.RateLimitMiddleware(providers.NewWatchAdLimiter(conf))

	routers.Get("/codes", http.HandlerFunc(apiController.GetCodes))
	routers.Get("/predictions", http.HandlerFunc(apiController.GetPredictions))
	routers.Get("/premium/state", http.HandlerFunc(premiumController.GetState))
	routers.Get("/premium/stream", http.HandlerFunc(premiumController.Stream))
	routers.Post("/premium/watch-ad", http.HandlerFunc(premiumController.WatchAd), watchAdLimit)
	routers.Post("/premium/subscribe", http.HandlerFunc(premiumController.Subscribe))
	routers.Post("/premium/refresh", http.HandlerFunc(premiumController.Refresh))
	routers.Post("/premium/logout", http.HandlerFunc(premiumController.Logout))
	return routers
}
