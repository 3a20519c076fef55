package internal

import (
	"betcodes/internal/controllers"
	"betcodes/internal/jobs"
	"betcodes/internal/prefs"
	"betcodes/internal/premium"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
}

// newHandler mounts the API routes behind the metrics middleware, next to
// the uninstrumented health and metrics endpoints.
func newHandler(conf *structures.Config, router providers.RouterProviderInterface, healthController *controllers.HealthController, metrics providers.MetricsProviderInterface) http.Handler {
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, router, apiMux))
	return mux
}

// closeStore releases stores holding connections or files, such as redis.
func closeStore(store prefs.Store, logger providers.Logger) {
	closer, ok := store.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Errorf(providers.TypeApp, "Unable to close preferences store: %s", err)
	}
}

func NewApp(premiumController *controllers.PremiumController, healthController *controllers.HealthController, scheduler jobs.SchedulerInterface, timer *premium.Timer, store prefs.Store, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	mux := newHandler(conf, router, healthController, metrics)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:    conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler: mux,
			// watch-ad holds the request open for the whole ad playback
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		timer.Close()
		closeStore(store, logger)
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()
	premiumController.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	timer.Close()
	err = scheduler.Persist()
	closeStore(store, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
