package codes

import (
	"betcodes/internal/models"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUpstream = errors.New("codes: backend unavailable")

const (
	resourceCodes       = "codes"
	resourcePredictions = "predictions"
	stalePrefix         = "stale:"
	maxListBody         = 4 << 20
)

type ServiceInterface interface {
	Codes(ctx context.Context) ([]models.BettingCode, error)
	Predictions(ctx context.Context) ([]models.Prediction, error)
	Refresh(ctx context.Context) error
}

// Service fetches the raw lists from the backend and keeps the last good
// payload in the response cache. While the backend is down the last good
// payload is served for up to staleTTL.
type Service struct {
	baseURL  string
	token    string
	staleTTL time.Duration
	http     *http.Client
	cache    providers.CacheProviderInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewService(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ServiceInterface {
	timeout := conf.Backend.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		baseURL:  strings.TrimRight(conf.Backend.BaseUrl, "/"),
		token:    conf.Backend.Token,
		staleTTL: conf.Cache.StaleTTL,
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *Service) Codes(ctx context.Context) ([]models.BettingCode, error) {
	var out []models.BettingCode
	if err := s.load(ctx, resourceCodes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Predictions(ctx context.Context) ([]models.Prediction, error) {
	var out []models.Prediction
	if err := s.load(ctx, resourcePredictions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh drops the cached lists and refetches both in parallel.
func (s *Service) Refresh(ctx context.Context) error {
	s.cache.Del(resourceCodes)
	s.cache.Del(resourcePredictions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Codes(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Predictions(gctx)
		return err
	})
	return g.Wait()
}

func (s *Service) load(ctx context.Context, resource string, out any) error {
	if data, ok := s.cache.Get(resource); ok {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
		s.cache.Del(resource)
	}

	data, err := s.fetch(ctx, resource)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		s.logger.Errorf(providers.TypeApi, "Fetching %s failed: %s", resource, err)
		if s.loadStale(resource, out) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	s.cache.Set(resource, data)
	if s.staleTTL > 0 {
		s.cache.SetFor(stalePrefix+resource, data, s.staleTTL)
	}
	return nil
}

func (s *Service) loadStale(resource string, out any) bool {
	if s.staleTTL <= 0 {
		return false
	}
	data, ok := s.cache.Get(stalePrefix + resource)
	if !ok || json.Unmarshal(data, out) != nil {
		return false
	}
	s.logger.Warnf(providers.TypeApi, "Serving stale %s while the backend is unavailable", resource)
	return true
}

func (s *Service) fetch(ctx context.Context, resource string) ([]byte, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveUpstreamDuration(resource, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+resource, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxListBody))
}
