package jobs

import (
	"betcodes/internal/prefs"
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"github.com/robfig/cron/v3"
	"sync"
	"time"
)

const jobTimeout = 30 * time.Second

type Scheduler struct {
	config       *structures.Config
	logger       providers.Logger
	store        prefs.Store
	timer        PremiumTimer
	subscription SubscriptionSource
	lists        ListPrefetcher
	cron         *cron.Cron
	opsMu        sync.Mutex
}

func (s *Scheduler) Init() {
	log := cronLogger{logger: s.logger}
	s.cron = cron.New(cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)))

	if interval := s.config.Subscription.RefreshInterval; interval > 0 {
		s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			_ = s.RefreshSubscription(ctx)
		}))
	}

	if _, ok := s.store.(prefs.Persister); ok && s.config.Prefs.SaveInterval > 0 {
		s.cron.Schedule(cron.Every(s.config.Prefs.SaveInterval), cron.FuncJob(func() {
			if err := s.Persist(); err == nil {
				s.logger.Debugf(providers.TypeApp, "Flushed preferences to %s", s.config.Prefs.FilePath)
			}
		}))
	}

	if s.config.Cache.Enabled && s.config.Cache.TTL > 0 {
		s.cron.Schedule(cron.Every(s.config.Cache.TTL), cron.FuncJob(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := s.lists.Refresh(ctx); err != nil {
				s.logger.Warnf(providers.TypeApi, "List prefetch failed: %s", err)
			}
		}))
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Restore loads persisted preferences, resumes any saved unlock window and
// resolves the subscription once. An unreadable snapshot is reported but the
// rest still runs, leaving premium locked.
func (s *Scheduler) Restore() error {
	var loadErr error
	if p, ok := s.store.(prefs.Persister); ok {
		loadErr = p.Load()
	}

	if s.timer.CheckSavedTimerState() {
		s.logger.Infof(providers.TypeTimer, "Resumed saved unlock window, %s left", s.timer.State().TimeRemaining)
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = s.RefreshSubscription(ctx)
	return loadErr
}

func (s *Scheduler) Persist() error {
	p, ok := s.store.(prefs.Persister)
	if !ok {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := p.Save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting preferences: %s", err)
		return err
	}
	return nil
}

// RefreshSubscription asks the profile backend for the current subscription
// fact. Errors keep the previous state.
func (s *Scheduler) RefreshSubscription(ctx context.Context) error {
	subscribed, err := s.subscription.Resolve(ctx)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Subscription refresh failed: %s", err)
		return err
	}
	s.timer.SetSubscribed(subscribed)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store prefs.Store, timer PremiumTimer, subscription SubscriptionSource, lists ListPrefetcher) SchedulerInterface {
	return &Scheduler{
		config:       config,
		logger:       logger,
		store:        store,
		timer:        timer,
		subscription: subscription,
		lists:        lists,
	}
}
