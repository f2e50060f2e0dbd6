package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Scheduler periodically refreshes weather reports for the configured cities
// and the last city a user looked up.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
	timeout   time.Duration
	// parallel caps concurrent refreshes.
	parallel  int
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		cities:    cities,
		interval:  interval,
		timeout:   30 * time.Second,
		parallel:  4,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	// The first run is delayed by one interval; lookups on start-up come
	// from users, not from the refresher.
	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Info().Int("everyMinutes", minutes).Strs("cities", s.cities).Msg("scheduler: started")
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// targets returns the configured cities plus the remembered last city,
// without duplicates.
func (s *Scheduler) targets() []string {
	seen := make(map[string]struct{}, len(s.cities)+1)
	var out []string
	add := func(city string) {
		key := weather.CityKey(city)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, city)
	}

	for _, c := range s.cities {
		add(c)
	}
	if last, ok := s.service.LastCity(); ok {
		add(last)
	}
	return out
}

func (s *Scheduler) refresh() {
	cities := s.targets()
	if len(cities) == 0 {
		log.Debug().Msg("scheduler: nothing to refresh")
		return
	}
	log.Info().Int("cities", len(cities)).Msg("scheduler: running weather refresh job")

	var g errgroup.Group
	g.SetLimit(s.parallel)
	for _, city := range cities {
		city := city // per-iteration copy; go.mod lowered below 1.22 for local toolchain
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if _, err := s.service.Refresh(ctx, city); err != nil {
				log.Warn().Err(err).Str("city", city).Msg("scheduler: refresh failed")
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("scheduler: refresh job finished with errors")
		return
	}
	log.Info().Msg("scheduler: completed weather refresh job")
}
