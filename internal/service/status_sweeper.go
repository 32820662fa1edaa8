package service

import (
	"fmt"
	"time"

	"github.com/hanbyul-kim/examhall/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StatusSweeper drives the periodic lifecycle sweep. It is the only
// background process besides per-session countdowns.
type StatusSweeper struct {
	lifecycle ExamLifecycleService
	interval  int // seconds
	cron      *cron.Cron
}

func NewStatusSweeper(cfg *config.Config, lifecycle ExamLifecycleService) *StatusSweeper {
	interval := cfg.Sweep.IntervalSeconds
	if interval <= 0 {
		interval = 60
	}
	return &StatusSweeper{lifecycle: lifecycle, interval: interval}
}

func (s *StatusSweeper) Start() error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %ds", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.lifecycle.RefreshStatuses(time.Now()); err != nil {
			// A missed sweep self-corrects on the next tick.
			log.Error().Err(err).Msg("Status sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("registering status sweep: %w", err)
	}
	s.cron.Start()
	log.Info().Int("interval_seconds", s.interval).Msg("Exam status sweeper started")
	return nil
}

func (s *StatusSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Exam status sweeper stopped")
}
