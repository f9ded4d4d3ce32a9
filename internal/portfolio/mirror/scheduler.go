// Package mirror keeps the local fallback file tracking the primary
// backend so degraded mode serves recent data instead of whatever the last
// local write happened to leave behind.
package mirror

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/repository"
)

const syncTimeout = 30 * time.Second

type Scheduler struct {
	primary repository.Primary
	mirror  *repository.LocalStore
	spec    string
	log     *common.Logger
	cron    *cron.Cron
}

func NewScheduler(primary repository.Primary, mirror *repository.LocalStore, spec string, log *common.Logger) *Scheduler {
	return &Scheduler{primary: primary, mirror: mirror, spec: spec, log: log}
}

// Start registers the refresh job. No-op when disabled or when there is no
// primary to copy from.
func (s *Scheduler) Start() {
	if s.spec == "" || s.primary == nil {
		s.log.Info().Msg("mirror refresh disabled")
		return
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.spec, s.Sync); err != nil {
		s.log.Error().Err(err).Str("spec", s.spec).Msg("failed to schedule mirror refresh")
		return
	}

	s.cron = c
	c.Start()
	s.log.Info().Str("spec", s.spec).Msg("mirror refresh scheduled")
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sync copies both collections from the primary into the mirror in one
// atomic rewrite.
func (s *Scheduler) Sync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	companies, err := s.primary.Companies(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("mirror refresh: companies fetch failed")
		return
	}

	projects, err := s.primary.Projects(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("mirror refresh: projects fetch failed")
		return
	}

	if err := s.mirror.ReplaceAll(companies, projects); err != nil {
		s.log.Warn().Err(err).Msg("mirror refresh: write failed")
		return
	}

	s.log.Info().
		Int("companies", len(companies)).
		Int("projects", len(projects)).
		Msg("mirror refreshed from primary")
}
