package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/digest"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/logger"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/sources"
)

// Service runs one scrape pass across all configured sources. A source that
// fails to fetch or parse contributes an empty section; it never aborts the
// pass.
type Service struct {
	registry   sources.ScraperRegistry
	deduper    Deduper
	log        logger.Logger
	defaultCap int
}

// NewService wires a collector with the source scraper registry.
func NewService(reg sources.ScraperRegistry, deduper Deduper, log logger.Logger, defaultCap int) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		registry:   reg,
		deduper:    deduper,
		log:        log,
		defaultCap: defaultCap,
	}
}

// Collect scrapes every source in order and returns one section per source.
// The returned error joins per-source failures for reporting; a non-nil error
// does not mean the pass failed, only that some sources were skipped.
func (s *Service) Collect(ctx context.Context, cfgs []sources.Source) ([]digest.Section, error) {
	if s == nil || s.registry == nil {
		return nil, fmt.Errorf("collector service is not initialized")
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no sources configured for collection")
	}

	sections := make([]digest.Section, 0, len(cfgs))
	var errs []error

	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			return sections, err
		}

		section, err := s.collectSource(ctx, cfg)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source scrape failed", "source_error", map[string]any{
				"source_id": cfg.ID,
				"error":     err.Error(),
			})
		}
		sections = append(sections, section)

		if delay := cfg.RequestDelay(); delay > 0 && i < len(cfgs)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return sections, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return sections, errors.Join(errs...)
}

// collectSource scrapes one source; on any failure the section comes back empty.
func (s *Service) collectSource(ctx context.Context, cfg sources.Source) (digest.Section, error) {
	section := digest.Section{
		SourceID:   cfg.ID,
		SourceName: cfg.Name,
		SourceURL:  cfg.URL,
	}

	scraper, err := s.registry.ScraperFor(cfg)
	if err != nil {
		return section, fmt.Errorf("resolve scraper for source %s: %w", cfg.ID, err)
	}

	headlines, err := scraper.Scrape(ctx, cfg)
	if err != nil {
		return section, fmt.Errorf("scrape source %s: %w", cfg.ID, err)
	}

	headlines, err = s.filterSeen(headlines)
	if err != nil {
		return section, fmt.Errorf("dedupe source %s: %w", cfg.ID, err)
	}

	limit := cfg.Limit(s.defaultCap)
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}
	section.Headlines = headlines

	s.log.InfoObj("source scrape completed", "source_result", map[string]any{
		"source_id":           cfg.ID,
		"headlines_collected": len(headlines),
	})
	return section, nil
}

// filterSeen drops headlines that were already mailed in a previous run.
func (s *Service) filterSeen(headlines []domain.Headline) ([]domain.Headline, error) {
	if s.deduper == nil {
		return headlines, nil
	}

	fresh := headlines[:0]
	for _, h := range headlines {
		seen, err := s.deduper.SeenHeadline(h.ID)
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, h)
		}
	}
	return fresh, nil
}

// MarkDelivered records every headline in the sections as mailed, so the next
// run does not repeat them. Only meaningful with a persistent store.
func (s *Service) MarkDelivered(sections []digest.Section) error {
	if s == nil || s.deduper == nil {
		return nil
	}

	var errs []error
	for _, sec := range sections {
		for _, h := range sec.Headlines {
			if err := s.deduper.MarkHeadline(h.ID); err != nil {
				errs = append(errs, fmt.Errorf("mark headline %s: %w", h.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}
