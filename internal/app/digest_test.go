package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/collector"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/config"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/digest"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/logger"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/delivery"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/sources"
)

type stubScraper struct {
	headlines []domain.Headline
	err       error
	calls     int
}

func (s *stubScraper) ID() string { return "stub" }

func (s *stubScraper) Scrape(_ context.Context, _ sources.Source) ([]domain.Headline, error) {
	s.calls++
	return s.headlines, s.err
}

type stubScraperRegistry struct {
	scrapers map[string]*stubScraper
}

func (r stubScraperRegistry) ScraperFor(cfg sources.Source) (sources.Scraper, error) {
	s, ok := r.scrapers[cfg.ID]
	if !ok {
		return nil, fmt.Errorf("no scraper for %s", cfg.ID)
	}
	return s, nil
}

type recordingDeliverer struct {
	calls  int
	events []delivery.Event
	err    error
}

func (d *recordingDeliverer) ID() string   { return "recorder" }
func (d *recordingDeliverer) Type() string { return delivery.TypeSMTP }

func (d *recordingDeliverer) Deliver(_ context.Context, evt delivery.Event) error {
	d.calls++
	d.events = append(d.events, evt)
	return d.err
}

func loadTestSources(t *testing.T, ids ...string) *sources.Registry {
	t.Helper()
	var b strings.Builder
	b.WriteString("sources:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "  - id: %s\n    name: %s\n    url: https://%s.example.com/\n    request_delay_ms: 1\n", id, id, id)
	}
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	reg, err := sources.LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	return reg
}

func newTestDigest(cfg *config.Config, reg *sources.Registry, scrapers map[string]*stubScraper, sink *recordingDeliverer) *Digest {
	return &Digest{
		cfg:       cfg,
		sourceReg: reg,
		fanout:    delivery.NewFanout([]delivery.Deliverer{sink}),
		collect:   collector.NewService(stubScraperRegistry{scrapers: scrapers}, nil, logger.NopLogger{}, 5),
		log:       logger.NopLogger{},
		now: func() time.Time {
			return time.Date(2026, time.August, 23, 7, 30, 0, 0, time.UTC)
		},
	}
}

func TestRunSuppressesEmptyDigest(t *testing.T) {
	sink := &recordingDeliverer{}
	d := newTestDigest(
		&config.Config{SendEmptyDigest: false},
		loadTestSources(t, "alpha", "beta"),
		map[string]*stubScraper{
			"alpha": {},
			"beta":  {},
		},
		sink,
	)

	if err := d.Run(context.Background()); !errors.Is(err, digest.ErrEmptyDigest) {
		t.Fatalf("expected ErrEmptyDigest, got %v", err)
	}
	if sink.calls != 0 {
		t.Fatalf("empty digest must not be delivered, deliverer called %d times", sink.calls)
	}
}

func TestRunSendsPlaceholderWhenConfigured(t *testing.T) {
	sink := &recordingDeliverer{}
	d := newTestDigest(
		&config.Config{SendEmptyDigest: true},
		loadTestSources(t, "alpha"),
		map[string]*stubScraper{"alpha": {}},
		sink,
	)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("expected one delivery, got %d", sink.calls)
	}
	if !strings.Contains(sink.events[0].Body, "No news today.") {
		t.Errorf("placeholder body missing:\n%s", sink.events[0].Body)
	}
	if sink.events[0].HeadlineCount != 0 {
		t.Errorf("HeadlineCount = %d", sink.events[0].HeadlineCount)
	}
}

func TestRunDeliversAfterPartialCollectFailure(t *testing.T) {
	sink := &recordingDeliverer{}
	d := newTestDigest(
		&config.Config{SendEmptyDigest: false},
		loadTestSources(t, "alpha", "beta"),
		map[string]*stubScraper{
			"alpha": {headlines: []domain.Headline{
				{ID: "a1", Title: "Parliament passes the budget bill", Link: "https://alpha.example.com/a1", Source: "alpha"},
			}},
			"beta": {err: errors.New("connection reset")},
		},
		sink,
	)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("a single failed source must not fail the run, got %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("expected one delivery, got %d", sink.calls)
	}

	evt := sink.events[0]
	if !strings.Contains(evt.Body, "Parliament passes the budget bill") {
		t.Errorf("surviving source missing from body:\n%s", evt.Body)
	}
	if strings.Contains(evt.Body, "BETA") {
		t.Errorf("failed source should not appear in body:\n%s", evt.Body)
	}
	if evt.SourceCount != 1 || evt.HeadlineCount != 1 {
		t.Errorf("event counts = %d sources, %d headlines", evt.SourceCount, evt.HeadlineCount)
	}
	if evt.Subject != "Morning Brew Digest - 2026-08-23" {
		t.Errorf("Subject = %q", evt.Subject)
	}
}

func TestRunFailsWhenEveryDelivererFails(t *testing.T) {
	sendErr := errors.New("relay refused")
	sink := &recordingDeliverer{err: sendErr}
	d := newTestDigest(
		&config.Config{SendEmptyDigest: false},
		loadTestSources(t, "alpha"),
		map[string]*stubScraper{
			"alpha": {headlines: []domain.Headline{
				{ID: "a1", Title: "Parliament passes the budget bill", Link: "https://alpha.example.com/a1", Source: "alpha"},
			}},
		},
		sink,
	)

	if err := d.Run(context.Background()); !errors.Is(err, sendErr) {
		t.Fatalf("expected delivery failure to propagate, got %v", err)
	}
}

// Registry loading happens before any scraper or deliverer is built, so a bad
// config file aborts the run without network activity.
func TestNewDigestFailsFastOnBadConfig(t *testing.T) {
	if _, err := NewDigest(context.Background(), nil, logger.NopLogger{}); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg := &config.Config{
		SourcesFile:    filepath.Join(t.TempDir(), "missing.yaml"),
		DeliverersFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if _, err := NewDigest(context.Background(), cfg, logger.NopLogger{}); err == nil {
		t.Fatalf("expected error for missing sources file")
	}
}
