package app

import (
	"context"
	"fmt"
	"time"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/collector"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/config"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/digest"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/logger"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/storage"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/delivery"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/httpclient"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/sources"
)

// Digest represents one digest run. It wires sources, the collector, the
// formatter, the optional seen-store, and the delivery fanout. Unlike a
// daemon there is no loop here: the scheduler invoking the binary decides
// the cadence.
type Digest struct {
	cfg       *config.Config
	sourceReg *sources.Registry
	fanout    *delivery.Fanout
	collect   *collector.Service
	store     storage.Store
	log       logger.Logger
	now       func() time.Time
}

// NewDigest builds a digest runtime from config files.
func NewDigest(ctx context.Context, cfg *config.Config, log logger.Logger) (*Digest, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceList := sourceReg.All()
	sourceIDs := make([]string, 0, len(sourceList))
	for _, s := range sourceList {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	delivererReg, err := delivery.LoadRegistry(cfg.DeliverersFile)
	if err != nil {
		return nil, fmt.Errorf("load deliverers registry: %w", err)
	}

	enabledDeliverers := delivererReg.Enabled()
	if len(enabledDeliverers) == 0 {
		return nil, fmt.Errorf("no deliverers configured")
	}

	env := delivery.BuildEnv{
		Mail: delivery.MailAccount{
			Sender:    cfg.MailSender,
			Password:  cfg.MailPassword,
			Recipient: cfg.MailRecipient,
		},
		SMTP: delivery.SMTPDefaults{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
		},
		Log: log,
	}
	deliverers, err := delivery.BuildAll(ctx, delivery.DefaultRegistry(), enabledDeliverers, env)
	if err != nil {
		return nil, fmt.Errorf("build deliverers: %w", err)
	}
	fanout := delivery.NewFanout(deliverers)
	delivererSummaries := make([]map[string]string, 0, len(enabledDeliverers))
	for _, dCfg := range enabledDeliverers {
		delivererSummaries = append(delivererSummaries, map[string]string{
			"id":   dCfg.ID,
			"type": dCfg.Type,
		})
	}
	log.InfoObj("deliverers registry loaded", "deliverers_meta", map[string]any{
		"count":      len(delivererSummaries),
		"deliverers": delivererSummaries,
	})

	storeOpts := storage.Options{
		HeadlineTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	client := httpclient.NewRestyClient(cfg.FetchTimeout)
	scraperReg := sources.DefaultScraperRegistry(client)
	collectSvc := collector.NewService(scraperReg, store, log, cfg.MaxHeadlines)

	return &Digest{
		cfg:       cfg,
		sourceReg: sourceReg,
		fanout:    fanout,
		collect:   collectSvc,
		store:     store,
		log:       log,
		now:       time.Now,
	}, nil
}

// Run performs one full digest pass: collect, assemble, render, deliver.
// Per-source failures are contained; delivery failure is terminal.
func (d *Digest) Run(ctx context.Context) error {
	if d == nil || d.collect == nil {
		return fmt.Errorf("digest runtime is not initialized")
	}
	defer d.closeStore()

	srcs := d.sourceReg.All()
	if len(srcs) == 0 {
		return fmt.Errorf("no sources configured")
	}

	start := d.now()
	d.log.InfoObj("digest run started", "run_meta", map[string]any{
		"sources_count":    len(srcs),
		"deliverers_count": d.fanout.Size(),
		"started_at":       start.UTC(),
	})

	sections, collectErr := d.collect.Collect(ctx, srcs)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if collectErr != nil {
		// Partial failures only; empty sections simply drop out of the body.
		d.log.WarnObj("some sources failed", "collect_errors", collectErr.Error())
	}

	dg := digest.Digest{
		GeneratedAt: d.now().UTC(),
		Sections:    sections,
	}

	body, err := digest.Render(dg)
	if err != nil {
		if err != digest.ErrEmptyDigest {
			return fmt.Errorf("render digest: %w", err)
		}
		if !d.cfg.SendEmptyDigest {
			d.log.WarnObj("digest is empty; delivery suppressed", "run_meta", map[string]any{
				"sources_count": len(srcs),
			})
			return err
		}
		body = digest.RenderEmpty(dg.GeneratedAt)
	}

	evt := delivery.NewEvent(
		digest.Subject(dg.GeneratedAt),
		body,
		dg.GeneratedAt,
		len(dg.NonEmptySections()),
		dg.HeadlineCount(),
	)

	successful, deliverErr := d.fanout.Deliver(ctx, evt)
	if successful == 0 {
		return fmt.Errorf("deliver digest: %w", deliverErr)
	}
	if deliverErr != nil {
		d.log.WarnObj("some deliverers failed", "deliver_errors", deliverErr.Error())
	}

	if err := d.collect.MarkDelivered(sections); err != nil {
		d.log.WarnObj("marking delivered headlines failed", "storage_error", err.Error())
	}

	d.log.InfoObj("digest run completed", "run_meta", map[string]any{
		"sources_count":   len(dg.NonEmptySections()),
		"headlines_count": dg.HeadlineCount(),
		"delivered_to":    successful,
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (d *Digest) closeStore() {
	if d == nil || d.store == nil {
		return
	}
	if err := d.store.Close(); err != nil {
		d.log.ErrorObj("storage close failed", "error", err)
	}
}
