package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives one batch run per municipality:
//  1. List candidate items from the source adapter
//  2. Filter out items whose source id already exists in the store
//  3. Per remaining item: fetch detail → extract attachments → normalize
//     → enrich → detect flips → upsert, with a fixed inter-item delay
//
// The orchestrator holds no cross-run state: the stored source ids are
// the whole dedup index, so replaying a partially failed run is safe.
type SyncOrchestrator struct {
	registry      driven.AdapterRegistry
	decisionStore driven.DecisionStore
	actorStore    driven.ActorStore
	flipStore     driven.FlipStore
	extractor     driven.AttachmentExtractor
	enricher      driven.Enricher
	normalizer    *Normalizer
	detector      *Detector
	runLock       driven.RunLock
	listLimit     int
	itemDelay     time.Duration
	lockTTL       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// SyncOrchestratorConfig holds dependencies for SyncOrchestrator.
type SyncOrchestratorConfig struct {
	Registry      driven.AdapterRegistry
	DecisionStore driven.DecisionStore
	ActorStore    driven.ActorStore
	FlipStore     driven.FlipStore
	Extractor     driven.AttachmentExtractor
	Enricher      driven.Enricher
	Normalizer    *Normalizer
	Detector      *Detector

	// RunLock is optional. When set, overlapping runs for the same
	// municipality are refused with domain.ErrRunInProgress.
	RunLock driven.RunLock

	// ListLimit caps how many items one run lists per source.
	ListLimit int

	// ItemDelay is the fixed pause between items, respecting upstream
	// rate limits. Upstreams are uncontrolled third-party systems, so
	// sequential throttled access is the default.
	ItemDelay time.Duration

	// LockTTL bounds how long a crashed run can keep its lock.
	LockTTL time.Duration

	Logger *slog.Logger
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(cfg SyncOrchestratorConfig) *SyncOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(0)
	}
	detector := cfg.Detector
	if detector == nil {
		detector = NewDetector(0)
	}
	listLimit := cfg.ListLimit
	if listLimit <= 0 {
		listLimit = 50
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}

	return &SyncOrchestrator{
		registry:      cfg.Registry,
		decisionStore: cfg.DecisionStore,
		actorStore:    cfg.ActorStore,
		flipStore:     cfg.FlipStore,
		extractor:     cfg.Extractor,
		enricher:      cfg.Enricher,
		normalizer:    normalizer,
		detector:      detector,
		runLock:       cfg.RunLock,
		listLimit:     listLimit,
		itemDelay:     cfg.ItemDelay,
		lockTTL:       lockTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// RunSync ingests one municipality's new decisions. This is the scheduler
// entry point: item-level failures are logged and counted, never fatal to
// the run; only a wholly unreachable source fails the run itself.
func (o *SyncOrchestrator) RunSync(ctx context.Context, m domain.Municipality) (*domain.RunSummary, error) {
	startTime := o.now()
	summary := &domain.RunSummary{Municipality: m, StartedAt: startTime}

	adapter, err := o.registry.Get(m)
	if err != nil {
		return o.failRun(summary, startTime, err)
	}

	if o.runLock != nil {
		acquired, err := o.runLock.Acquire(ctx, lockName(m), o.lockTTL)
		if err != nil {
			return o.failRun(summary, startTime, fmt.Errorf("acquire run lock: %w", err))
		}
		if !acquired {
			return o.failRun(summary, startTime, domain.ErrRunInProgress)
		}
		defer func() {
			if err := o.runLock.Release(context.WithoutCancel(ctx), lockName(m)); err != nil {
				o.logger.Warn("failed to release run lock", "municipality", m, "error", err)
			}
		}()
	}

	o.logger.Info("starting sync", "municipality", m)

	// Listing: the only paginated step. A listing failure means the
	// source is unreachable and aborts this municipality's run only.
	items, err := adapter.ListItems(ctx, o.listLimit)
	if err != nil {
		return o.failRun(summary, startTime, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err))
	}
	summary.ItemsListed = len(items)

	actors, err := o.actorStore.ListByMunicipality(ctx, m)
	if err != nil {
		return o.failRun(summary, startTime, fmt.Errorf("list actor fingerprints: %w", err))
	}

	for i, item := range items {
		select {
		case <-ctx.Done():
			return o.failRun(summary, startTime, ctx.Err())
		default:
		}

		exists, err := o.decisionStore.ExistsBySourceID(ctx, item.SourceID)
		if err != nil {
			return o.failRun(summary, startTime, fmt.Errorf("dedup check: %w", err))
		}
		if exists {
			summary.ItemsSkipped++
			continue
		}

		// Throttle before each network-bound item, but never before
		// the first one.
		if i > 0 && o.itemDelay > 0 {
			select {
			case <-ctx.Done():
				return o.failRun(summary, startTime, ctx.Err())
			case <-time.After(o.itemDelay):
			}
		}

		flips, err := o.processItem(ctx, adapter, m, item, actors)
		if err != nil {
			o.logger.Warn("failed to process item",
				"municipality", m,
				"source_id", item.SourceID,
				"error", err,
			)
			summary.AddError(item.SourceID, stageOf(err), err)
			continue
		}

		summary.ItemsProcessed++
		summary.FlipsDetected += flips
	}

	summary.Success = true
	summary.Duration = time.Since(startTime).Seconds()

	o.logger.Info("sync completed",
		"municipality", m,
		"duration_seconds", summary.Duration,
		"items_listed", summary.ItemsListed,
		"items_skipped", summary.ItemsSkipped,
		"items_processed", summary.ItemsProcessed,
		"flips_detected", summary.FlipsDetected,
		"errors", len(summary.Errors),
	)

	return summary, nil
}

// RunAll runs every registered municipality in turn. Sources own disjoint
// dedup namespaces, so a failed source never affects a sibling.
func (o *SyncOrchestrator) RunAll(ctx context.Context) ([]*domain.RunSummary, error) {
	var summaries []*domain.RunSummary
	for _, m := range o.registry.Municipalities() {
		summary, err := o.RunSync(ctx, m)
		if err != nil {
			o.logger.Error("sync failed", "municipality", m, "error", err)
		}
		summaries = append(summaries, summary)
		if ctx.Err() != nil {
			return summaries, ctx.Err()
		}
	}
	return summaries, nil
}

// processItem runs the per-item step pipeline: fetch → extract →
// normalize → enrich → detect → store. Each stage hands a typed value to
// the next; any failure leaves the store untouched for this item.
func (o *SyncOrchestrator) processItem(
	ctx context.Context,
	adapter driven.SourceAdapter,
	m domain.Municipality,
	item domain.SourceItem,
	actors []*domain.ActorFingerprint,
) (int, error) {
	detail, err := adapter.FetchDetail(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrItemFetchFailed, err)
	}

	// Attachment failures are non-fatal: the item proceeds with whatever
	// primary text exists.
	attachmentTexts := make([]string, 0, len(detail.AttachmentRefs))
	for _, ref := range detail.AttachmentRefs {
		text, err := o.extractor.ExtractText(ctx, ref)
		if err != nil {
			o.logger.Warn("attachment unreadable",
				"municipality", m,
				"source_id", item.SourceID,
				"attachment_url", ref.URL,
				"error", err,
			)
			continue
		}
		if text != "" {
			attachmentTexts = append(attachmentTexts, text)
		}
	}

	decision := stamp(o.normalizer.Normalize(item, detail, attachmentTexts), m, o.now())
	decision.ID = generateID()

	profile, err := o.enricher.Enrich(ctx, decision)
	if err != nil {
		// The item stays unstored so the next run retries it whole.
		return 0, err
	}
	decision.Profile = profile

	records := o.detector.DetectFlips(profile, decision, actors)

	if err := o.decisionStore.Upsert(ctx, decision); err != nil {
		return 0, fmt.Errorf("upsert decision: %w", err)
	}

	flips := 0
	for i := range records {
		records[i].ID = generateID()
		inserted, err := o.flipStore.Insert(ctx, &records[i])
		if err != nil {
			o.logger.Warn("failed to insert flip record",
				"decision_item_id", records[i].DecisionItemID,
				"axis", records[i].Axis,
				"error", err,
			)
			continue
		}
		if inserted {
			flips++
		}
	}

	return flips, nil
}

// failRun finalizes a summary for a run-level failure and returns both.
func (o *SyncOrchestrator) failRun(summary *domain.RunSummary, startTime time.Time, err error) (*domain.RunSummary, error) {
	summary.Success = false
	summary.Duration = time.Since(startTime).Seconds()
	summary.AddError("", "run", err)

	o.logger.Error("sync failed",
		"municipality", summary.Municipality,
		"duration_seconds", summary.Duration,
		"error", err,
	)

	return summary, err
}

// stageOf classifies an item-level error for the run summary.
func stageOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrItemFetchFailed):
		return "fetch"
	case errors.Is(err, domain.ErrEnrichmentParse):
		return "enrich"
	case errors.Is(err, domain.ErrAttachmentUnreadable):
		return "extract"
	default:
		return "store"
	}
}

func lockName(m domain.Municipality) string {
	return "sync:" + string(m)
}

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
