package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven/mocks"
)

// syncWorld carries scenario state between steps.
type syncWorld struct {
	orchestrator *SyncOrchestrator
	adapter      *mocks.MockSourceAdapter
	store        *mocks.MockDecisionStore
	summary      *domain.RunSummary
}

func newSyncWorld() *syncWorld {
	adapter := mocks.NewMockSourceAdapter(domain.MunicipalityEspoo)
	registry := mocks.NewMockAdapterRegistry()
	registry.Register(adapter)
	store := mocks.NewMockDecisionStore()

	return &syncWorld{
		adapter: adapter,
		store:   store,
		orchestrator: NewSyncOrchestrator(SyncOrchestratorConfig{
			Registry:      registry,
			DecisionStore: store,
			ActorStore:    mocks.NewMockActorStore(),
			FlipStore:     mocks.NewMockFlipStore(),
			Extractor:     mocks.NewMockExtractor(),
			Enricher:      mocks.NewMockEnricher(),
		}),
	}
}

func (w *syncWorld) sourceListsDecision(sourceID, title string) error {
	w.adapter.ListItemsFn = func(ctx context.Context, limit int) ([]domain.SourceItem, error) {
		return []domain.SourceItem{{SourceID: sourceID, Title: title, URL: sourceID}}, nil
	}
	return nil
}

func (w *syncWorld) syncAlreadyRan() error {
	_, err := w.orchestrator.RunSync(context.Background(), domain.MunicipalityEspoo)
	return err
}

func (w *syncWorld) runSync() error {
	summary, err := w.orchestrator.RunSync(context.Background(), domain.MunicipalityEspoo)
	w.summary = summary
	return err
}

func (w *syncWorld) runReportsItemsProcessed(want int) error {
	if w.summary == nil {
		return fmt.Errorf("no run summary captured")
	}
	if w.summary.ItemsProcessed != want {
		return fmt.Errorf("expected %d items processed, got %d", want, w.summary.ItemsProcessed)
	}
	return nil
}

func (w *syncWorld) storedDecisionCount(want int) error {
	if got := w.store.Count(); got != want {
		return fmt.Errorf("expected %d stored decision items, got %d", want, got)
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	var w *syncWorld

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		w = newSyncWorld()
		return ctx, nil
	})

	sc.Step(`^the espoo source lists a decision "([^"]*)" titled "([^"]*)"$`, func(id, title string) error {
		return w.sourceListsDecision(id, title)
	})
	sc.Step(`^the sync for espoo has already run once$`, func() error {
		return w.syncAlreadyRan()
	})
	sc.Step(`^I run the sync for espoo$`, func() error {
		return w.runSync()
	})
	sc.Step(`^the run reports (\d+) items processed$`, func(n int) error {
		return w.runReportsItemsProcessed(n)
	})
	sc.Step(`^exactly (\d+) decision item is stored$`, func(n int) error {
		return w.storedDecisionCount(n)
	})
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
