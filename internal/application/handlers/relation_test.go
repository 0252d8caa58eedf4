package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/mocks"
	"github.com/arxiv/relations-core/internal/domain/services"
)

func setupRelationTest() (*RelationHandler, *mocks.AssertionStore, *mocks.Notifier, *mocks.ViewCache) {
	store := mocks.NewAssertionStore()
	notifier := mocks.NewNotifier()
	cache := mocks.NewViewCache()
	registry := services.NewVerifierRegistry()
	ledger := services.NewLedgerService(store, registry)
	return NewRelationHandler(ledger, notifier, cache), store, notifier, cache
}

func datasetInput() SubmitInput {
	return SubmitInput{
		EPrintID:      "2101.00001",
		EPrintVersion: 1,
		RelationType:  "has-dataset",
		ResourceType:  "dataset",
		ResourceID:    "10.5281/zenodo.123",
		Description:   "training data",
		Creator:       entities.Creator{ClientID: "client-1", UserID: "user-1"},
	}
}

func TestRelationHandler_HandleAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and publishes", func(t *testing.T) {
		handler, _, notifier, _ := setupRelationTest()

		a, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)
		assert.Equal(t, entities.StatusActive, a.Status)

		events := notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, a.ID, events[0].AssertionID)
		assert.Equal(t, entities.ActionCreate, events[0].Action)
		assert.Equal(t, "10.5281/zenodo.123", events[0].ResourceID)
	})

	t.Run("invalid relation type", func(t *testing.T) {
		handler, store, _, _ := setupRelationTest()

		in := datasetInput()
		in.RelationType = "cites"
		_, err := handler.HandleAdd(ctx, in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid relation type")

		count, err := store.CountAssertions(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("publish failure does not fail the submission", func(t *testing.T) {
		handler, _, notifier, _ := setupRelationTest()
		notifier.Err = errors.New("broker down")

		a, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)
		assert.NotZero(t, a.ID)
		assert.Empty(t, notifier.Events())
	})

	t.Run("invalidates cached views", func(t *testing.T) {
		handler, _, _, cache := setupRelationTest()

		// Warm the cache.
		_, err := handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.Misses)

		_, err = handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)

		views, err := handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, 2, cache.Misses)
	})

	t.Run("nil notifier and cache are fine", func(t *testing.T) {
		store := mocks.NewAssertionStore()
		ledger := services.NewLedgerService(store, services.NewVerifierRegistry())
		handler := NewRelationHandler(ledger, nil, nil)

		_, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)

		views, err := handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})
}

func TestRelationHandler_HandleSupersede(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the prior in the view", func(t *testing.T) {
		handler, _, notifier, _ := setupRelationTest()

		first, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)

		in := datasetInput()
		in.ResourceID = "10.5281/zenodo.124"
		second, err := handler.HandleSupersede(ctx, first.ID, in)
		require.NoError(t, err)

		views, err := handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, second.ID, views[0].AssertionID)
		assert.Equal(t, "10.5281/zenodo.124", views[0].Resource.Identifier)

		events := notifier.Events()
		require.Len(t, events, 2)
		assert.Equal(t, entities.ActionSupersede, events[1].Action)
	})

	t.Run("validation errors pass through", func(t *testing.T) {
		handler, _, _, _ := setupRelationTest()

		_, err := handler.HandleSupersede(ctx, 99, datasetInput())
		require.Error(t, err)
		assert.True(t, entities.IsValidation(err, entities.ValidationBadReference))
	})
}

func TestRelationHandler_HandleSuppress(t *testing.T) {
	ctx := context.Background()

	handler, _, notifier, _ := setupRelationTest()
	creator := entities.Creator{ClientID: "client-1", UserID: "user-1"}

	first, err := handler.HandleAdd(ctx, datasetInput())
	require.NoError(t, err)

	supp, err := handler.HandleSuppress(ctx, first.ID, "2101.00001", 1, "duplicate entry", creator)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusSuppressed, supp.Status)
	assert.Equal(t, first.Resource, supp.Resource)

	views, err := handler.HandleList(ctx, "2101.00001", 1)
	require.NoError(t, err)
	assert.Empty(t, views)

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, entities.ActionSuppress, events[1].Action)
}

func TestRelationHandler_HandleList(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from cache on repeat reads", func(t *testing.T) {
		handler, _, _, cache := setupRelationTest()

		_, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)

		_, err = handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		_, err = handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)

		assert.Equal(t, 1, cache.Misses)
		assert.Equal(t, 1, cache.Hits)
	})

	t.Run("cache errors fall back to the ledger", func(t *testing.T) {
		handler, _, _, cache := setupRelationTest()
		cache.Err = errors.New("cache down")

		// Submission still works even though invalidation fails.
		_, err := handler.HandleAdd(ctx, datasetInput())
		require.NoError(t, err)

		views, err := handler.HandleList(ctx, "2101.00001", 1)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})
}

func TestRelationHandler_HandleProvenance(t *testing.T) {
	ctx := context.Background()

	handler, _, _, _ := setupRelationTest()

	first, err := handler.HandleAdd(ctx, datasetInput())
	require.NoError(t, err)

	in := datasetInput()
	in.ResourceID = "10.5281/zenodo.124"
	second, err := handler.HandleSupersede(ctx, first.ID, in)
	require.NoError(t, err)

	t.Run("by key", func(t *testing.T) {
		chain, err := handler.HandleProvenance(ctx, "2101.00001", 1, "has-dataset", "dataset", "10.5281/zenodo.124")
		require.NoError(t, err)
		require.Len(t, chain, 2)
		assert.Equal(t, first.ID, chain[0].ID)
		assert.Equal(t, second.ID, chain[1].ID)
	})

	t.Run("by assertion id", func(t *testing.T) {
		chain, err := handler.HandleProvenanceByID(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, chain, 2)
		assert.Equal(t, entities.StatusSuperseded, chain[0].Status)
		assert.Equal(t, entities.StatusActive, chain[1].Status)
	})

	t.Run("invalid relation type", func(t *testing.T) {
		_, err := handler.HandleProvenance(ctx, "2101.00001", 1, "cites", "dataset", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid relation type")
	})
}
