package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/mocks"
)

func TestStatusHandler_HandleStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable store", func(t *testing.T) {
		store := mocks.NewAssertionStore()
		require.NoError(t, store.Append(ctx, &entities.Assertion{
			Action:        entities.ActionCreate,
			Relation:      entities.RelationHasDataset,
			EPrintID:      "2101.00001",
			EPrintVersion: 1,
			Resource:      entities.Resource{Type: entities.ResourceDataset, Identifier: "10.5281/zenodo.1"},
			Creator:       entities.Creator{ClientID: "c", UserID: "u"},
		}))

		st := NewStatusHandler(store).HandleStatus(ctx)
		assert.True(t, st.StoreReachable)
		assert.Equal(t, 1, st.Assertions)
	})

	t.Run("unreachable store", func(t *testing.T) {
		store := mocks.NewAssertionStore()
		store.Err = errors.New("connection refused")

		st := NewStatusHandler(store).HandleStatus(ctx)
		assert.False(t, st.StoreReachable)
		assert.Zero(t, st.Assertions)
	})
}
