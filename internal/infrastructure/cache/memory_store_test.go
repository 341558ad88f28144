package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/infrastructure/cache"
)

func TestMemoryStore_DeletePrefixSoloDelGrupo(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemoryStore()
	e := query.Entry{Data: json.RawMessage(`[]`), FetchedAt: time.Now()}

	require.NoError(t, s.Set(ctx, "products::10", e))
	require.NoError(t, s.Set(ctx, "products:Vencido:10", e))
	require.NoError(t, s.Set(ctx, "product-stats::0", e))

	require.NoError(t, s.DeletePrefix(ctx, query.Prefix(query.GroupProducts)))

	assert.Equal(t, 1, s.Len())
	_, ok, err := s.Get(ctx, "product-stats::0")
	require.NoError(t, err)
	assert.True(t, ok, "el grupo product-stats no debe verse afectado")
}
