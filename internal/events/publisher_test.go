package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

func newTestPublisher(t *testing.T) (*Publisher, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPublisher(client, zap.NewNop()), client
}

func TestPublishLeitura(t *testing.T) {
	publisher, client := newTestPublisher(t)
	ctx := context.Background()

	v := 220.5
	err := publisher.PublishLeitura(ctx, &domain.Leitura{
		ID:        "l1",
		GeradorID: "g1",
		TensaoGMG: &v,
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, LeiturasStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var decoded domain.Leitura
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &decoded))
	assert.Equal(t, "l1", decoded.ID)
	assert.Equal(t, "g1", decoded.GeradorID)
	require.NotNil(t, decoded.TensaoGMG)
	assert.Equal(t, 220.5, *decoded.TensaoGMG)
	assert.NotEmpty(t, entries[0].Values["timestamp"])
}

func TestPublishAlertas(t *testing.T) {
	publisher, client := newTestPublisher(t)
	ctx := context.Background()

	alertas := []domain.Alerta{
		{ID: "a1", GeradorID: "g1", Nivel: domain.NivelWarning, Mensagem: "Aviso ativo no controlador K30XL"},
		{ID: "a2", GeradorID: "g1", Nivel: domain.NivelCritical, Mensagem: "Falha ativa no controlador K30XL"},
	}
	require.NoError(t, publisher.PublishAlertas(ctx, alertas))

	count, err := client.XLen(ctx, AlertasStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	entries, err := client.XRange(ctx, AlertasStream, "-", "+").Result()
	require.NoError(t, err)

	var first domain.Alerta
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &first))
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, domain.NivelWarning, first.Nivel)
}

func TestPublishAlertas_Empty(t *testing.T) {
	publisher, client := newTestPublisher(t)
	ctx := context.Background()

	require.NoError(t, publisher.PublishAlertas(ctx, nil))

	count, err := client.XLen(ctx, AlertasStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
