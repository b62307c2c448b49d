package events

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// Stream names consumed by downstream services (dashboards, notifiers).
const (
	LeiturasStream = "genmon:leituras:stream"
	AlertasStream  = "genmon:alertas:stream"
)

// Publisher pushes stored readings and emitted alerts onto Redis Streams so
// consumers can subscribe to inserts without touching Postgres. Publishing
// is best-effort relative to ingestion.
type Publisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewPublisher(client *redis.Client, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// PublishLeitura announces a stored reading.
func (p *Publisher) PublishLeitura(ctx context.Context, l *domain.Leitura) error {
	id, err := publishJSONToStream(ctx, p.client, LeiturasStream, l)
	if err != nil {
		return err
	}
	p.logger.Debug("Published leitura to stream",
		zap.String("leitura_id", l.ID),
		zap.String("stream_id", id),
	)
	return nil
}

// PublishAlertas announces an emitted alert batch, one stream entry per alert.
func (p *Publisher) PublishAlertas(ctx context.Context, alertas []domain.Alerta) error {
	for i := range alertas {
		if _, err := publishJSONToStream(ctx, p.client, AlertasStream, &alertas[i]); err != nil {
			return err
		}
	}
	return nil
}
