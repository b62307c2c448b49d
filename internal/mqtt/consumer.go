package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/config"
	"github.com/walterplanejamento-code/genmon-core/internal/ingest"
)

// Ingestor runs one raw frame through the ingestion pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, payload map[string]interface{}) (*ingest.Result, error)
}

// Subscriber is the broker surface the consumer needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Unsubscribe(topics ...string) error
}

var _ Ingestor = (*ingest.Gateway)(nil)
var _ Subscriber = (*Client)(nil)

// Consumer feeds readings published on the MQTT ingest topic through the
// same pipeline as the HTTP receiver. Relays that sit behind restrictive
// NATs push over the broker instead of calling the API directly.
type Consumer struct {
	config  *config.MQTTConfig
	client  Subscriber
	gateway Ingestor
	logger  *zap.Logger
}

func NewConsumer(cfg *config.MQTTConfig, client Subscriber, gateway Ingestor, logger *zap.Logger) *Consumer {
	return &Consumer{
		config:  cfg,
		client:  client,
		gateway: gateway,
		logger:  logger,
	}
}

// Start subscribes and blocks until the context is cancelled. Messages are
// ingested under the same context, so shutdown stops in-flight work too.
func (c *Consumer) Start(ctx context.Context) error {
	handler := func(topic string, payload []byte) error {
		return c.handleMessage(ctx, topic, payload)
	}
	if err := c.client.Subscribe(c.config.Topic, c.config.QoS, handler); err != nil {
		return fmt.Errorf("failed to subscribe to ingest topic: %w", err)
	}

	c.logger.Info("MQTT consumer started", zap.String("topic", c.config.Topic))

	<-ctx.Done()
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	if err := c.client.Unsubscribe(c.config.Topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.Error(err))
	}

	c.logger.Info("MQTT consumer stopped")
	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, topic string, payload []byte) error {
	var frame map[string]interface{}
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.logger.Error("Failed to unmarshal MQTT message",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return err
	}

	result, err := c.gateway.Ingest(ctx, frame)
	if err != nil {
		c.logger.Error("Failed to ingest MQTT reading",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("Ingested MQTT reading",
		zap.String("gerador_id", result.GeradorID),
		zap.String("leitura_id", result.LeituraID),
	)
	return nil
}
