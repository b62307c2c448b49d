package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
	"github.com/walterplanejamento-code/genmon-core/internal/repository"
)

// ErrGeradorNotFound is returned by read-path lookups for an unknown port
// or generator id.
var ErrGeradorNotFound = errors.New("generator not found")

// AlertEvaluator evaluates a stored reading and persists resulting alerts.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, geradorID, leituraID string, l *domain.Leitura) ([]domain.Alerta, error)
}

// EventPublisher announces stored readings and alerts to stream consumers.
type EventPublisher interface {
	PublishLeitura(ctx context.Context, l *domain.Leitura) error
	PublishAlertas(ctx context.Context, alertas []domain.Alerta) error
}

// Result is the ingestion outcome reported back to the relay device.
type Result struct {
	GeradorID string    `json:"gerador_id"`
	LeituraID string    `json:"reading_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Gateway is the ingestion entry point: sanitize, resolve the sender to a
// generator (auto-provisioning on first contact), persist the reading, then
// evaluate alerts and publish events best-effort.
type Gateway struct {
	geradores    repository.GeradoresRepo
	equipamentos repository.EquipamentosRepo
	leituras     repository.LeiturasRepo
	evaluator    AlertEvaluator
	publisher    EventPublisher
	defaultVPSIP string
	logger       *zap.Logger
}

func NewGateway(
	geradores repository.GeradoresRepo,
	equipamentos repository.EquipamentosRepo,
	leituras repository.LeiturasRepo,
	evaluator AlertEvaluator,
	publisher EventPublisher,
	defaultVPSIP string,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		geradores:    geradores,
		equipamentos: equipamentos,
		leituras:     leituras,
		evaluator:    evaluator,
		publisher:    publisher,
		defaultVPSIP: defaultVPSIP,
		logger:       logger,
	}
}

// Ingest processes one inbound reading payload end to end. Once the reading
// is durably stored the call succeeds even if alert evaluation or event
// publishing fails.
func (g *Gateway) Ingest(ctx context.Context, payload map[string]interface{}) (*Result, error) {
	leitura, porta, err := Sanitize(payload)
	if err != nil {
		return nil, err
	}

	geradorID, err := g.resolveGerador(ctx, porta)
	if err != nil {
		return nil, err
	}

	if err := g.equipamentos.MarkOnline(ctx, porta); err != nil {
		g.logger.Warn("Failed to mark equipamento online",
			zap.String("porta_vps", porta),
			zap.Error(err),
		)
	}

	leitura.GeradorID = geradorID
	if err := g.leituras.Insert(ctx, leitura); err != nil {
		return nil, fmt.Errorf("failed to store leitura: %w", err)
	}

	// Alerting is best-effort: the reading is already committed.
	alertas, err := g.evaluator.Evaluate(ctx, geradorID, leitura.ID, leitura)
	if err != nil {
		g.logger.Error("Alert evaluation failed",
			zap.String("gerador_id", geradorID),
			zap.String("leitura_id", leitura.ID),
			zap.Error(err),
		)
	}

	if g.publisher != nil {
		if err := g.publisher.PublishLeitura(ctx, leitura); err != nil {
			g.logger.Warn("Failed to publish leitura event", zap.Error(err))
		}
		if len(alertas) > 0 {
			if err := g.publisher.PublishAlertas(ctx, alertas); err != nil {
				g.logger.Warn("Failed to publish alert events", zap.Error(err))
			}
		}
	}

	return &Result{
		GeradorID: geradorID,
		LeituraID: leitura.ID,
		Timestamp: leitura.CreatedAt,
	}, nil
}

// resolveGerador maps a logical relay port to a generator id, creating the
// generator and its bridge binding on first contact. Concurrent first
// contacts converge through the UNIQUE(porta_vps) constraint: the loser of
// the insert race retries the lookup and adopts the winner's generator.
func (g *Gateway) resolveGerador(ctx context.Context, porta string) (string, error) {
	equipamento, err := g.equipamentos.FindByPortaVPS(ctx, porta)
	if err != nil {
		return "", fmt.Errorf("failed to find equipamento: %w", err)
	}
	if equipamento != nil {
		return equipamento.GeradorID, nil
	}

	gerador := domain.NewAutoProvisionedGerador()
	if err := g.geradores.Create(ctx, gerador); err != nil {
		return "", fmt.Errorf("failed to auto-provision gerador: %w", err)
	}

	novo := domain.NewAutoProvisionedEquipamento(gerador.ID, porta, g.defaultVPSIP)
	if err := g.equipamentos.Create(ctx, novo); err != nil {
		if repository.IsUniqueViolation(err) {
			existente, lookupErr := g.equipamentos.FindByPortaVPS(ctx, porta)
			if lookupErr != nil {
				return "", fmt.Errorf("failed to re-find equipamento after conflict: %w", lookupErr)
			}
			if existente == nil {
				return "", fmt.Errorf("equipamento vanished after unique conflict on porta %s", porta)
			}
			// The generator created above is orphaned; leave it for cleanup
			// rather than risk deleting a row another request references.
			g.logger.Info("Lost auto-provision race, adopting existing binding",
				zap.String("porta_vps", porta),
				zap.String("gerador_id", existente.GeradorID),
			)
			return existente.GeradorID, nil
		}
		return "", fmt.Errorf("failed to create equipamento: %w", err)
	}

	g.logger.Info("Auto-provisioned gerador for new porta",
		zap.String("porta_vps", porta),
		zap.String("gerador_id", gerador.ID),
	)
	return gerador.ID, nil
}

// LatestReading serves the pull read path: most recent reading by logical
// port or by generator id. Returns ErrGeradorNotFound when the port does
// not resolve, and (nil, nil) when the generator exists but has no readings.
func (g *Gateway) LatestReading(ctx context.Context, portaVPS, geradorID string) (*domain.Leitura, error) {
	if geradorID == "" {
		equipamento, err := g.equipamentos.FindByPortaVPS(ctx, portaVPS)
		if err != nil {
			return nil, fmt.Errorf("failed to find equipamento: %w", err)
		}
		if equipamento == nil {
			return nil, ErrGeradorNotFound
		}
		geradorID = equipamento.GeradorID
	}

	leitura, err := g.leituras.Latest(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest leitura: %w", err)
	}
	return leitura, nil
}
