package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/anomaly"
	"github.com/walterplanejamento-code/genmon-core/internal/connectivity"
	"github.com/walterplanejamento-code/genmon-core/internal/repository"
)

const diagnosticsWindow = 20

// ConexaoInfo is the connection block of a diagnostics report.
type ConexaoInfo struct {
	Status            connectivity.Status `json:"status"`
	UltimaAtualizacao string              `json:"ultima_atualizacao"`
	UltimoUpdate      *time.Time          `json:"ultimo_update"`
}

// DiagnosticsReport combines connection recency with the horimeter
// consistency analysis over the recent reading window.
type DiagnosticsReport struct {
	GeradorID string                `json:"gerador_id"`
	Conexao   ConexaoInfo           `json:"conexao"`
	Horimetro string                `json:"horimetro"`
	Janela    anomaly.Stats         `json:"janela"`
	Leituras  []anomaly.LeituraDelta `json:"leituras"`
}

// DiagnosticsService builds the data-quality view for a generator.
type DiagnosticsService struct {
	leituras     repository.LeiturasRepo
	equipamentos repository.EquipamentosRepo
	logger       *zap.Logger
}

func NewDiagnosticsService(
	leituras repository.LeiturasRepo,
	equipamentos repository.EquipamentosRepo,
	logger *zap.Logger,
) *DiagnosticsService {
	return &DiagnosticsService{
		leituras:     leituras,
		equipamentos: equipamentos,
		logger:       logger,
	}
}

// GetDiagnostics analyzes the 20 most recent readings and classifies the
// binding's connection state.
func (s *DiagnosticsService) GetDiagnostics(ctx context.Context, geradorID string) (*DiagnosticsReport, error) {
	now := time.Now().UTC()

	leituras, err := s.leituras.Recent(ctx, geradorID, diagnosticsWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent leituras: %w", err)
	}

	equipamento, err := s.equipamentos.FindByGeradorID(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipamento: %w", err)
	}

	var ultimoUpdate *time.Time
	if equipamento != nil {
		ultimoUpdate = equipamento.UpdatedAt
	}

	deltas, stats := anomaly.Analyze(leituras)

	report := &DiagnosticsReport{
		GeradorID: geradorID,
		Conexao: ConexaoInfo{
			Status:            connectivity.Classify(ultimoUpdate, now),
			UltimaAtualizacao: connectivity.FormatTimeSince(ultimoUpdate, now),
			UltimoUpdate:      ultimoUpdate,
		},
		Janela:   stats,
		Leituras: deltas,
	}
	if len(leituras) > 0 {
		report.Horimetro = leituras[0].HorimetroFormatado()
	}

	s.logger.Debug("Built diagnostics report",
		zap.String("gerador_id", geradorID),
		zap.Int("leituras", stats.Total),
		zap.Int("anomalias", stats.Anomalias),
	)

	return report, nil
}
