package alerts

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
	"github.com/walterplanejamento-code/genmon-core/internal/repository"
)

// Evaluator checks newly stored readings against the generator's enabled
// threshold rules and the controller's fixed status bits.
type Evaluator struct {
	parametrosRepo repository.ParametrosAlertaRepo
	alertasRepo    repository.AlertasRepo
	logger         *zap.Logger
}

func NewEvaluator(
	parametrosRepo repository.ParametrosAlertaRepo,
	alertasRepo repository.AlertasRepo,
	logger *zap.Logger,
) *Evaluator {
	return &Evaluator{
		parametrosRepo: parametrosRepo,
		alertasRepo:    alertasRepo,
		logger:         logger,
	}
}

// parameterMap maps a rule's display label to the reading channel it
// guards. Labels are matched verbatim; a rule whose label is not listed
// here never fires.
func parameterMap(l *domain.Leitura) map[string]*float64 {
	return map[string]*float64{
		"Tensão GMG":        l.TensaoGMG,
		"Tensão Rede R-S":   l.TensaoRedeRS,
		"Tensão Rede S-T":   l.TensaoRedeST,
		"Tensão Rede T-R":   l.TensaoRedeTR,
		"Corrente Fase 1":   l.CorrenteFase1,
		"Frequência GMG":    l.FrequenciaGMG,
		"RPM Motor":         l.RPMMotor,
		"Temperatura Água":  l.TemperaturaAgua,
		"Tensão Bateria":    l.TensaoBateria,
		"Nível Combustível": l.NivelCombustivel,
	}
}

// Evaluate produces and persists the alert batch for one stored reading.
// The returned alerts reflect what was evaluated even when persistence
// fails; the caller decides whether that failure is fatal (it is not, for
// ingestion).
func (e *Evaluator) Evaluate(ctx context.Context, geradorID, leituraID string, l *domain.Leitura) ([]domain.Alerta, error) {
	params, err := e.parametrosRepo.ListEnabled(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert rules: %w", err)
	}

	channels := parameterMap(l)
	var alertas []domain.Alerta

	for _, param := range params {
		value, ok := channels[param.Parametro]
		if !ok || value == nil {
			continue
		}

		var mensagem string
		// Minimum checked first; min and max never both fire for one reading.
		if param.ValorMinimo != nil && *value < *param.ValorMinimo {
			mensagem = fmt.Sprintf("%s abaixo do limite: %s (mínimo: %s)",
				param.Parametro, formatValue(*value), formatValue(*param.ValorMinimo))
		} else if param.ValorMaximo != nil && *value > *param.ValorMaximo {
			mensagem = fmt.Sprintf("%s acima do limite: %s (máximo: %s)",
				param.Parametro, formatValue(*value), formatValue(*param.ValorMaximo))
		}

		if mensagem != "" {
			alertas = append(alertas, domain.Alerta{
				GeradorID: geradorID,
				LeituraID: &leituraID,
				Nivel:     param.Nivel,
				Mensagem:  mensagem,
				Origem:    domain.OrigemRule,
			})
		}
	}

	// The two controller status bits are unconditional and not configurable.
	if l.AvisoAtivo {
		alertas = append(alertas, domain.Alerta{
			GeradorID: geradorID,
			LeituraID: &leituraID,
			Nivel:     domain.NivelWarning,
			Mensagem:  "Aviso ativo no controlador K30XL",
			Origem:    domain.OrigemRule,
		})
	}
	if l.FalhaAtiva {
		alertas = append(alertas, domain.Alerta{
			GeradorID: geradorID,
			LeituraID: &leituraID,
			Nivel:     domain.NivelCritical,
			Mensagem:  "Falha ativa no controlador K30XL",
			Origem:    domain.OrigemRule,
		})
	}

	if len(alertas) == 0 {
		return nil, nil
	}

	if err := e.alertasRepo.CreateBatch(ctx, alertas); err != nil {
		return alertas, fmt.Errorf("failed to insert alert batch: %w", err)
	}

	e.logger.Info("Alerts emitted",
		zap.String("gerador_id", geradorID),
		zap.String("leitura_id", leituraID),
		zap.Int("count", len(alertas)),
	)

	return alertas, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
