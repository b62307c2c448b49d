package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/repository"
)

const validationWindow = 5 * time.Minute

// ErrVPSConexaoNotFound means the generator has no relay connection row
// configured, so there is nothing to validate against.
var ErrVPSConexaoNotFound = errors.New("vps connection not found")

// CheckDadosRecentes reports whether the relay delivered readings inside the
// validation window.
type CheckDadosRecentes struct {
	OK           bool   `json:"ok"`
	Leituras5Min int    `json:"leituras_5min"`
	Descricao    string `json:"descricao"`
}

// CheckEquipamentoHF reports the bridge binding status.
type CheckEquipamentoHF struct {
	OK           bool       `json:"ok"`
	Status       string     `json:"status"`
	UltimoUpdate *time.Time `json:"ultimo_update"`
	IPConexao    *string    `json:"ip_conexao"`
}

// CheckUltimaLeitura reports the most recent reading regardless of window.
type CheckUltimaLeitura struct {
	Timestamp     *time.Time `json:"timestamp"`
	IdadeSegundos *int       `json:"idade_segundos"`
}

// ValidationResult is the outcome of an on-demand relay connectivity check.
type ValidationResult struct {
	Validado  bool      `json:"validado"`
	Timestamp time.Time `json:"timestamp"`
	Checks    struct {
		DadosRecentes CheckDadosRecentes `json:"dados_recentes"`
		EquipamentoHF CheckEquipamentoHF `json:"equipamento_hf"`
		UltimaLeitura CheckUltimaLeitura `json:"ultima_leitura"`
	} `json:"checks"`
	LatenciaEstimadaS *int `json:"latencia_estimada_s"`
}

// ValidationService answers "is this generator's relay actually delivering
// data right now" from stored state, without touching the device.
type ValidationService struct {
	leituras     repository.LeiturasRepo
	equipamentos repository.EquipamentosRepo
	vpsConexoes  repository.VPSConexoesRepo
	logger       *zap.Logger
}

func NewValidationService(
	leituras repository.LeiturasRepo,
	equipamentos repository.EquipamentosRepo,
	vpsConexoes repository.VPSConexoesRepo,
	logger *zap.Logger,
) *ValidationService {
	return &ValidationService{
		leituras:     leituras,
		equipamentos: equipamentos,
		vpsConexoes:  vpsConexoes,
		logger:       logger,
	}
}

// Validate runs the three checks and records the outcome on the connection
// row. Validation passes when fresh data exists; the binding-status and
// last-reading checks are informational and never fail the result.
func (s *ValidationService) Validate(ctx context.Context, geradorID string) (*ValidationResult, error) {
	conexao, err := s.vpsConexoes.FindByGeradorID(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vps_conexao: %w", err)
	}
	if conexao == nil {
		return nil, ErrVPSConexaoNotFound
	}

	now := time.Now().UTC()
	result := &ValidationResult{Timestamp: now}

	count, newest, err := s.leituras.CountSince(ctx, geradorID, now.Add(-validationWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent leituras: %w", err)
	}
	result.Checks.DadosRecentes = CheckDadosRecentes{
		OK:           count > 0,
		Leituras5Min: count,
		Descricao:    descricaoDadosRecentes(count),
	}

	equipamento, err := s.equipamentos.FindByGeradorID(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipamento: %w", err)
	}
	equipCheck := CheckEquipamentoHF{Status: "desconhecido"}
	if equipamento != nil {
		if equipamento.Status != "" {
			equipCheck.Status = equipamento.Status
		}
		equipCheck.OK = equipamento.Status == "online"
		equipCheck.UltimoUpdate = equipamento.UpdatedAt
		equipCheck.IPConexao = equipamento.LastConnectionIP
	}
	result.Checks.EquipamentoHF = equipCheck

	ultima, err := s.leituras.Latest(ctx, geradorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest leitura: %w", err)
	}
	if ultima != nil {
		ts := ultima.CreatedAt
		idade := int(now.Sub(ts).Seconds())
		result.Checks.UltimaLeitura = CheckUltimaLeitura{
			Timestamp:     &ts,
			IdadeSegundos: &idade,
		}
	}

	if newest != nil {
		// Estimated latency is the age of the newest in-window reading,
		// floored at one second so a just-arrived sample still registers.
		lat := int(math.Round(now.Sub(*newest).Seconds()))
		if lat < 1 {
			lat = 1
		}
		result.LatenciaEstimadaS = &lat
	}

	result.Validado = result.Checks.DadosRecentes.OK

	// The connection row stores latency in milliseconds.
	var latenciaMS *int
	if result.LatenciaEstimadaS != nil {
		ms := *result.LatenciaEstimadaS * 1000
		latenciaMS = &ms
	}
	if err := s.vpsConexoes.RecordValidation(ctx, geradorID, result.Validado, now, latenciaMS); err != nil {
		s.logger.Warn("Failed to record validation outcome",
			zap.String("gerador_id", geradorID),
			zap.Error(err),
		)
	}

	return result, nil
}

func descricaoDadosRecentes(count int) string {
	if count == 0 {
		return "Nenhuma leitura nos últimos 5 minutos"
	}
	return fmt.Sprintf("%d leitura(s) nos últimos 5 minutos", count)
}
