package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// ErrPortaVPSRequired is the only payload-level hard failure: a frame that
// does not say which relay port it came from cannot be attributed to any
// generator.
var ErrPortaVPSRequired = errors.New("porta_vps is required")

// Sanitize coerces an untyped inbound payload into a well-typed reading.
// Unrecognized keys and invalid values (non-finite or wrongly typed numbers)
// are dropped silently so a partially garbled frame still delivers its valid
// channels. Returns the reading and the trimmed logical port identifier.
func Sanitize(payload map[string]interface{}) (*domain.Leitura, string, error) {
	porta := strings.TrimSpace(asString(payload["porta_vps"]))
	if porta == "" {
		return nil, "", ErrPortaVPSRequired
	}

	l := &domain.Leitura{}

	setNumeric(payload, "tensao_rede_rs", &l.TensaoRedeRS)
	setNumeric(payload, "tensao_rede_st", &l.TensaoRedeST)
	setNumeric(payload, "tensao_rede_tr", &l.TensaoRedeTR)
	setNumeric(payload, "tensao_gmg", &l.TensaoGMG)
	setNumeric(payload, "corrente_fase1", &l.CorrenteFase1)
	setNumeric(payload, "frequencia_gmg", &l.FrequenciaGMG)
	setNumeric(payload, "rpm_motor", &l.RPMMotor)
	setNumeric(payload, "temperatura_agua", &l.TemperaturaAgua)
	setNumeric(payload, "tensao_bateria", &l.TensaoBateria)
	setNumeric(payload, "horas_trabalhadas", &l.HorasTrabalhadas)
	setNumeric(payload, "numero_partidas", &l.NumeroPartidas)
	setNumeric(payload, "nivel_combustivel", &l.NivelCombustivel)
	setNumeric(payload, "horimetro_horas", &l.HorimetroHoras)
	setNumeric(payload, "horimetro_minutos", &l.HorimetroMinutos)
	setNumeric(payload, "horimetro_segundos", &l.HorimetroSegundos)

	l.MotorFuncionando = asBool(payload["motor_funcionando"])
	l.RedeOK = asBool(payload["rede_ok"])
	l.GMGAlimentando = asBool(payload["gmg_alimentando"])
	l.AvisoAtivo = asBool(payload["aviso_ativo"])
	l.FalhaAtiva = asBool(payload["falha_ativa"])

	return l, porta, nil
}

func setNumeric(payload map[string]interface{}, key string, dst **float64) {
	raw, ok := payload[key]
	if !ok {
		return
	}
	v, ok := asNumber(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	*dst = &v
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asBool coerces the status-bit types a garbled frame can plausibly carry.
// Anything else present counts as false.
func asBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		return b == "true" || b == "1"
	default:
		return false
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Some bridge firmwares send the port as a bare number.
		if s == math.Trunc(s) && !math.IsInf(s, 0) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}
