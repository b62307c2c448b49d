package domain

import (
	"fmt"
	"math"
	"time"
)

// Leitura is one immutable telemetry sample (leituras_tempo_real table).
// Numeric channels are pointers: a nil channel was absent from (or dropped
// out of) the inbound frame and never participates in alert evaluation.
// Status bits default to false when the frame omits them, matching the
// column defaults.
type Leitura struct {
	ID        string `json:"id" db:"id"`
	GeradorID string `json:"gerador_id" db:"gerador_id"`

	TensaoRedeRS     *float64 `json:"tensao_rede_rs,omitempty" db:"tensao_rede_rs"`
	TensaoRedeST     *float64 `json:"tensao_rede_st,omitempty" db:"tensao_rede_st"`
	TensaoRedeTR     *float64 `json:"tensao_rede_tr,omitempty" db:"tensao_rede_tr"`
	TensaoGMG        *float64 `json:"tensao_gmg,omitempty" db:"tensao_gmg"`
	CorrenteFase1    *float64 `json:"corrente_fase1,omitempty" db:"corrente_fase1"`
	FrequenciaGMG    *float64 `json:"frequencia_gmg,omitempty" db:"frequencia_gmg"`
	RPMMotor         *float64 `json:"rpm_motor,omitempty" db:"rpm_motor"`
	TemperaturaAgua  *float64 `json:"temperatura_agua,omitempty" db:"temperatura_agua"`
	TensaoBateria    *float64 `json:"tensao_bateria,omitempty" db:"tensao_bateria"`
	HorasTrabalhadas *float64 `json:"horas_trabalhadas,omitempty" db:"horas_trabalhadas"`
	NumeroPartidas   *float64 `json:"numero_partidas,omitempty" db:"numero_partidas"`
	NivelCombustivel *float64 `json:"nivel_combustivel,omitempty" db:"nivel_combustivel"`

	// Split horimeter counter, the controller's native HHHHH:MM:SS format.
	HorimetroHoras    *float64 `json:"horimetro_horas,omitempty" db:"horimetro_horas"`
	HorimetroMinutos  *float64 `json:"horimetro_minutos,omitempty" db:"horimetro_minutos"`
	HorimetroSegundos *float64 `json:"horimetro_segundos,omitempty" db:"horimetro_segundos"`

	MotorFuncionando bool `json:"motor_funcionando" db:"motor_funcionando"`
	RedeOK           bool `json:"rede_ok" db:"rede_ok"`
	GMGAlimentando   bool `json:"gmg_alimentando" db:"gmg_alimentando"`
	AvisoAtivo       bool `json:"aviso_ativo" db:"aviso_ativo"`
	FalhaAtiva       bool `json:"falha_ativa" db:"falha_ativa"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FormatHorimetro renders an engine-hours counter the way the generator's
// display does: HHHHH:MM:SS, hours padded to five digits.
func FormatHorimetro(horas, minutos, segundos float64) string {
	return fmt.Sprintf("%05d:%02d:%02d",
		int(math.Floor(horas)), int(math.Floor(minutos)), int(math.Floor(segundos)))
}

// HorasDecimaisParaFormato converts the legacy decimal-hours channel into
// the split display format.
func HorasDecimaisParaFormato(horasDecimais float64) string {
	totalSegundos := int(math.Floor(horasDecimais * 3600))
	horas := totalSegundos / 3600
	minutos := (totalSegundos % 3600) / 60
	segundos := totalSegundos % 60
	return FormatHorimetro(float64(horas), float64(minutos), float64(segundos))
}

// HorimetroFormatado prefers the split counter fields and falls back to the
// legacy decimal channel. Returns "" when the reading carries neither.
func (l *Leitura) HorimetroFormatado() string {
	if l.HorimetroHoras != nil && l.HorimetroMinutos != nil && l.HorimetroSegundos != nil {
		return FormatHorimetro(*l.HorimetroHoras, *l.HorimetroMinutos, *l.HorimetroSegundos)
	}
	if l.HorasTrabalhadas != nil {
		return HorasDecimaisParaFormato(*l.HorasTrabalhadas)
	}
	return ""
}
