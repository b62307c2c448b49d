package domain

import "time"

// Alert severity levels (nivel column values).
const (
	NivelInfo     = "info"
	NivelWarning  = "warning"
	NivelCritical = "critical"
)

// Alert origins. OrigemAI exists in the schema for a future ML detector but
// is never produced by this service.
const (
	OrigemRule = "rule"
	OrigemAI   = "ai"
)

// ParametroAlerta is a per-generator threshold rule (parametros_alerta
// table). Parametro is a display label matched verbatim against the fixed
// channel map; nil bounds are simply not checked.
type ParametroAlerta struct {
	ID          string    `json:"id" db:"id"`
	GeradorID   string    `json:"gerador_id" db:"gerador_id"`
	Parametro   string    `json:"parametro" db:"parametro"`
	ValorMinimo *float64  `json:"valor_minimo" db:"valor_minimo"`
	ValorMaximo *float64  `json:"valor_maximo" db:"valor_maximo"`
	Nivel       string    `json:"nivel" db:"nivel"`
	Habilitado  bool      `json:"habilitado" db:"habilitado"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Alerta is an emitted alert event (alertas table). Resolution fields are
// managed by the operator UI, never by the core.
type Alerta struct {
	ID          string     `json:"id" db:"id"`
	GeradorID   string     `json:"gerador_id" db:"gerador_id"`
	LeituraID   *string    `json:"leitura_id" db:"leitura_id"`
	Nivel       string     `json:"nivel" db:"nivel"`
	Mensagem    string     `json:"mensagem" db:"mensagem"`
	Origem      string     `json:"origem" db:"origem"`
	Resolvido   bool       `json:"resolvido" db:"resolvido"`
	ResolvidoEm *time.Time `json:"resolvido_em" db:"resolvido_em"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
