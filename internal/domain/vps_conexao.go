package domain

import "time"

// VPSConexao is the relay-host connection record for a generator
// (vps_conexoes table). The validation endpoint stamps Validado,
// UltimaValidacao and LatenciaMS; the rest is operator configuration.
type VPSConexao struct {
	ID              string     `json:"id" db:"id"`
	GeradorID       string     `json:"gerador_id" db:"gerador_id"`
	IPFixo          string     `json:"ip_fixo" db:"ip_fixo"`
	Porta           *string    `json:"porta" db:"porta"`
	Hostname        *string    `json:"hostname" db:"hostname"`
	Provider        *string    `json:"provider" db:"provider"`
	Validado        *bool      `json:"validado" db:"validado"`
	UltimaValidacao *time.Time `json:"ultima_validacao" db:"ultima_validacao"`
	LatenciaMS      *int       `json:"latencia_ms" db:"latencia_ms"`
	UptimePercent   *float64   `json:"uptime_percent" db:"uptime_percent"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
