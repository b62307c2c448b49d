package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresVPSConexoesRepo reads the relay connection record and stamps
// validation outcomes onto it. The row itself is created and edited by the
// operator UI.
type PostgresVPSConexoesRepo struct {
	db *sql.DB
}

func NewPostgresVPSConexoesRepo(db *sql.DB) *PostgresVPSConexoesRepo {
	return &PostgresVPSConexoesRepo{db: db}
}

var _ VPSConexoesRepo = (*PostgresVPSConexoesRepo)(nil)

func (r *PostgresVPSConexoesRepo) FindByGeradorID(ctx context.Context, geradorID string) (*domain.VPSConexao, error) {
	var c domain.VPSConexao
	var porta, hostname, provider sql.NullString
	var validado sql.NullBool
	var ultimaValidacao sql.NullTime
	var latenciaMS sql.NullInt64
	var uptimePercent sql.NullFloat64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, gerador_id, ip_fixo, porta, hostname, provider,
		       validado, ultima_validacao, latencia_ms, uptime_percent,
		       created_at, updated_at
		FROM vps_conexoes WHERE gerador_id = $1`,
		geradorID,
	).Scan(
		&c.ID, &c.GeradorID, &c.IPFixo, &porta, &hostname, &provider,
		&validado, &ultimaValidacao, &latenciaMS, &uptimePercent,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vps_conexao: %w", err)
	}

	if porta.Valid {
		c.Porta = &porta.String
	}
	if hostname.Valid {
		c.Hostname = &hostname.String
	}
	if provider.Valid {
		c.Provider = &provider.String
	}
	if validado.Valid {
		c.Validado = &validado.Bool
	}
	if ultimaValidacao.Valid {
		c.UltimaValidacao = &ultimaValidacao.Time
	}
	if latenciaMS.Valid {
		v := int(latenciaMS.Int64)
		c.LatenciaMS = &v
	}
	if uptimePercent.Valid {
		c.UptimePercent = &uptimePercent.Float64
	}

	return &c, nil
}

func (r *PostgresVPSConexoesRepo) RecordValidation(ctx context.Context, geradorID string, validado bool, at time.Time, latenciaMS *int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE vps_conexoes
		SET validado = $1, ultima_validacao = $2, latencia_ms = $3, updated_at = $2
		WHERE gerador_id = $4`,
		validado, at, latenciaMS, geradorID,
	)
	if err != nil {
		return fmt.Errorf("failed to record validation: %w", err)
	}
	return nil
}
