package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresParametrosAlertaRepo reads threshold rules. Rules are written by
// the operator UI; the core only ever lists enabled ones.
type PostgresParametrosAlertaRepo struct {
	db *sql.DB
}

func NewPostgresParametrosAlertaRepo(db *sql.DB) *PostgresParametrosAlertaRepo {
	return &PostgresParametrosAlertaRepo{db: db}
}

var _ ParametrosAlertaRepo = (*PostgresParametrosAlertaRepo)(nil)

func (r *PostgresParametrosAlertaRepo) ListEnabled(ctx context.Context, geradorID string) ([]domain.ParametroAlerta, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gerador_id, parametro, valor_minimo, valor_maximo,
		       nivel, habilitado, created_at, updated_at
		FROM parametros_alerta
		WHERE gerador_id = $1 AND habilitado = true`,
		geradorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query parametros_alerta: %w", err)
	}
	defer rows.Close()

	var params []domain.ParametroAlerta
	for rows.Next() {
		var p domain.ParametroAlerta
		var valorMinimo, valorMaximo sql.NullFloat64

		if err := rows.Scan(
			&p.ID, &p.GeradorID, &p.Parametro, &valorMinimo, &valorMaximo,
			&p.Nivel, &p.Habilitado, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parametro_alerta: %w", err)
		}

		p.ValorMinimo = nullFloat(valorMinimo)
		p.ValorMaximo = nullFloat(valorMaximo)
		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return params, nil
}
