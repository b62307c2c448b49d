package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresGeradoresRepo Postgres implementation of GeradoresRepo.
type PostgresGeradoresRepo struct {
	db *sql.DB
}

func NewPostgresGeradoresRepo(db *sql.DB) *PostgresGeradoresRepo {
	return &PostgresGeradoresRepo{db: db}
}

var _ GeradoresRepo = (*PostgresGeradoresRepo)(nil)

func (r *PostgresGeradoresRepo) Create(ctx context.Context, g *domain.Gerador) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO geradores (
			id, user_id, marca, modelo, controlador,
			potencia_nominal, tensao_nominal, frequencia_nominal, combustivel,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.ID, g.UserID, g.Marca, g.Modelo, g.Controlador,
		g.PotenciaNominal, g.TensaoNominal, g.FrequenciaNominal, g.Combustivel,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert gerador: %w", err)
	}
	return nil
}

func (r *PostgresGeradoresRepo) GetByID(ctx context.Context, id string) (*domain.Gerador, error) {
	var g domain.Gerador
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, marca, modelo, controlador,
		       potencia_nominal, tensao_nominal, frequencia_nominal, combustivel,
		       created_at, updated_at
		FROM geradores WHERE id = $1`,
		id,
	).Scan(
		&g.ID, &g.UserID, &g.Marca, &g.Modelo, &g.Controlador,
		&g.PotenciaNominal, &g.TensaoNominal, &g.FrequenciaNominal, &g.Combustivel,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query gerador: %w", err)
	}
	return &g, nil
}
