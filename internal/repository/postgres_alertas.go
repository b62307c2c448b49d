package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresAlertasRepo persists alert batches. One evaluation pass produces
// one batch; a batch is inserted in a single statement.
type PostgresAlertasRepo struct {
	db *sql.DB
}

func NewPostgresAlertasRepo(db *sql.DB) *PostgresAlertasRepo {
	return &PostgresAlertasRepo{db: db}
}

var _ AlertasRepo = (*PostgresAlertasRepo)(nil)

func (r *PostgresAlertasRepo) CreateBatch(ctx context.Context, alertas []domain.Alerta) error {
	if len(alertas) == 0 {
		return nil
	}

	now := time.Now().UTC()
	var placeholders []string
	var args []interface{}
	argN := 1

	for i := range alertas {
		a := &alertas[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			argN, argN+1, argN+2, argN+3, argN+4, argN+5, argN+6, argN+7))
		args = append(args, a.ID, a.GeradorID, a.LeituraID, a.Nivel, a.Mensagem, a.Origem, a.Resolvido, a.CreatedAt)
		argN += 8
	}

	query := `
		INSERT INTO alertas (id, gerador_id, leitura_id, nivel, mensagem, origem, resolvido, created_at)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert alertas batch: %w", err)
	}
	return nil
}
