package repository

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// GeradoresRepo persists generator records.
type GeradoresRepo interface {
	Create(ctx context.Context, g *domain.Gerador) error
	GetByID(ctx context.Context, id string) (*domain.Gerador, error)
}

// EquipamentosRepo persists bridge transport bindings. FindByPortaVPS has
// maybe-single semantics: (nil, nil) when no binding exists for the port.
type EquipamentosRepo interface {
	FindByPortaVPS(ctx context.Context, portaVPS string) (*domain.EquipamentoHF, error)
	FindByGeradorID(ctx context.Context, geradorID string) (*domain.EquipamentoHF, error)
	Create(ctx context.Context, e *domain.EquipamentoHF) error
	// MarkOnline stamps the binding status and refreshes updated_at; this is
	// the signal the coarse binding-level status check consumes.
	MarkOnline(ctx context.Context, portaVPS string) error
}

// LeiturasRepo is the append-only reading store.
type LeiturasRepo interface {
	Insert(ctx context.Context, l *domain.Leitura) error
	// Latest returns (nil, nil) when the generator has no readings yet.
	Latest(ctx context.Context, geradorID string) (*domain.Leitura, error)
	// Recent returns up to limit readings ordered newest first.
	Recent(ctx context.Context, geradorID string, limit int) ([]domain.Leitura, error)
	// CountSince reports how many readings arrived at or after since (capped
	// at 5, mirroring the on-demand validation) and the timestamp of the newest
	// one inside the window.
	CountSince(ctx context.Context, geradorID string, since time.Time) (int, *time.Time, error)
}

// ParametrosAlertaRepo reads threshold rule configuration.
type ParametrosAlertaRepo interface {
	ListEnabled(ctx context.Context, geradorID string) ([]domain.ParametroAlerta, error)
}

// AlertasRepo persists emitted alerts.
type AlertasRepo interface {
	CreateBatch(ctx context.Context, alertas []domain.Alerta) error
}

// VPSConexoesRepo reads and stamps the relay connection row. FindByGeradorID
// has maybe-single semantics: (nil, nil) when the generator has no row.
type VPSConexoesRepo interface {
	FindByGeradorID(ctx context.Context, geradorID string) (*domain.VPSConexao, error)
	RecordValidation(ctx context.Context, geradorID string, validado bool, at time.Time, latenciaMS *int) error
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). The auto-provision path treats it as "another
// request provisioned this port first".
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
