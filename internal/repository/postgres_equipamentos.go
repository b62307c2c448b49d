package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresEquipamentosRepo Postgres implementation of EquipamentosRepo.
// porta_vps carries a UNIQUE constraint; Create surfaces the violation
// unwrapped so callers can detect it with IsUniqueViolation.
type PostgresEquipamentosRepo struct {
	db *sql.DB
}

func NewPostgresEquipamentosRepo(db *sql.DB) *PostgresEquipamentosRepo {
	return &PostgresEquipamentosRepo{db: db}
}

var _ EquipamentosRepo = (*PostgresEquipamentosRepo)(nil)

const equipamentoColumns = `
	id, gerador_id, modelo, ip_vps, porta_vps, porta_tcp_local,
	porta_serial, endereco_modbus, timeout_ms, baud_rate, data_bits,
	parity, stop_bits, status, last_connection_ip, last_connection_port,
	created_at, updated_at`

func (r *PostgresEquipamentosRepo) FindByPortaVPS(ctx context.Context, portaVPS string) (*domain.EquipamentoHF, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+equipamentoColumns+` FROM equipamentos_hf WHERE porta_vps = $1`,
		portaVPS,
	)
	return scanEquipamento(row)
}

func (r *PostgresEquipamentosRepo) FindByGeradorID(ctx context.Context, geradorID string) (*domain.EquipamentoHF, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+equipamentoColumns+` FROM equipamentos_hf WHERE gerador_id = $1`,
		geradorID,
	)
	return scanEquipamento(row)
}

func (r *PostgresEquipamentosRepo) Create(ctx context.Context, e *domain.EquipamentoHF) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO equipamentos_hf (
			id, gerador_id, modelo, ip_vps, porta_vps, porta_tcp_local,
			porta_serial, endereco_modbus, timeout_ms, baud_rate, data_bits,
			parity, stop_bits, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		e.ID, e.GeradorID, e.Modelo, e.IPVPS, e.PortaVPS, e.PortaTCPLocal,
		e.PortaSerial, e.EnderecoModbus, e.TimeoutMS, e.BaudRate, e.DataBits,
		e.Parity, e.StopBits, e.Status, e.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			// Not wrapped: the gateway matches on the pq error itself.
			return err
		}
		return fmt.Errorf("failed to insert equipamento_hf: %w", err)
	}
	return nil
}

func (r *PostgresEquipamentosRepo) MarkOnline(ctx context.Context, portaVPS string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE equipamentos_hf SET status = 'online', updated_at = $1 WHERE porta_vps = $2`,
		time.Now().UTC(), portaVPS,
	)
	if err != nil {
		return fmt.Errorf("failed to mark equipamento online: %w", err)
	}
	return nil
}

func scanEquipamento(row *sql.Row) (*domain.EquipamentoHF, error) {
	var e domain.EquipamentoHF
	var portaSerial, parity, lastIP sql.NullString
	var timeoutMS, baudRate, dataBits, stopBits, lastPort sql.NullInt64
	var updatedAt sql.NullTime

	err := row.Scan(
		&e.ID, &e.GeradorID, &e.Modelo, &e.IPVPS, &e.PortaVPS, &e.PortaTCPLocal,
		&portaSerial, &e.EnderecoModbus, &timeoutMS, &baudRate, &dataBits,
		&parity, &stopBits, &e.Status, &lastIP, &lastPort,
		&e.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan equipamento_hf: %w", err)
	}

	if portaSerial.Valid {
		e.PortaSerial = &portaSerial.String
	}
	if parity.Valid {
		e.Parity = &parity.String
	}
	if lastIP.Valid {
		e.LastConnectionIP = &lastIP.String
	}
	if timeoutMS.Valid {
		v := int(timeoutMS.Int64)
		e.TimeoutMS = &v
	}
	if baudRate.Valid {
		v := int(baudRate.Int64)
		e.BaudRate = &v
	}
	if dataBits.Valid {
		v := int(dataBits.Int64)
		e.DataBits = &v
	}
	if stopBits.Valid {
		v := int(stopBits.Int64)
		e.StopBits = &v
	}
	if lastPort.Valid {
		v := int(lastPort.Int64)
		e.LastConnectionPort = &v
	}
	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}

	return &e, nil
}
