package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

// PostgresLeiturasRepo Postgres implementation of LeiturasRepo. Readings are
// append-only: no update or delete statements exist here.
type PostgresLeiturasRepo struct {
	db *sql.DB
}

func NewPostgresLeiturasRepo(db *sql.DB) *PostgresLeiturasRepo {
	return &PostgresLeiturasRepo{db: db}
}

var _ LeiturasRepo = (*PostgresLeiturasRepo)(nil)

const leituraColumns = `
	id, gerador_id,
	tensao_rede_rs, tensao_rede_st, tensao_rede_tr, tensao_gmg,
	corrente_fase1, frequencia_gmg, rpm_motor, temperatura_agua,
	tensao_bateria, horas_trabalhadas, numero_partidas, nivel_combustivel,
	horimetro_horas, horimetro_minutos, horimetro_segundos,
	motor_funcionando, rede_ok, gmg_alimentando, aviso_ativo, falha_ativa,
	created_at`

func (r *PostgresLeiturasRepo) Insert(ctx context.Context, l *domain.Leitura) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leituras_tempo_real (
			id, gerador_id,
			tensao_rede_rs, tensao_rede_st, tensao_rede_tr, tensao_gmg,
			corrente_fase1, frequencia_gmg, rpm_motor, temperatura_agua,
			tensao_bateria, horas_trabalhadas, numero_partidas, nivel_combustivel,
			horimetro_horas, horimetro_minutos, horimetro_segundos,
			motor_funcionando, rede_ok, gmg_alimentando, aviso_ativo, falha_ativa,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)`,
		l.ID, l.GeradorID,
		l.TensaoRedeRS, l.TensaoRedeST, l.TensaoRedeTR, l.TensaoGMG,
		l.CorrenteFase1, l.FrequenciaGMG, l.RPMMotor, l.TemperaturaAgua,
		l.TensaoBateria, l.HorasTrabalhadas, l.NumeroPartidas, l.NivelCombustivel,
		l.HorimetroHoras, l.HorimetroMinutos, l.HorimetroSegundos,
		l.MotorFuncionando, l.RedeOK, l.GMGAlimentando, l.AvisoAtivo, l.FalhaAtiva,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert leitura: %w", err)
	}
	return nil
}

func (r *PostgresLeiturasRepo) Latest(ctx context.Context, geradorID string) (*domain.Leitura, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+leituraColumns+`
		FROM leituras_tempo_real
		WHERE gerador_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		geradorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest leitura: %w", err)
	}
	defer rows.Close()

	leituras, err := scanLeituras(rows)
	if err != nil {
		return nil, err
	}
	if len(leituras) == 0 {
		return nil, nil
	}
	return &leituras[0], nil
}

func (r *PostgresLeiturasRepo) Recent(ctx context.Context, geradorID string, limit int) ([]domain.Leitura, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+leituraColumns+`
		FROM leituras_tempo_real
		WHERE gerador_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		geradorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent leituras: %w", err)
	}
	defer rows.Close()

	return scanLeituras(rows)
}

func (r *PostgresLeiturasRepo) CountSince(ctx context.Context, geradorID string, since time.Time) (int, *time.Time, error) {
	// Capped at 5 like the on-demand validation check: the caller only needs
	// "did anything arrive", not a full count over a busy window.
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at
		FROM leituras_tempo_real
		WHERE gerador_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 5`,
		geradorID, since,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query leituras since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	var count int
	var newest *time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return 0, nil, fmt.Errorf("failed to scan created_at: %w", err)
		}
		if newest == nil {
			t := ts
			newest = &t
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return count, newest, nil
}

func scanLeituras(rows *sql.Rows) ([]domain.Leitura, error) {
	var results []domain.Leitura

	for rows.Next() {
		var l domain.Leitura
		var tensaoRedeRS, tensaoRedeST, tensaoRedeTR, tensaoGMG sql.NullFloat64
		var correnteFase1, frequenciaGMG, rpmMotor, temperaturaAgua sql.NullFloat64
		var tensaoBateria, horasTrabalhadas, numeroPartidas, nivelCombustivel sql.NullFloat64
		var horimetroHoras, horimetroMinutos, horimetroSegundos sql.NullFloat64

		if err := rows.Scan(
			&l.ID, &l.GeradorID,
			&tensaoRedeRS, &tensaoRedeST, &tensaoRedeTR, &tensaoGMG,
			&correnteFase1, &frequenciaGMG, &rpmMotor, &temperaturaAgua,
			&tensaoBateria, &horasTrabalhadas, &numeroPartidas, &nivelCombustivel,
			&horimetroHoras, &horimetroMinutos, &horimetroSegundos,
			&l.MotorFuncionando, &l.RedeOK, &l.GMGAlimentando, &l.AvisoAtivo, &l.FalhaAtiva,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leitura: %w", err)
		}

		l.TensaoRedeRS = nullFloat(tensaoRedeRS)
		l.TensaoRedeST = nullFloat(tensaoRedeST)
		l.TensaoRedeTR = nullFloat(tensaoRedeTR)
		l.TensaoGMG = nullFloat(tensaoGMG)
		l.CorrenteFase1 = nullFloat(correnteFase1)
		l.FrequenciaGMG = nullFloat(frequenciaGMG)
		l.RPMMotor = nullFloat(rpmMotor)
		l.TemperaturaAgua = nullFloat(temperaturaAgua)
		l.TensaoBateria = nullFloat(tensaoBateria)
		l.HorasTrabalhadas = nullFloat(horasTrabalhadas)
		l.NumeroPartidas = nullFloat(numeroPartidas)
		l.NivelCombustivel = nullFloat(nivelCombustivel)
		l.HorimetroHoras = nullFloat(horimetroHoras)
		l.HorimetroMinutos = nullFloat(horimetroMinutos)
		l.HorimetroSegundos = nullFloat(horimetroSegundos)

		results = append(results, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return results, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
