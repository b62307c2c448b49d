package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

func equipamentoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gerador_id", "modelo", "ip_vps", "porta_vps", "porta_tcp_local",
		"porta_serial", "endereco_modbus", "timeout_ms", "baud_rate", "data_bits",
		"parity", "stop_bits", "status", "last_connection_ip", "last_connection_port",
		"created_at", "updated_at",
	})
}

func TestEquipamentosFindByPortaVPS_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM equipamentos_hf WHERE porta_vps").
		WithArgs("26001").
		WillReturnRows(equipamentoRows().AddRow(
			"e1", "g1", "HF2211", "10.0.0.1", "26001", "502",
			nil, "001", nil, nil, nil,
			nil, nil, "online", "187.10.0.5", 26001,
			now, now,
		))

	repo := NewPostgresEquipamentosRepo(db)
	e, err := repo.FindByPortaVPS(context.Background(), "26001")
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, "g1", e.GeradorID)
	assert.Equal(t, "HF2211", e.Modelo)
	assert.Nil(t, e.PortaSerial)
	require.NotNil(t, e.LastConnectionIP)
	assert.Equal(t, "187.10.0.5", *e.LastConnectionIP)
	require.NotNil(t, e.UpdatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipamentosFindByPortaVPS_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM equipamentos_hf WHERE porta_vps").
		WithArgs("99999").
		WillReturnRows(equipamentoRows())

	repo := NewPostgresEquipamentosRepo(db)
	e, err := repo.FindByPortaVPS(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, e)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipamentosCreate_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO equipamentos_hf").
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewPostgresEquipamentosRepo(db)
	createErr := repo.Create(context.Background(), domain.NewAutoProvisionedEquipamento("g1", "26001", "10.0.0.1"))
	require.Error(t, createErr)
	assert.True(t, IsUniqueViolation(createErr))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipamentosMarkOnline(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE equipamentos_hf SET status = 'online'").
		WithArgs(sqlmock.AnyArg(), "26001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresEquipamentosRepo(db)
	require.NoError(t, repo.MarkOnline(context.Background(), "26001"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}
