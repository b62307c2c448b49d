package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

func leituraRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gerador_id",
		"tensao_rede_rs", "tensao_rede_st", "tensao_rede_tr", "tensao_gmg",
		"corrente_fase1", "frequencia_gmg", "rpm_motor", "temperatura_agua",
		"tensao_bateria", "horas_trabalhadas", "numero_partidas", "nivel_combustivel",
		"horimetro_horas", "horimetro_minutos", "horimetro_segundos",
		"motor_funcionando", "rede_ok", "gmg_alimentando", "aviso_ativo", "falha_ativa",
		"created_at",
	})
}

func TestLeiturasInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO leituras_tempo_real").
		WillReturnResult(sqlmock.NewResult(0, 1))

	v := 220.5
	l := &domain.Leitura{GeradorID: "g1", TensaoGMG: &v, MotorFuncionando: true}

	repo := NewPostgresLeiturasRepo(db)
	require.NoError(t, repo.Insert(context.Background(), l))

	// The repo assigns identity and timestamp before inserting.
	assert.NotEmpty(t, l.ID)
	assert.False(t, l.CreatedAt.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeiturasLatest_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM leituras_tempo_real").
		WithArgs("g1").
		WillReturnRows(leituraRows().AddRow(
			"l1", "g1",
			220.0, 221.0, nil, 380.5,
			nil, 60.0, 1800.0, 82.0,
			13.8, 1234.5, 42.0, 75.0,
			1234.0, 30.0, 0.0,
			true, true, false, false, false,
			now,
		))

	repo := NewPostgresLeiturasRepo(db)
	l, err := repo.Latest(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "l1", l.ID)
	require.NotNil(t, l.TensaoGMG)
	assert.Equal(t, 380.5, *l.TensaoGMG)
	assert.Nil(t, l.TensaoRedeTR)
	assert.Nil(t, l.CorrenteFase1)
	assert.True(t, l.MotorFuncionando)
	assert.False(t, l.FalhaAtiva)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeiturasLatest_NoReadings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM leituras_tempo_real").
		WithArgs("g1").
		WillReturnRows(leituraRows())

	repo := NewPostgresLeiturasRepo(db)
	l, err := repo.Latest(context.Background(), "g1")
	require.NoError(t, err)
	assert.Nil(t, l)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeiturasCountSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	since := now.Add(-5 * time.Minute)
	mock.ExpectQuery("SELECT created_at FROM leituras_tempo_real").
		WithArgs("g1", since).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).
			AddRow(now.Add(-10 * time.Second)).
			AddRow(now.Add(-40 * time.Second)).
			AddRow(now.Add(-70 * time.Second)))

	repo := NewPostgresLeiturasRepo(db)
	count, newest, err := repo.CountSince(context.Background(), "g1", since)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NotNil(t, newest)
	assert.Equal(t, now.Add(-10*time.Second), *newest)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeiturasCountSince_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Now().UTC().Add(-5 * time.Minute)
	mock.ExpectQuery("SELECT created_at FROM leituras_tempo_real").
		WithArgs("g1", since).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	repo := NewPostgresLeiturasRepo(db)
	count, newest, err := repo.CountSince(context.Background(), "g1", since)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Nil(t, newest)

	require.NoError(t, mock.ExpectationsWereMet())
}
