package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/connectivity"
	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

func TestGetDiagnostics(t *testing.T) {
	now := time.Now().UTC()
	h1, h2, h3 := 100.2, 100.1, 100.0
	leituras := &fakeLeiturasRepo{recent: []domain.Leitura{
		{ID: "l3", HorasTrabalhadas: &h1, CreatedAt: now.Add(-10 * time.Second)},
		{ID: "l2", HorasTrabalhadas: &h2, CreatedAt: now.Add(-40 * time.Second)},
		{ID: "l1", HorasTrabalhadas: &h3, CreatedAt: now.Add(-70 * time.Second)},
	}}
	updated := now.Add(-10 * time.Second)
	equipamentos := &fakeEquipamentosRepo{equipamento: &domain.EquipamentoHF{UpdatedAt: &updated}}

	svc := NewDiagnosticsService(leituras, equipamentos, zap.NewNop())
	report, err := svc.GetDiagnostics(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, "g1", report.GeradorID)
	assert.Equal(t, connectivity.StatusOnline, report.Conexao.Status)
	assert.Equal(t, "10s atrás", report.Conexao.UltimaAtualizacao)

	assert.Equal(t, 3, report.Janela.Total)
	assert.Equal(t, 0, report.Janela.Anomalias)
	assert.Equal(t, 100, report.Janela.Estabilidade)
	require.Len(t, report.Leituras, 3)

	// Horimeter comes from the newest reading's legacy decimal channel.
	assert.Equal(t, "00100:12:00", report.Horimetro)
}

func TestGetDiagnostics_NoReadings(t *testing.T) {
	svc := NewDiagnosticsService(&fakeLeiturasRepo{}, &fakeEquipamentosRepo{}, zap.NewNop())
	report, err := svc.GetDiagnostics(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, connectivity.StatusOffline, report.Conexao.Status)
	assert.Equal(t, "Nunca", report.Conexao.UltimaAtualizacao)
	assert.Equal(t, 0, report.Janela.Total)
	assert.Equal(t, 100, report.Janela.Estabilidade)
	assert.Empty(t, report.Horimetro)
}

func TestGetDiagnostics_SplitHorimeterWins(t *testing.T) {
	hh, hm, hs := 1234.0, 30.0, 15.0
	legacy := 999.0
	leituras := &fakeLeiturasRepo{recent: []domain.Leitura{{
		ID:                "l1",
		HorasTrabalhadas:  &legacy,
		HorimetroHoras:    &hh,
		HorimetroMinutos:  &hm,
		HorimetroSegundos: &hs,
		CreatedAt:         time.Now().UTC(),
	}}}

	svc := NewDiagnosticsService(leituras, &fakeEquipamentosRepo{}, zap.NewNop())
	report, err := svc.GetDiagnostics(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, "01234:30:15", report.Horimetro)
}
