package anomaly

import (
	"math"
	"time"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
)

const (
	// maxJumpHoras: a cumulative-hours jump beyond this within one sampling
	// interval is physically implausible.
	maxJumpHoras = 10.0
	// toleranciaNegativa absorbs float/rounding noise on a counter that must
	// otherwise never decrease.
	toleranciaNegativa = -0.01
)

// LeituraDelta is the per-reading diagnostic row: the signed horimeter delta
// against the immediately older reading, the wall-clock gap between the two
// in milliseconds, and whether the delta is anomalous. The oldest reading in the window has
// no delta and is never anomalous.
type LeituraDelta struct {
	LeituraID      string    `json:"leitura_id"`
	CreatedAt      time.Time `json:"created_at"`
	DeltaHorimetro *float64  `json:"delta_horimetro"`
	DeltaTempoMS   int64     `json:"delta_tempo_ms"`
	Anomalia       bool      `json:"anomalia"`
}

// Stats aggregates a diagnostic window. DeltaMedio is the mean absolute
// delta over non-anomalous deltas only, so a single wild jump does not mask
// the baseline. Estabilidade is (total-anomalias)/total as a rounded
// percentage, 100 for an empty window.
type Stats struct {
	Total        int     `json:"total"`
	Anomalias    int     `json:"anomalias"`
	DeltaMedio   float64 `json:"delta_medio"`
	Estabilidade int     `json:"estabilidade"`
}

// Analyze computes deltas over a window of readings ordered newest first
// (the order the store returns them in). Each reading is compared against
// the next element, i.e. the chronologically previous sample.
func Analyze(leituras []domain.Leitura) ([]LeituraDelta, Stats) {
	deltas := make([]LeituraDelta, 0, len(leituras))

	for i := range leituras {
		atual := &leituras[i]
		row := LeituraDelta{
			LeituraID: atual.ID,
			CreatedAt: atual.CreatedAt,
		}

		if i+1 < len(leituras) {
			anterior := &leituras[i+1]
			if atual.HorasTrabalhadas != nil && anterior.HorasTrabalhadas != nil {
				d := *atual.HorasTrabalhadas - *anterior.HorasTrabalhadas
				row.DeltaHorimetro = &d
				row.DeltaTempoMS = atual.CreatedAt.Sub(anterior.CreatedAt).Milliseconds()
				if math.Abs(d) > maxJumpHoras || d < toleranciaNegativa {
					row.Anomalia = true
				}
			}
		}

		deltas = append(deltas, row)
	}

	return deltas, computeStats(deltas)
}

func computeStats(deltas []LeituraDelta) Stats {
	stats := Stats{Total: len(deltas), Estabilidade: 100}
	if len(deltas) == 0 {
		return stats
	}

	var soma float64
	var validos int
	for _, d := range deltas {
		if d.Anomalia {
			stats.Anomalias++
			continue
		}
		if d.DeltaHorimetro != nil {
			soma += *d.DeltaHorimetro
			validos++
		}
	}

	if validos > 0 {
		stats.DeltaMedio = math.Abs(soma / float64(validos))
	}
	stats.Estabilidade = int(math.Round(float64(stats.Total-stats.Anomalias) / float64(stats.Total) * 100))

	return stats
}
