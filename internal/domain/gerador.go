package domain

import "time"

// Gerador is a monitored generator set (corresponds to the geradores table).
// Metadata fields are display-only; ingestion never reads them back.
type Gerador struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	Marca             string    `json:"marca" db:"marca"`
	Modelo            string    `json:"modelo" db:"modelo"`
	Controlador       string    `json:"controlador" db:"controlador"`
	PotenciaNominal   string    `json:"potencia_nominal" db:"potencia_nominal"`
	TensaoNominal     string    `json:"tensao_nominal" db:"tensao_nominal"`
	FrequenciaNominal string    `json:"frequencia_nominal" db:"frequencia_nominal"`
	Combustivel       string    `json:"combustivel" db:"combustivel"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// SystemUserID owns auto-provisioned generators until an operator claims them.
const SystemUserID = "00000000-0000-0000-0000-000000000000"

// NewAutoProvisionedGerador returns a generator with the fleet-default
// metadata used when a reading arrives for a never-seen port.
func NewAutoProvisionedGerador() *Gerador {
	return &Gerador{
		UserID:            SystemUserID,
		Marca:             "MWM",
		Modelo:            "D229-4",
		Controlador:       "STEMAC K30XL",
		PotenciaNominal:   "75 kVA",
		TensaoNominal:     "220V",
		FrequenciaNominal: "60Hz",
		Combustivel:       "Diesel",
	}
}
