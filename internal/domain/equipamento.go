package domain

import "time"

// EquipamentoHF binds a generator to its serial-to-Ethernet bridge identity
// (corresponds to the equipamentos_hf table). PortaVPS is the logical relay
// port the bridge reports on and is unique across the table: it is the only
// key the ingestion path has to identify the sender.
type EquipamentoHF struct {
	ID                 string     `json:"id" db:"id"`
	GeradorID          string     `json:"gerador_id" db:"gerador_id"`
	Modelo             string     `json:"modelo" db:"modelo"`
	IPVPS              string     `json:"ip_vps" db:"ip_vps"`
	PortaVPS           string     `json:"porta_vps" db:"porta_vps"`
	PortaTCPLocal      string     `json:"porta_tcp_local" db:"porta_tcp_local"`
	PortaSerial        *string    `json:"porta_serial,omitempty" db:"porta_serial"`
	EnderecoModbus     string     `json:"endereco_modbus" db:"endereco_modbus"`
	TimeoutMS          *int       `json:"timeout_ms,omitempty" db:"timeout_ms"`
	BaudRate           *int       `json:"baud_rate,omitempty" db:"baud_rate"`
	DataBits           *int       `json:"data_bits,omitempty" db:"data_bits"`
	Parity             *string    `json:"parity,omitempty" db:"parity"`
	StopBits           *int       `json:"stop_bits,omitempty" db:"stop_bits"`
	Status             string     `json:"status" db:"status"`
	LastConnectionIP   *string    `json:"last_connection_ip,omitempty" db:"last_connection_ip"`
	LastConnectionPort *int       `json:"last_connection_port,omitempty" db:"last_connection_port"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at" db:"updated_at"`
}

// NewAutoProvisionedEquipamento returns the default bridge record created on
// first contact from an unknown port.
func NewAutoProvisionedEquipamento(geradorID, portaVPS, ipVPS string) *EquipamentoHF {
	return &EquipamentoHF{
		GeradorID:      geradorID,
		Modelo:         "HF2211",
		IPVPS:          ipVPS,
		PortaVPS:       portaVPS,
		PortaTCPLocal:  "502",
		EnderecoModbus: "001",
		Status:         "online",
	}
}
