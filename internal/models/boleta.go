package models

// Item types. "kilo" is billed by weight; the rest by piece count.
const (
	TipoKilo    = "kilo"
	TipoEdredon = "edredon"
	TipoTerno   = "terno"
	TipoOtro    = "otro"
)

// Boleta is the invoice header (new schema). Immutable after creation:
// there is no edit or delete flow in this version.
type Boleta struct {
	ID           uint   `gorm:"primaryKey"`
	Numero       string // correlativo impreso opcional (ej. "N° 007601")
	Cliente      string `gorm:"not null;index:idx_boleta_cliente"`
	Direccion    string
	Telefono     string
	Fecha        string `gorm:"not null;index:idx_boleta_fecha"` // emisión, "2006-01-02 15:04:05"
	EntregaFecha string
	EntregaHora  string
	MetodoPago   string  `gorm:"default:'efectivo'"`
	Estado       string  `gorm:"default:'registrado'"`
	ACuenta      float64 `gorm:"column:a_cuenta;default:0"`
	Saldo        float64 `gorm:"default:0"`
	Total        float64 `gorm:"default:0"`
	Notas        string
	Items        []BoletaItem `gorm:"foreignKey:BoletaID;constraint:OnDelete:CASCADE"`
}

func (Boleta) TableName() string { return "boleta" }

// BoletaItem is one line of a boleta. Weight-based lines carry Kilos,
// count-based lines carry Prendas; the other column stays 0.
type BoletaItem struct {
	ID          uint `gorm:"primaryKey"`
	BoletaID    uint `gorm:"not null;index:idx_bitems_boleta"`
	Descripcion string
	Tipo        string
	Prendas     int     `gorm:"default:0"`
	Kilos       float64 `gorm:"default:0"`
	Lavado      string
	Secado      string
	PUnit       float64 `gorm:"column:p_unit;default:0"`
	Importe     float64 `gorm:"default:0"` // round(cantidad * p_unit, 2)
	Perfumado   bool    `gorm:"default:false"`
}

func (BoletaItem) TableName() string { return "boleta_items" }

// Cantidad returns the billed quantity: kilos for weight-based lines,
// piece count otherwise.
func (it BoletaItem) Cantidad() float64 {
	if it.Tipo == TipoKilo {
		return it.Kilos
	}
	return float64(it.Prendas)
}

// BoletaResumen is the legacy single-line schema ("boletas" table), kept so the
// old reports and the CSV export keep working. One row is written per boleta,
// in the same transaction; there is deliberately no foreign key back.
type BoletaResumen struct {
	ID         uint   `gorm:"primaryKey"`
	Cliente    string `gorm:"not null;index:idx_boletas_cliente"`
	TipoItem   string `gorm:"not null"`
	Kilos      float64 `gorm:"default:0"`
	Cantidad   int     `gorm:"default:0"`
	Servicio   string  `gorm:"default:'normal'"`
	Perfumado  bool    `gorm:"default:false"`
	Precio     float64 `gorm:"not null"`
	Fecha      string  `gorm:"not null;index:idx_boletas_fecha"`
	MetodoPago string  `gorm:"default:'efectivo'"`
	Estado     string  `gorm:"default:'registrado'"`
}

func (BoletaResumen) TableName() string { return "boletas" }
