package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Factura is an invoice header. It exclusively owns its Detalles: lines are
// created with the header in one transaction and removed with it on delete.
type Factura struct {
	ID        int64            `json:"id" db:"fenc_id"`
	Numero    string           `json:"numero" db:"fenc_numero"`
	Fecha     time.Time        `json:"fecha" db:"fenc_fecha"`
	PersonaID int64            `json:"personaId" db:"zper_id"`
	Detalles  []FacturaDetalle `json:"detalles"`
}

// FacturaDetalle is a single invoice line. LineTotal is computed by the
// database as Cantidad * UnitPrice and is never written by the application.
type FacturaDetalle struct {
	ID         int64           `json:"id" db:"fdet_id"`
	Linea      int             `json:"linea" db:"fdet_linea"`
	Cantidad   decimal.Decimal `json:"cantidad" db:"fdet_cantidad"`
	ProductoID int64           `json:"productoId" db:"zprod_id"`
	FacturaID  int64           `json:"-" db:"zfenc_id"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal  decimal.Decimal `json:"lineTotal" db:"line_total"`
}
