package domain

import (
	"github.com/shopspring/decimal"
)

// Producto represents a catalog product. Precio and Costo carry no sign
// constraints: zero and negative values are accepted.
type Producto struct {
	ID           int64           `json:"id" db:"prod_id"`
	Descripcion  string          `json:"descripcion" db:"prod_descripcion"`
	UnidadMedida string          `json:"unidadMedida" db:"prod_um"`
	Precio       decimal.Decimal `json:"precio" db:"prod_precio"`
	Costo        decimal.Decimal `json:"costo" db:"prod_costo"`
}
