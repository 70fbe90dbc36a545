package domain

import (
	"github.com/shopspring/decimal"
)

// Report rows are read-only projections of database views. They have no
// mutation path and no lifecycle of their own.

type PersonaTotal struct {
	PersonaID       int64           `json:"personaId" db:"per_id"`
	Nombre          string          `json:"nombre" db:"per_nombre"`
	Apellido        string          `json:"apellido" db:"per_apellido"`
	TotalFacturado  decimal.Decimal `json:"totalFacturado" db:"total_facturado"`
}

type PersonaProductoMasCaro struct {
	PersonaID           int64           `json:"personaId" db:"per_id"`
	Nombre              string          `json:"nombre" db:"per_nombre"`
	Apellido            string          `json:"apellido" db:"per_apellido"`
	ProductoID          int64           `json:"productoId" db:"prod_id"`
	ProductoDescripcion string          `json:"productoDescripcion" db:"prod_descripcion"`
	ProductoPrecio      decimal.Decimal `json:"productoPrecio" db:"prod_precio"`
}

type ProductoCantidad struct {
	ProductoID          int64           `json:"productoId" db:"prod_id"`
	ProductoDescripcion string          `json:"productoDescripcion" db:"prod_descripcion"`
	CantidadFacturada   decimal.Decimal `json:"cantidadFacturada" db:"cantidad_facturada"`
}

type ProductoUtilidad struct {
	ProductoID          int64           `json:"productoId" db:"prod_id"`
	ProductoDescripcion string          `json:"productoDescripcion" db:"prod_descripcion"`
	UtilidadTotal       decimal.Decimal `json:"utilidadTotal" db:"utilidad_total"`
}

type ProductoMargen struct {
	ProductoID          int64               `json:"productoId" db:"prod_id"`
	ProductoDescripcion string              `json:"productoDescripcion" db:"prod_descripcion"`
	Ingresos            decimal.Decimal     `json:"ingresos" db:"ingresos"`
	Utilidad            decimal.Decimal     `json:"utilidad" db:"utilidad"`
	Margen              decimal.NullDecimal `json:"margen" db:"margen"`
}
