package domain

// Persona represents a billable person (customer)
type Persona struct {
	ID            int64  `json:"id" db:"per_id"`
	Nombre        string `json:"nombre" db:"per_nombre"`
	Apellido      string `json:"apellido" db:"per_apellido"`
	TipoDocumento string `json:"tipoDocumento" db:"per_tipodocumento"`
	Documento     string `json:"documento" db:"per_documento"`
}
