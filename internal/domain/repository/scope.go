package repository

// Scope filtro de alcance para listados: registros del usuario o etiquetados con su empresa.
type Scope struct {
	UserID     string
	CompanyCIF string // "" = solo registros propios
}
