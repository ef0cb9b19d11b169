package entity

// Company es el perfil de empresa embebido en User (objeto valor, no entidad propia).
// Dos usuarios con el mismo CIF comparten alcance sobre clientes, proyectos y albaranes.
type Company struct {
	Name     string
	CIF      string
	Street   string
	Number   string
	Postal   string
	City     string
	Province string
	LogoURL  string
}
