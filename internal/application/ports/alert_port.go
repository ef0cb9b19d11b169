package ports

// Notifier alerta operativa fire-and-forget. Solo se invoca para fallos internos (5xx);
// nunca bloquea ni devuelve error al llamante.
type Notifier interface {
	Notify(message string)
}
