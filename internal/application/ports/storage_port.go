package ports

import "context"

// FileUploader puerto de salida para subir ficheros (firmas, logos) a almacenamiento externo.
// Devuelve la URL pública del fichero subido. Las implementaciones no deben reintentar.
type FileUploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}
