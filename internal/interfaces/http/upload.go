package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

// upload fichero recibido en un campo multipart.
type upload struct {
	data        []byte
	filename    string
	contentType string
}

// readUpload lee el fichero del campo field. Si falta devuelve un upload vacío y nil:
// el caso de uso valida tamaño y tipo.
func readUpload(c *fiber.Ctx, field string) (upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return upload{}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return upload{}, err
	}
	return upload{data: data, filename: fh.Filename, contentType: fh.Header.Get(fiber.HeaderContentType)}, nil
}

// softDelete interpreta ?soft=false como borrado físico; cualquier otro valor es borrado lógico.
func softDelete(c *fiber.Ctx) bool {
	return c.Query("soft") != "false"
}
