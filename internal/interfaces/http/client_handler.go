package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
)

// ClientHandler maneja las peticiones HTTP de clientes (protegido).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         client
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/client [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes activos
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ClientResponse
// @Router       /api/client [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListArchived godoc
// @Summary      Listar clientes archivados
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ClientResponse
// @Router       /api/client/archived [get]
func (h *ClientHandler) ListArchived(c *fiber.Ctx) error {
	out, err := h.uc.ListArchived(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/client/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         client
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ClientMutationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/client/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Archivar o borrar cliente
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del cliente"
// @Param        soft  query  string  false  "false = borrado físico"
// @Success      200   {object}  dto.ClientMutationResponse
// @Router       /api/client/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id"), softDelete(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar cliente archivado
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/client/{id}/restore [patch]
func (h *ClientHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
