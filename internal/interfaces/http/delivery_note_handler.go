package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
)

// DeliveryNoteHandler maneja las peticiones HTTP de albaranes (protegido).
type DeliveryNoteHandler struct {
	uc *usecase.DeliveryNoteUseCase
}

// NewDeliveryNoteHandler construye el handler.
func NewDeliveryNoteHandler(uc *usecase.DeliveryNoteUseCase) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear albarán
// @Tags         deliverynote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "Cliente, proyecto y líneas"
// @Success      201   {object}  dto.DeliveryNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliverynote [post]
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryNoteRequest
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
// @Summary      Listar albaranes
// @Tags         deliverynote
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DeliveryNoteResponse
// @Router       /api/deliverynote [get]
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener albarán
// @Tags         deliverynote
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar albarán sin firmar
// @Tags         deliverynote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del albarán"
// @Param        body  body  dto.UpdateDeliveryNoteRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.DeliveryNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [patch]
func (h *DeliveryNoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar albarán
// @Tags         deliverynote
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "ID del albarán"
// @Param        signature  formData  file    true  "Imagen de la firma"
// @Success      200        {object}  dto.SignatureResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id}/signature [patch]
func (h *DeliveryNoteHandler) Sign(c *fiber.Ctx) error {
	f, err := readUpload(c, "signature")
	if err != nil {
		return err
	}
	out, err := h.uc.Sign(c.UserContext(), GetIdentity(c), c.Params("id"), f.data, f.filename, f.contentType)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar albarán en PDF
// @Tags         deliverynote
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynote/pdf/{id} [get]
func (h *DeliveryNoteHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.PDF(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="deliverynote_%s.pdf"`, id))
	return c.Send(out)
}

// Delete godoc
// @Summary      Borrar albarán sin firmar
// @Tags         deliverynote
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/deliverynote/{id} [delete]
func (h *DeliveryNoteHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
