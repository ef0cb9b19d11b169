package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
)

// ProjectHandler maneja las peticiones HTTP de proyectos (protegido).
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         project
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Datos del proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/project [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
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
// @Summary      Listar proyectos activos
// @Tags         project
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProjectResponse
// @Router       /api/project [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListArchived godoc
// @Summary      Listar proyectos archivados
// @Tags         project
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProjectResponse
// @Router       /api/project/archived [get]
func (h *ProjectHandler) ListArchived(c *fiber.Ctx) error {
	out, err := h.uc.ListArchived(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener proyecto
// @Tags         project
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proyecto
// @Tags         project
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ProjectMutationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/project/{id} [patch]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
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
// @Summary      Archivar o borrar proyecto
// @Tags         project
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del proyecto"
// @Param        soft  query  string  false  "false = borrado físico"
// @Success      200   {object}  dto.ProjectMutationResponse
// @Router       /api/project/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id"), softDelete(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar proyecto archivado
// @Tags         project
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project/{id}/restore [patch]
func (h *ProjectHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
