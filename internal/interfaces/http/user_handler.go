package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
)

// UserHandler maneja registro, login, verificación y perfil del usuario.
type UserHandler struct {
	auth  *auth.AuthUseCase
	users *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(authUC *auth.AuthUseCase, userUC *usecase.UserUseCase) *UserHandler {
	return &UserHandler{auth: authUC, users: userUC}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Email y contraseña"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// VerifyEmail godoc
// @Summary      Validar email con el código recibido
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyEmailRequest  true  "Código de 6 cifras"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/user/validation [put]
func (h *UserHandler) VerifyEmail(c *fiber.Ctx) error {
	var in dto.VerifyEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	if err := h.auth.VerifyEmail(c.UserContext(), GetUser(c), in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Email validado correctamente"})
}

// UpdatePersonalData godoc
// @Summary      Datos personales (onboarding)
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PersonalDataRequest  true  "Nombre, apellidos y NIF"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/register [put]
func (h *UserHandler) UpdatePersonalData(c *fiber.Ctx) error {
	var in dto.PersonalDataRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.users.UpdatePersonalData(c.UserContext(), GetUser(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateCompany godoc
// @Summary      Perfil de empresa
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "Datos de la empresa"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/user/company [patch]
func (h *UserHandler) UpdateCompany(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.users.UpdateCompany(c.UserContext(), GetUser(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UploadLogo godoc
// @Summary      Subir logo de empresa
// @Tags         user
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo  formData  file  true  "Imagen del logo"
// @Success      200   {object}  dto.LogoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/logo [patch]
func (h *UserHandler) UploadLogo(c *fiber.Ctx) error {
	f, err := readUpload(c, "logo")
	if err != nil {
		return err
	}
	out, err := h.users.UploadLogo(c.UserContext(), GetUser(c), f.data, f.filename, f.contentType)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Perfil del usuario autenticado
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/user [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.users.Get(GetUser(c)))
}

// Delete godoc
// @Summary      Dar de baja al usuario
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Param        soft  query  string  false  "false = borrado físico"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/user [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	out, err := h.users.Delete(c.UserContext(), GetUser(c), softDelete(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
