package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/identity"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ClientUC       *usecase.ClientUseCase
	ProjectUC      *usecase.ProjectUseCase
	DeliveryNoteUC *usecase.DeliveryNoteUseCase
	Resolver       *identity.Resolver
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Resolver)

	// User: registro y login públicos; el resto con Bearer Token
	users := api.Group("/user")
	userHandler := NewUserHandler(deps.AuthUC, deps.UserUC)
	users.Post("/register", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Put("/validation", requireAuth, userHandler.VerifyEmail)
	users.Put("/register", requireAuth, userHandler.UpdatePersonalData)
	users.Patch("/company", requireAuth, userHandler.UpdateCompany)
	users.Patch("/logo", requireAuth, userHandler.UploadLogo)
	users.Get("/", requireAuth, userHandler.Get)
	users.Delete("/", requireAuth, userHandler.Delete)

	// Clients (protegido). /archived antes de /:id
	clients := api.Group("/client", requireAuth)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/archived", clientHandler.ListArchived)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)
	clients.Patch("/:id/restore", clientHandler.Restore)

	// Projects (protegido)
	projects := api.Group("/project", requireAuth)
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/archived", projectHandler.ListArchived)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Patch("/:id", projectHandler.Update)
	projects.Delete("/:id", projectHandler.Delete)
	projects.Patch("/:id/restore", projectHandler.Restore)

	// Delivery notes (protegido)
	notes := api.Group("/deliverynote", requireAuth)
	noteHandler := NewDeliveryNoteHandler(deps.DeliveryNoteUC)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/pdf/:id", noteHandler.PDF)
	notes.Get("/:id", noteHandler.GetByID)
	notes.Patch("/:id", noteHandler.Update)
	notes.Patch("/:id/signature", noteHandler.Sign)
	notes.Delete("/:id", noteHandler.Delete)
}
