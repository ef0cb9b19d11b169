// @title                       Albaranes API
// @version                     1.0
// @description                 API de usuarios, clientes, proyectos y albaranes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/jhoicas/albaranes-api/docs"
	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/identity"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/alert"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/albaranes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/security"
	"github.com/jhoicas/albaranes-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/albaranes-api/internal/interfaces/http"
	"github.com/jhoicas/albaranes-api/pkg/config"
	"github.com/jhoicas/albaranes-api/pkg/jwt"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// repositories agrupa los puertos de persistencia del driver elegido.
type repositories struct {
	users    repository.UserRepository
	clients  repository.ClientRepository
	projects repository.ProjectRepository
	notes    repository.DeliveryNoteRepository
	close    func()
}

func main() {
	// .env opcional en desarrollo; las variables del entorno tienen prioridad
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("storage", cfg.Storage.Backend).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer repos.close()

	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	notifier := alert.New(cfg.Alert.SlackWebhookURL, cfg.Alert.Timeout, log)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	authUC := auth.NewAuthUseCase(
		repos.users,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		mail.New(cfg.Mail, log),
		auth.Config{MaxVerificationAttempts: cfg.Auth.MaxVerificationAttempts},
	)
	userUC := usecase.NewUserUseCase(repos.users, uploader)
	clientUC := usecase.NewClientUseCase(repos.clients)
	projectUC := usecase.NewProjectUseCase(repos.projects, repos.clients)
	noteUC := usecase.NewDeliveryNoteUseCase(
		repos.notes, repos.clients, repos.projects, repos.users,
		uploader, infrapdf.NewMarotoRenderer(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit(),
		ErrorHandler: httpRouter.NewErrorHandler(log, notifier),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Albaranes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		ClientUC:       clientUC,
		ProjectUC:      projectUC,
		DeliveryNoteUC: noteUC,
		Resolver:       identity.NewResolver(tokens, repos.users),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Alertas pendientes
	if w, ok := notifier.(interface{ Wait() }); ok {
		w.Wait()
	}

	log.Info().Msg("aplicación detenida")
}

// openRepositories conecta el driver configurado. Con postgres y DB_AUTO_MIGRATE aplica
// las migraciones antes de abrir el pool.
func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &repositories{
			users:    memory.NewUserRepository(),
			clients:  memory.NewClientRepository(),
			projects: memory.NewProjectRepository(),
			notes:    memory.NewDeliveryNoteRepository(),
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(postgres.MigrationDSN(ctx, cfg.DB), postgres.MigrateUp); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:    postgres.NewUserRepository(pool),
		clients:  postgres.NewClientRepository(pool),
		projects: postgres.NewProjectRepository(pool),
		notes:    postgres.NewDeliveryNoteRepository(pool),
		close:    pool.Close,
	}, nil
}
