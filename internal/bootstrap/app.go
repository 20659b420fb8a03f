package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/admin"
	"registration-backend/internal/mailer"
	"registration-backend/internal/registrations"
	"registration-backend/internal/services/health"
	"registration-backend/internal/shared/config"
	"registration-backend/internal/shared/server/middleware"
	"registration-backend/internal/shared/server/respond"
	"registration-backend/internal/shared/storage/db"
	"registration-backend/internal/shared/storage/object"
	localstore "registration-backend/internal/shared/storage/object/local"
	s3store "registration-backend/internal/shared/storage/object/s3"
)

// Submission endpoints share one admission-control bucket per client IP.
var submitRateRule = middleware.RateLimitRule{Rate: 0.5, Burst: 5}

// App holds shared dependencies wired from configuration.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	RegistrationsRepo    registrations.Repo
	RegistrationsService *registrations.Service
	RegistrationsHandler *registrations.Handler
	AdminHandler         *admin.Handler
	MailService          *mailer.Service
	MailHandler          *mailer.Handler
	Health               *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Health: health.NewService(),
	}

	buildServices(app)
	app.Router = buildRouter(app)

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var repo registrations.Repo
	if app.DB != nil {
		repo = &registrations.PGRepo{DB: app.DB}
	} else {
		repo = registrations.NewMemoryRepo()
	}

	regSvc := &registrations.Service{Repo: repo, Store: app.Store}

	smtpConfigs := make(map[string]mailer.SMTPConfig, len(app.Config.SMTPProviders))
	for name, p := range app.Config.SMTPProviders {
		smtpConfigs[name] = mailer.SMTPConfig{
			Host:     p.Host,
			Port:     p.Port,
			Username: p.Username,
			Password: p.Password,
			From:     p.From,
		}
	}
	mailSvc := mailer.NewService(repo, &mailer.SMTPTransport{}, smtpConfigs, app.Config.SMTPDefaultProvider)

	app.RegistrationsRepo = repo
	app.RegistrationsService = regSvc
	app.RegistrationsHandler = registrations.NewHandler(regSvc, app.Config.MaxUploadBytes)
	app.AdminHandler = admin.NewHandler(repo, regSvc)
	app.MailService = mailSvc
	app.MailHandler = mailer.NewHandler(mailSvc)
}

func buildRouter(app *App) *gin.Engine {
	if app.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(app.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, app.Health.Status())
	})

	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.RateLimit(middleware.NewRateLimiter(nil), submitRateRule))
	app.RegistrationsHandler.RegisterRoutes(public)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminKey(app.Config.AdminAPIKey))
	app.AdminHandler.RegisterRoutes(adminGroup)
	app.MailHandler.RegisterRoutes(adminGroup)

	return r
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
