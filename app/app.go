package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"stem-orders/config"
	"stem-orders/controllers"
	"stem-orders/libs"
	"stem-orders/middleware"
	"stem-orders/repositories"
	"stem-orders/routes"
	"stem-orders/services"
	"stem-orders/utils"
	"stem-orders/views"
)

// App owns the router and every client it was built from.
type App struct {
	Router *gin.Engine

	db    *pgxpool.Pool
	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	var googleOpts []option.ClientOption
	if cfg.NeedsGoogle() {
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, err
		}
		googleOpts, err = libs.GoogleClientOptions(ctx, creds)
		if err != nil {
			return nil, err
		}
	}

	sheet, err := a.openSheet(ctx, cfg, googleOpts)
	if err != nil {
		a.Close()
		return nil, err
	}

	uploader, err := newUploader(ctx, cfg, googleOpts)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cache repositories.SnapshotCache
	if a.redis = config.NewRedisClient(ctx, cfg); a.redis != nil {
		cache = repositories.NewRedisSnapshotCache(a.redis, cfg.CacheTTL)
	} else {
		cache = repositories.NewMemorySnapshotCache(cfg.CacheTTL)
	}

	repo := repositories.NewOrderRepository(sheet, cfg.Location)

	orderOpts := []services.OrderServiceOption{
		services.WithLocation(cfg.Location),
		services.WithMaxUploadSize(cfg.MaxUploadSize),
		services.WithRetryPolicy(services.AppendRetries(cfg.AppendRetries)),
	}
	if cfg.MailEnabled() {
		orderOpts = append(orderOpts, services.WithNotifier(
			libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom),
		))
	}
	orderSvc := services.NewOrderService(repo, uploader, cache, orderOpts...)
	dashboardSvc := services.NewDashboardService(repo, cache)

	authCtrl, err := newAuthController(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	router.SetHTMLTemplate(views.Templates())
	router.MaxMultipartMemory = cfg.MaxUploadSize + 1<<20

	routes.SetupRoutes(router, routes.Controllers{
		Order:     controllers.NewOrderController(orderSvc, cfg.PaymentQRURL, cfg.MaxUploadSize),
		Dashboard: controllers.NewDashboardController(dashboardSvc, authCtrl != nil),
		Auth:      authCtrl,
	}, cfg.JWTSecret)

	a.Router = router
	return a, nil
}

func (a *App) openSheet(ctx context.Context, cfg *config.Config, googleOpts []option.ClientOption) (repositories.Sheet, error) {
	if cfg.StoreDriver == config.StorePostgres {
		pool, err := config.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = pool
		return repositories.NewPostgresSheet(pool), nil
	}

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		id, err := libs.FindSpreadsheet(ctx, cfg.SpreadsheetName, googleOpts...)
		if err != nil {
			return nil, err
		}
		spreadsheetID = id
	}
	return libs.NewGoogleSheet(ctx, spreadsheetID, googleOpts...)
}

func newUploader(ctx context.Context, cfg *config.Config, googleOpts []option.ClientOption) (libs.ReceiptUploader, error) {
	if cfg.UploadDriver == config.UploadCloudinary {
		return libs.NewCloudinaryUploader(
			cfg.CloudinaryURL,
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.CloudinaryFolder,
		)
	}
	return libs.NewDriveUploader(ctx, cfg.DriveFolderID, googleOpts...)
}

// newAuthController returns nil, leaving the dashboard open, when no operator
// account is configured.
func newAuthController(cfg *config.Config) (*controllers.AuthController, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" && cfg.AdminPassword != "" {
		var err error
		if hash, err = utils.HashPassword(cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}
	if cfg.AdminEmail == "" || hash == "" {
		log.Warn().Msg("ADMIN_EMAIL or admin password not set, dashboard is not protected")
		return nil, nil
	}

	return controllers.NewAuthController(controllers.Operator{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
	}, cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction()), nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	if a.db != nil {
		a.db.Close()
		log.Info().Msg("Database connection closed")
	}
}
