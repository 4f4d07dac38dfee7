package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	storefrontserver "github.com/lamunshop/storefront-api/server"

	catalogcache "github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/lamunshop/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/lamunshop/storefront-api/internal/domains/catalog/ports"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/catalogbridge"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/geo"
	checkoutmemory "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/persistence/postgres"
	localslips "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/storage/local"
	checkoutapp "github.com/lamunshop/storefront-api/internal/domains/checkout/application"
	checkoutdomain "github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	checkoutports "github.com/lamunshop/storefront-api/internal/domains/checkout/ports"

	platformcache "github.com/lamunshop/storefront-api/internal/platform/cache"
	"github.com/lamunshop/storefront-api/internal/platform/migrations"
	platformobservability "github.com/lamunshop/storefront-api/internal/platform/observability"
	platformpostgres "github.com/lamunshop/storefront-api/internal/platform/postgres"
)

// Run boots the storefront HTTP API with observability, repositories, and the
// checkout pipeline wired.
func Run(ctx context.Context) error {
	const serviceName = "storefront-api"

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.MaybeConnect(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	catalogRepo, orderRepo, couponRepo := buildRepositories(db)
	catalogRepo = maybeCacheCatalog(ctx, catalogRepo, cfg, logger)

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	gateway := catalogbridge.New(catalogRepo)
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(orderRepo, couponRepo, gateway, geo.NewResolver(), checkoutapp.Config{
			Warehouse:     checkoutdomain.Coordinates{Lat: cfg.WarehouseLat, Lng: cfg.WarehouseLng},
			BaseFee:       decimal.NewFromFloat(cfg.BaseFee),
			DefaultLocale: cfg.DefaultLocale,
		}),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	slips, err := localslips.NewStore(cfg.SlipDir, cfg.SlipPublicBase)
	if err != nil {
		return fmt.Errorf("failed to prepare slip storage: %w", err)
	}

	handlers := storefrontserver.ApiHandleFunctions{
		OrderAPI:   storefrontserver.NewOrderAPI(checkoutService, slips, gateway),
		ProductAPI: storefrontserver.NewProductAPI(catalogService),
	}
	router := storefrontserver.NewRouter(handlers, storefrontserver.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		SlipDir:   slips.Dir(),
		SlipRoute: cfg.SlipPublicBase,
	})
	router.Use(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildRepositories picks the persistence tier. Without POSTGRES_DSN the
// whole stack runs in memory, which keeps local development and demos free of
// infrastructure.
func buildRepositories(db *gorm.DB) (catalogports.Repository, checkoutports.OrderRepository, checkoutports.CouponRepository) {
	if db != nil {
		return catalogpostgres.NewRepository(db),
			checkoutpostgres.NewRepository(db),
			checkoutpostgres.NewCouponRepository(db)
	}
	catalogRepo := catalogmemory.NewRepository()
	coupons := checkoutmemory.NewCouponStore()
	return catalogRepo, checkoutmemory.NewRepository(coupons, catalogRepo), coupons
}

func maybeCacheCatalog(ctx context.Context, repo catalogports.Repository, cfg Config, logger *slog.Logger) catalogports.Repository {
	if cfg.RedisAddr == "" {
		return repo
	}
	cache, err := platformcache.NewRedis(ctx, cfg.RedisAddr, "storefront")
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", slog.String("error", err.Error()))
		return repo
	}
	logger.Info("catalog cache enabled", slog.String("addr", cfg.RedisAddr))
	return catalogcache.NewRepository(repo, cache, logger)
}

