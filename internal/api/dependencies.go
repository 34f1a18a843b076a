package api

import (
	"os"

	"urbanlight/columnforge/internal/common"
	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/metrics"
	"urbanlight/columnforge/internal/providers"
	"urbanlight/columnforge/internal/services"
)

type Repositories struct {
	Columns *repositories.CatalogColumnRepository
	Modules *repositories.CatalogModuleRepository
	Assets  *repositories.AssetRepository
	Keys    *repositories.KeysRepo
}

type Services struct {
	Cache    common.CacheInterface
	Catalog  *services.CatalogService
	Resolver *services.CompatibilityResolver
	Power    services.PowerBudget
	Wizards  *services.WizardManager
	Assets   *services.AssetService
	Share    *services.ShareService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies builds the dependency graph: repositories over the two
// DB handles, then services, then the wizard manager on top.
func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Columns: repositories.NewCatalogColumnRepository(db.PgDB),
		Modules: repositories.NewCatalogModuleRepository(db.PgDB),
		Assets:  repositories.NewAssetRepository(db.PgDB),
		Keys:    repositories.NewAPIKeysRepo(db.DB),
	}

	// Cache backend: Redis when configured, in-memory otherwise.
	var cacheSvc common.CacheInterface
	redisClient := common.NewRedisClient()
	if os.Getenv("CACHE_BACKEND") == "redis" {
		cacheSvc = common.NewRedisCacheService(redisClient)
		logging.Info("Using Redis cache backend")
	} else {
		cacheSvc = common.NewCacheService(constants.CatalogCacheTTL, 10*constants.CatalogCacheTTL)
		logging.Info("Using in-memory cache backend")
	}

	catalogSvc := services.NewCatalogService(repos.Columns, repos.Modules, cacheSvc, metricsReg)
	resolverSvc := services.NewCompatibilityResolver(catalogSvc)

	// Power budget backend: remote service when configured, local otherwise.
	var powerSvc services.PowerBudget
	if os.Getenv("POWER_BACKEND") == "api" {
		powerSvc = providers.NewPowerAPIProvider()
		logging.Info("Using remote power budget backend")
	} else {
		powerSvc = services.NewPowerService(repos.Modules)
	}

	wizardMgr := services.NewWizardManager(catalogSvc, powerSvc, metricsReg)
	assetSvc := services.NewAssetService(repos.Assets)

	shareSecret := os.Getenv("SHARE_LINK_SECRET")
	if shareSecret == "" {
		shareSecret = "columnforge-dev-secret"
	}
	shareSvc := services.NewShareService([]byte(shareSecret), redisClient)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:    cacheSvc,
			Catalog:  catalogSvc,
			Resolver: resolverSvc,
			Power:    powerSvc,
			Wizards:  wizardMgr,
			Assets:   assetSvc,
			Share:    shareSvc,
		},
		Metrics: metricsReg,
	}, nil
}
