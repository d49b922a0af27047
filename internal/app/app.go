package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/datasources/memory"
	"github.com/jbeshir/template-catalog/internal/datasources/mysql"
	"github.com/jbeshir/template-catalog/internal/datasources/redis"
	"github.com/jbeshir/template-catalog/internal/transport/web/controller"
	"github.com/jbeshir/template-catalog/internal/transport/web/router"
	"github.com/jbeshir/template-catalog/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	pingers := make(map[string]controller.Pinger)

	dataset, err := SetupDatasetRepository(ctx, pingers)
	if err != nil {
		return nil, fmt.Errorf("setting up dataset repository: %w", err)
	}

	cache, err := setupTrendingCache(ctx, pingers)
	if err != nil {
		return nil, fmt.Errorf("setting up trending cache: %w", err)
	}

	authMiddleware, err := setupAuthMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up auth middleware: %w", err)
	}

	cmds := NewCommands(dataset, cache, LedgerConfigFromEnv(ctx), MustGetEnvAsDuration(ctx, "TRENDING_CACHE_TTL"))

	httpRouter, err := router.MakeRouter(dataset, cmds, router.Config{
		RSSFeedBaseURL:       MustGetEnvAsString(ctx, "RSS_FEED_BASE_URL"),
		RSSFeedAuthorName:    MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_NAME"),
		RSSFeedAuthorEmail:   MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_EMAIL"),
		ListCacheMaxAge:      MustGetEnvAsDuration(ctx, "LIST_CACHE_MAX_AGE"),
		RequireAuthForWrites: MustGetEnvAsBoolean(ctx, "AUTH_REQUIRED_FOR_WRITES"),
		HealthPingers:        pingers,
	}, authMiddleware)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	components := []Component{
		&server.Server{
			TLSDisabled:       MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:   MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostnames: MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES"),
			Router:            httpRouter,
		},
	}

	if interval := MustGetEnvAsDuration(ctx, "RECONCILE_INTERVAL"); interval > 0 {
		components = append(components, &ReconcileJob{
			Cmd:      command.NewReconcileCounters(dataset),
			Interval: interval,
		})
	}

	return components, nil
}

// NewCommands builds every command the HTTP API dispatches to over a single dataset.
func NewCommands(
	dataset datasources.DatasetRepository,
	cache datasources.TrendingCache,
	ledger command.LedgerConfig,
	trendingCacheTTL time.Duration,
) router.Commands {
	resolvers := command.NewResolvers(dataset, dataset)
	recorder := command.NewRecordInteraction(resolvers, dataset, ledger)

	return router.Commands{
		RecordInteraction:        recorder,
		DeleteInteraction:        command.NewDeleteInteraction(dataset, ledger),
		ListUserInteractions:     &command.ListUserInteractions{Resolvers: resolvers, Lister: dataset},
		ListTemplateInteractions: &command.ListTemplateInteractions{Resolvers: resolvers, Lister: dataset},
		TemplateInteractionStats: &command.TemplateInteractionStats{Resolvers: resolvers, Lister: dataset},
		AddFavorite:              command.NewAddFavorite(recorder),
		RemoveFavorite:           command.NewRemoveFavorite(resolvers, dataset, dataset, ledger),
		ListUserFavorites: &command.ListUserFavorites{
			Resolvers: resolvers,
			Favorites: dataset,
			Templates: dataset,
		},
		GetTemplate:           &command.GetTemplate{Resolvers: resolvers},
		ListTrendingTemplates: command.NewListTrendingTemplates(dataset, cache, trendingCacheTTL),
		CreateReview:          command.NewCreateReview(resolvers, dataset),
		ListReviews:           &command.ListReviews{Resolvers: resolvers, Lister: dataset},
	}
}

// SetupDatasetRepository opens the store named by STORE_DRIVER, registering a health
// check for it in pingers when it has one.
func SetupDatasetRepository(
	ctx context.Context,
	pingers map[string]controller.Pinger,
) (datasources.DatasetRepository, error) {
	switch driver := MustGetEnvAsString(ctx, "STORE_DRIVER"); driver {
	case "memory":
		return memory.New(), nil
	case "mysql":
		db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
		if err != nil {
			return nil, fmt.Errorf("connecting to MySQL: %w", err)
		}
		if MustGetEnvAsBoolean(ctx, "MYSQL_MIGRATE") {
			if err := mysql.Migrate(ctx, db); err != nil {
				return nil, fmt.Errorf("migrating MySQL schema: %w", err)
			}
		}
		if pingers != nil {
			pingers["mysql"] = db
		}
		return mysql.New(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver [%s]", driver)
	}
}

func setupTrendingCache(
	ctx context.Context,
	pingers map[string]controller.Pinger,
) (datasources.TrendingCache, error) {
	switch driver := MustGetEnvAsString(ctx, "TRENDING_CACHE_DRIVER"); driver {
	case "null":
		return datasources.NullTrendingCache{}, nil
	case "redis":
		client, err := redis.Connect(
			ctx,
			MustGetEnvAsString(ctx, "REDIS_ADDR"),
			MustGetEnvAsString(ctx, "REDIS_PASSWORD"),
			MustGetEnvAsInt(ctx, "REDIS_DB"),
		)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		cache := redis.NewTrendingCache(client)
		pingers["redis"] = cache
		return cache, nil
	default:
		return nil, fmt.Errorf("unknown trending cache driver [%s]", driver)
	}
}

func setupAuthMiddleware(ctx context.Context) (func(http.Handler) http.Handler, error) {
	var validators []router.AuthValidator

	for _, driver := range MustGetEnvAsStrings(ctx, "AUTH_DRIVERS") {
		switch driver {
		case "auth0":
			v, err := router.NewAuth0Validator(
				MustGetEnvAsString(ctx, "AUTH0_DOMAIN"),
				MustGetEnvAsString(ctx, "AUTH0_AUDIENCE"),
			)
			if err != nil {
				return nil, fmt.Errorf("creating Auth0 validator: %w", err)
			}
			validators = append(validators, v)
		case "trusted_header":
			validators = append(validators, router.NewTrustedHeaderValidator())
		default:
			return nil, fmt.Errorf("unknown auth driver [%s]", driver)
		}
	}

	return router.NewAuthMiddleware(validators), nil
}
