package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/jbeshir/template-catalog/internal/transport/web/controller"
)

// Commands holds every command the HTTP API dispatches to.
type Commands struct {
	RecordInteraction        command.Command[command.RecordInteractionRequest, command.RecordInteractionResult]
	DeleteInteraction        command.Command[command.DeleteInteractionRequest, domain.Interaction]
	ListUserInteractions     command.Command[command.ListUserInteractionsRequest, []domain.Interaction]
	ListTemplateInteractions command.Command[command.TemplateRefRequest, []domain.TemplateInteraction]
	TemplateInteractionStats command.Command[command.TemplateRefRequest, domain.InteractionStats]
	AddFavorite              command.Command[command.FavoriteRequest, command.RecordInteractionResult]
	RemoveFavorite           command.Command[command.FavoriteRequest, command.Empty]
	ListUserFavorites        command.Command[command.UserRefRequest, []domain.Template]
	GetTemplate              command.Command[command.TemplateRefRequest, domain.Template]
	ListTrendingTemplates    controller.TrendingCommand
	CreateReview             command.Command[command.CreateReviewRequest, domain.Review]
	ListReviews              command.Command[command.UserRefRequest, []domain.Review]
}

type Config struct {
	RSSFeedBaseURL     string
	RSSFeedAuthorName  string
	RSSFeedAuthorEmail string
	ListCacheMaxAge    time.Duration
	// RequireAuthForWrites rejects unauthenticated mutations with 401.
	RequireAuthForWrites bool
	HealthPingers        map[string]controller.Pinger
}

func MakeRouter(
	templates interface {
		datasources.TemplateLister
		datasources.TemplateFetcher
	},
	cmds Commands,
	cfg Config,
	authMiddleware func(http.Handler) http.Handler,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(requestLoggerMiddleware)
	r.Use(corsMiddleware)
	r.Use(authMiddleware)

	write := func(h http.Handler) http.Handler {
		if cfg.RequireAuthForWrites {
			return requireAuthMiddleware(h)
		}
		return h
	}

	r.Handle("/healthz", controller.Health{
		Pingers: cfg.HealthPingers,
	}).Methods(http.MethodGet)

	r.Handle("/v1/interactions", write(controller.InteractionRecord{
		RecordCmd: cmds.RecordInteraction,
	})).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/interactions/user/{user_ref}", controller.UserInteractionsList{
		ListCmd: cmds.ListUserInteractions,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/interactions/template/{template_ref}", controller.TemplateInteractionsList{
		ListCmd: cmds.ListTemplateInteractions,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/interactions/stats/template/{template_ref}", controller.TemplateInteractionStats{
		StatsCmd: cmds.TemplateInteractionStats,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/interactions/{interaction_id}", write(controller.InteractionDelete{
		DeleteCmd: cmds.DeleteInteraction,
	})).Methods(http.MethodDelete, http.MethodOptions)

	r.Handle("/v1/templates", controller.TemplatesList{
		Lister:      templates,
		CacheMaxAge: cfg.ListCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/templates/trending/{kind}", controller.TrendingList{
		TrendingCmd: cmds.ListTrendingTemplates,
		CacheMaxAge: cfg.ListCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/templates/{template_ref}", controller.TemplateGet{
		GetCmd:      cmds.GetTemplate,
		CacheMaxAge: cfg.ListCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/users/{user_ref}/favorites", controller.FavoritesList{
		ListCmd: cmds.ListUserFavorites,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/users/{user_ref}/favorites/{template_ref}", write(controller.FavoriteAdd{
		AddCmd: cmds.AddFavorite,
	})).Methods(http.MethodPost)

	r.Handle("/v1/users/{user_ref}/favorites/{template_ref}", write(controller.FavoriteRemove{
		RemoveCmd: cmds.RemoveFavorite,
	})).Methods(http.MethodDelete, http.MethodOptions)

	r.Handle("/v1/users/{user_ref}/reviews", write(controller.ReviewCreate{
		CreateCmd: cmds.CreateReview,
	})).Methods(http.MethodPost)

	r.Handle("/v1/users/{user_ref}/reviews", controller.ReviewsList{
		ListCmd: cmds.ListReviews,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/rss/trending/{kind}", controller.TrendingRSS{
		FeedBaseURL:     cfg.RSSFeedBaseURL,
		FeedAuthorName:  cfg.RSSFeedAuthorName,
		FeedAuthorEmail: cfg.RSSFeedAuthorEmail,
		TrendingCmd:     cmds.ListTrendingTemplates,
		CacheMaxAge:     cfg.ListCacheMaxAge,
	}).Methods(http.MethodGet)

	return r, nil
}
