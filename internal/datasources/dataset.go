package datasources

import (
	"context"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// DatasetRepository combines every operation the catalog needs from its entity store.
type DatasetRepository interface {
	UserRepository
	TemplateRepository
	InteractionRepository
	TrendingRepository
	ReviewRepository
	CounterReconciler
}

// UserByIDGetter looks up a user by canonical id. Returns domain.ErrNotFound if absent.
type UserByIDGetter interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// UserByHandleGetter looks up a user whose username or email equals handle.
type UserByHandleGetter interface {
	GetUserByUsernameOrEmail(ctx context.Context, handle string) (domain.User, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, user domain.NewUser) error
}

type UserFavoritesLister interface {
	ListUserFavoriteTemplateIDs(ctx context.Context, userID string) ([]string, error)
}

type UserRepository interface {
	UserByIDGetter
	UserByHandleGetter
	UserCreator
	UserFavoritesLister
}

type TemplateByIDGetter interface {
	GetTemplateByID(ctx context.Context, id string) (domain.Template, error)
}

type TemplateByTitleGetter interface {
	GetTemplateByTitle(ctx context.Context, title string) (domain.Template, error)
}

// TemplateFetcher returns templates in the order of ids, skipping any that do not exist.
type TemplateFetcher interface {
	FetchTemplatesByID(ctx context.Context, ids []string) ([]domain.Template, error)
}

type TemplateLister interface {
	ListTemplateIDs(
		ctx context.Context,
		filters domain.TemplateFilters,
		options domain.TemplateListOptions,
	) ([]string, error)
	TotalMatchingTemplates(ctx context.Context, filters domain.TemplateFilters) (int64, error)
}

type TemplateCreator interface {
	CreateTemplate(ctx context.Context, template domain.Template) error
}

type TemplateRepository interface {
	TemplateByIDGetter
	TemplateByTitleGetter
	TemplateFetcher
	TemplateLister
	TemplateCreator
}

// ExclusiveInteractionGetter returns the record occupying the exclusive slot of a
// (user, template) pair, or domain.ErrNotFound if the slot is empty.
type ExclusiveInteractionGetter interface {
	GetExclusiveInteraction(ctx context.Context, userID, templateID string) (domain.Interaction, error)
}

type InteractionByIDGetter interface {
	GetInteractionByID(ctx context.Context, id string) (domain.Interaction, error)
}

// InteractionWriter applies ledger mutations. Each call writes the interaction row and its
// effects on template counters and the favorites set atomically.
type InteractionWriter interface {
	// InsertInteraction returns domain.ErrConflict if an exclusive slot is already occupied.
	InsertInteraction(ctx context.Context, interaction domain.Interaction, effects domain.InteractionEffects) error

	// TransitionInteraction changes the kind of interaction id from one kind to another and
	// refreshes its timestamp. Returns domain.ErrConflict if the record no longer has kind from.
	TransitionInteraction(
		ctx context.Context,
		interaction domain.Interaction,
		to domain.InteractionKind,
		at time.Time,
		effects domain.InteractionEffects,
	) error

	// RemoveInteraction deletes the interaction if it still has its recorded kind. Returns
	// domain.ErrNotFound if it is gone and domain.ErrConflict if its kind has changed.
	RemoveInteraction(ctx context.Context, interaction domain.Interaction, effects domain.InteractionEffects) error
}

// FavoritesPruner drops a template from a user's favorites set unless the ledger holds a
// favorite interaction for the pair. The check and the delete are a single store operation.
type FavoritesPruner interface {
	PruneFavorite(ctx context.Context, userID, templateID string) error
}

type InteractionLister interface {
	// ListUserInteractions returns newest first. A nil kind means all kinds.
	ListUserInteractions(ctx context.Context, userID string, kind *domain.InteractionKind) ([]domain.Interaction, error)
	ListTemplateInteractions(ctx context.Context, templateID string) ([]domain.TemplateInteraction, error)
	CountTemplateInteractionsByKind(ctx context.Context, templateID string) (domain.InteractionStats, error)
}

type InteractionRepository interface {
	ExclusiveInteractionGetter
	InteractionByIDGetter
	InteractionWriter
	FavoritesPruner
	InteractionLister
}

// TopTemplatesLister groups interactions of kind created at or after since by template,
// ordered by count descending.
type TopTemplatesLister interface {
	ListTopTemplatesByKind(
		ctx context.Context,
		kind domain.InteractionKind,
		since time.Time,
		limit int,
	) ([]domain.TemplateCount, error)
}

// TemplateInteractionCounter counts interactions per template and kind. A zero since counts
// all time.
type TemplateInteractionCounter interface {
	CountInteractionsByTemplate(
		ctx context.Context,
		templateIDs []string,
		kinds []domain.InteractionKind,
		since time.Time,
	) (map[string]domain.InteractionStats, error)
}

type TrendingRepository interface {
	TopTemplatesLister
	TemplateInteractionCounter
	TemplateFetcher
}

type ReviewCreator interface {
	// CreateReview returns domain.ErrConflict if the reviewer already reviewed the reviewee.
	CreateReview(ctx context.Context, review domain.Review) error
}

type ReviewLister interface {
	ListReviewsForUser(ctx context.Context, revieweeID string) ([]domain.Review, error)
}

type ReviewRepository interface {
	ReviewCreator
	ReviewLister
}

// CounterReconciler rebuilds the cached projections of the ledger.
type CounterReconciler interface {
	ReconcileTemplateCounters(ctx context.Context) ([]domain.CounterDrift, error)
	ReconcileFavorites(ctx context.Context) (domain.FavoritesRepair, error)
}
