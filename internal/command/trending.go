package command

import (
	"context"
	"fmt"
	"time"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTrendingWindowDays = 7
	DefaultTrendingLimit      = 10
	MaxTrendingLimit          = 100
)

type ListTrendingTemplatesRequest struct {
	Kind       domain.InteractionKind
	WindowDays int
	Limit      int
}

func (r ListTrendingTemplatesRequest) cacheKey() string {
	return fmt.Sprintf("%s:%d:%d", r.Kind, r.WindowDays, r.Limit)
}

func (r ListTrendingTemplatesRequest) validate() error {
	if !r.Kind.Trendable() {
		return fmt.Errorf("%w: %q cannot be ranked", domain.ErrInvalidKind, r.Kind)
	}
	if r.WindowDays < 1 {
		return fmt.Errorf("%w: window of %d days", domain.ErrValidationFailed, r.WindowDays)
	}
	if r.Limit < 1 || r.Limit > MaxTrendingLimit {
		return fmt.Errorf("%w: limit %d outside 1..%d", domain.ErrValidationFailed, r.Limit, MaxTrendingLimit)
	}
	return nil
}

// ListTrendingTemplates ranks templates by how many interactions of one kind they received
// within a trailing window, and reports windowed and all-time like and favorite counts for
// each. Templates with equal counts keep the order the store grouped them in.
type ListTrendingTemplates struct {
	Store    datasources.TrendingRepository
	Cache    datasources.TrendingCache
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewListTrendingTemplates(
	store datasources.TrendingRepository,
	cache datasources.TrendingCache,
	cacheTTL time.Duration,
) *ListTrendingTemplates {
	return &ListTrendingTemplates{
		Store:    store,
		Cache:    cache,
		CacheTTL: cacheTTL,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

var enrichmentKinds = []domain.InteractionKind{domain.InteractionKindLike, domain.InteractionKindFavorite}

func (c *ListTrendingTemplates) Execute(
	ctx context.Context,
	req ListTrendingTemplatesRequest,
) ([]domain.TrendingTemplate, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	logger := domain.LoggerFromContext(ctx)
	key := req.cacheKey()

	cached, ok, err := c.Cache.GetTrending(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "unable to read trending cache", "error", err, "key", key)
	} else if ok {
		return cached, nil
	}

	since := c.Now().Add(-time.Duration(req.WindowDays) * 24 * time.Hour)
	top, err := c.Store.ListTopTemplatesByKind(ctx, req.Kind, since, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("ranking templates by %s: %w", req.Kind, err)
	}

	results, err := c.enrich(ctx, top, since)
	if err != nil {
		return nil, err
	}

	if c.CacheTTL > 0 {
		if err := c.Cache.SetTrending(ctx, key, results, c.CacheTTL); err != nil {
			logger.WarnContext(ctx, "unable to write trending cache", "error", err, "key", key)
		}
	}
	return results, nil
}

func (c *ListTrendingTemplates) enrich(
	ctx context.Context,
	top []domain.TemplateCount,
	since time.Time,
) ([]domain.TrendingTemplate, error) {
	results := make([]domain.TrendingTemplate, 0, len(top))
	if len(top) == 0 {
		return results, nil
	}

	ids := make([]string, len(top))
	for i, tc := range top {
		ids[i] = tc.TemplateID
	}

	var (
		windowed, allTime map[string]domain.InteractionStats
		templates         []domain.Template
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		windowed, err = c.Store.CountInteractionsByTemplate(gctx, ids, enrichmentKinds, since)
		if err != nil {
			return fmt.Errorf("counting windowed interactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		allTime, err = c.Store.CountInteractionsByTemplate(gctx, ids, enrichmentKinds, time.Time{})
		if err != nil {
			return fmt.Errorf("counting all-time interactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		templates, err = c.Store.FetchTemplatesByID(gctx, ids)
		if err != nil {
			return fmt.Errorf("fetching trending templates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	for _, tc := range top {
		// A template deleted between ranking and enrichment drops out of the results.
		t, ok := byID[tc.TemplateID]
		if !ok {
			continue
		}
		results = append(results, domain.TrendingTemplate{
			Template:        t,
			Count:           tc.Count,
			WindowLikes:     windowed[tc.TemplateID][domain.InteractionKindLike],
			WindowFavorites: windowed[tc.TemplateID][domain.InteractionKindFavorite],
			TotalLikes:      allTime[tc.TemplateID][domain.InteractionKindLike],
			TotalFavorites:  allTime[tc.TemplateID][domain.InteractionKindFavorite],
		})
	}
	return results, nil
}
