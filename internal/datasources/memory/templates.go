package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (s *Store) ListTemplateIDs(
	_ context.Context,
	filters domain.TemplateFilters,
	options domain.TemplateListOptions,
) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := s.matchingTemplates(filters)

	compare, err := templateComparator(options.Ordering)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(matching, compare)

	start := (options.Page - 1) * options.PageSize
	if start < 0 || start >= len(matching) {
		return []string{}, nil
	}
	end := min(start+options.PageSize, len(matching))

	ids := make([]string, 0, end-start)
	for _, t := range matching[start:end] {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (s *Store) TotalMatchingTemplates(_ context.Context, filters domain.TemplateFilters) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.matchingTemplates(filters))), nil
}

func (s *Store) matchingTemplates(filters domain.TemplateFilters) []domain.Template {
	var matching []domain.Template
	for _, id := range s.templateOrder {
		t := s.templates[id]
		if filters.TitleSearch != "" && !containsFold(t.Title, filters.TitleSearch) {
			continue
		}
		if filters.Category != "" && t.Category != filters.Category {
			continue
		}
		if filters.CreatorID != "" && t.CreatorID != filters.CreatorID {
			continue
		}
		if t.Likes < filters.MinLikes {
			continue
		}
		if !filters.CreatedAfter.IsZero() && t.CreatedAt.Before(filters.CreatedAfter) {
			continue
		}
		if !filters.CreatedBefore.IsZero() && t.CreatedAt.After(filters.CreatedBefore) {
			continue
		}
		if !hasAllTags(t.Tags, filters.Tags) {
			continue
		}
		matching = append(matching, t)
	}
	return matching
}

func hasAllTags(have, want []string) bool {
	for _, tag := range want {
		if !slices.Contains(have, tag) {
			return false
		}
	}
	return true
}

func templateComparator(orderings []domain.TemplateOrdering) (func(a, b domain.Template) int, error) {
	if len(orderings) == 0 {
		orderings = []domain.TemplateOrdering{{Field: domain.TemplateOrderingFieldCreatedAt, Desc: true}}
	}

	var compares []func(a, b domain.Template) int
	for _, ordering := range orderings {
		var c func(a, b domain.Template) int
		switch ordering.Field {
		case domain.TemplateOrderingFieldCreatedAt:
			c = func(a, b domain.Template) int { return a.CreatedAt.Compare(b.CreatedAt) }
		case domain.TemplateOrderingFieldLikes:
			c = func(a, b domain.Template) int { return cmp.Compare(a.Likes, b.Likes) }
		case domain.TemplateOrderingFieldTitle:
			c = func(a, b domain.Template) int { return cmp.Compare(a.Title, b.Title) }
		default:
			return nil, fmt.Errorf("unknown ordering field: %s", ordering.Field)
		}
		if ordering.Desc {
			asc := c
			c = func(a, b domain.Template) int { return -asc(a, b) }
		}
		compares = append(compares, c)
	}

	return func(a, b domain.Template) int {
		for _, c := range compares {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}, nil
}
