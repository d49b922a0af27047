package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (s *Store) ListTopTemplatesByKind(
	_ context.Context,
	kind domain.InteractionKind,
	since time.Time,
	limit int,
) ([]domain.TemplateCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts []domain.TemplateCount
	positions := make(map[string]int)
	for _, in := range s.interactions {
		if in.Kind != kind || in.CreatedAt.Before(since) {
			continue
		}
		pos, seen := positions[in.TemplateID]
		if !seen {
			pos = len(counts)
			positions[in.TemplateID] = pos
			counts = append(counts, domain.TemplateCount{TemplateID: in.TemplateID})
		}
		counts[pos].Count++
	}

	slices.SortStableFunc(counts, func(a, b domain.TemplateCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *Store) CountInteractionsByTemplate(
	_ context.Context,
	templateIDs []string,
	kinds []domain.InteractionKind,
	since time.Time,
) (map[string]domain.InteractionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]domain.InteractionStats, len(templateIDs))
	for _, id := range templateIDs {
		stats := make(domain.InteractionStats, len(kinds))
		for _, k := range kinds {
			stats[k] = 0
		}
		result[id] = stats
	}

	for _, in := range s.interactions {
		stats, wanted := result[in.TemplateID]
		if !wanted || !slices.Contains(kinds, in.Kind) {
			continue
		}
		if !since.IsZero() && in.CreatedAt.Before(since) {
			continue
		}
		stats[in.Kind]++
	}
	return result, nil
}
