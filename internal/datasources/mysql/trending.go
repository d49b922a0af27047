package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// ListTopTemplatesByKind orders only by count; MySQL returns ties in no defined order.
func (r *Repository) ListTopTemplatesByKind(
	ctx context.Context,
	kind domain.InteractionKind,
	since time.Time,
	limit int,
) ([]domain.TemplateCount, error) {
	sb := sqlbuilder.Select("template_id", "COUNT(*) AS interaction_count")
	sb.From("interactions")
	sb.Where(
		sb.Equal("kind", string(kind)),
		sb.GreaterEqualThan("created_at", since),
	)
	sb.GroupBy("template_id")
	sb.OrderBy("interaction_count DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("grouping interactions by template: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []domain.TemplateCount{}
	for rows.Next() {
		var c domain.TemplateCount
		if err := rows.Scan(&c.TemplateID, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning template count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return counts, nil
}

func (r *Repository) CountInteractionsByTemplate(
	ctx context.Context,
	templateIDs []string,
	kinds []domain.InteractionKind,
	since time.Time,
) (map[string]domain.InteractionStats, error) {
	result := make(map[string]domain.InteractionStats, len(templateIDs))
	for _, id := range templateIDs {
		stats := make(domain.InteractionStats, len(kinds))
		for _, k := range kinds {
			stats[k] = 0
		}
		result[id] = stats
	}
	if len(templateIDs) == 0 || len(kinds) == 0 {
		return result, nil
	}

	kindArgs := make([]interface{}, 0, len(kinds))
	for _, k := range kinds {
		kindArgs = append(kindArgs, string(k))
	}

	sb := sqlbuilder.Select("template_id", "kind", "COUNT(*)")
	sb.From("interactions")
	conds := []string{
		sb.In("template_id", stringsToArgs(templateIDs)...),
		sb.In("kind", kindArgs...),
	}
	if !since.IsZero() {
		conds = append(conds, sb.GreaterEqualThan("created_at", since))
	}
	sb.Where(conds...)
	sb.GroupBy("template_id", "kind")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting interactions by template: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var templateID, kind string
		var count int64
		if err := rows.Scan(&templateID, &kind, &count); err != nil {
			return nil, fmt.Errorf("scanning interaction count: %w", err)
		}
		if stats, ok := result[templateID]; ok {
			stats[domain.InteractionKind(kind)] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}
