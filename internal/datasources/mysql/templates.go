package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jbeshir/template-catalog/internal/domain"
)

var templateColumns = []string{
	"id", "title", "COALESCE(description, '')", "category", "tags", "preview_url",
	"likes", "dislikes", "creator_id", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (domain.Template, error) {
	var t domain.Template
	var tags string
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &tags, &t.PreviewURL,
		&t.Likes, &t.Dislikes, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return domain.Template{}, err
	}
	t.Tags = splitTags(tags)
	return t, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, domain.TagSeparator)
}

func (r *Repository) CreateTemplate(ctx context.Context, template domain.Template) error {
	if err := domain.ValidateTags(template.Tags); err != nil {
		return err
	}

	ib := sqlbuilder.InsertInto("templates")
	ib.Cols("id", "title", "description", "category", "tags", "preview_url",
		"likes", "dislikes", "creator_id", "created_at", "updated_at")
	ib.Values(template.ID, template.Title, template.Description, template.Category,
		strings.Join(template.Tags, domain.TagSeparator), template.PreviewURL, 0, 0,
		template.CreatorID, template.CreatedAt, template.UpdatedAt)

	query, args := ib.Build()
	_, err := r.db.ExecContext(ctx, query, args...)
	if isDuplicateEntry(err) {
		return domain.ErrConflict
	}
	if isMissingReference(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

func (r *Repository) GetTemplateByID(ctx context.Context, id string) (domain.Template, error) {
	return r.getTemplateWhere(ctx, "id", id)
}

func (r *Repository) GetTemplateByTitle(ctx context.Context, title string) (domain.Template, error) {
	return r.getTemplateWhere(ctx, "title", title)
}

func (r *Repository) getTemplateWhere(ctx context.Context, column, value string) (domain.Template, error) {
	sb := sqlbuilder.Select(templateColumns...)
	sb.From("templates")
	sb.Where(sb.Equal(column, value))
	sb.OrderBy("created_at")
	sb.Limit(1)

	query, args := sb.Build()
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Template{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Template{}, fmt.Errorf("fetching template by %s: %w", column, err)
	}
	return t, nil
}

func (r *Repository) FetchTemplatesByID(ctx context.Context, ids []string) ([]domain.Template, error) {
	if len(ids) == 0 {
		return []domain.Template{}, nil
	}

	sb := sqlbuilder.Select(templateColumns...)
	sb.From("templates")
	sb.Where(sb.In("id", stringsToArgs(ids)...))

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching templates by ID: %w", err)
	}
	defer func() { _ = rows.Close() }()

	templateMap := make(map[string]domain.Template, len(ids))
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templateMap[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	// Build results in the same order as the input ids
	templates := make([]domain.Template, 0, len(ids))
	for _, id := range ids {
		if t, exists := templateMap[id]; exists {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

func (r *Repository) ListTemplateIDs(
	ctx context.Context,
	filters domain.TemplateFilters,
	options domain.TemplateListOptions,
) ([]string, error) {
	sb := sqlbuilder.Select("id")
	sb.From("templates")

	conds := buildTemplateConditions(sb, filters)
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	orderings, err := buildTemplateOrder(options)
	if err != nil {
		return nil, fmt.Errorf("building templates order by clause: %w", err)
	}

	sb.OrderBy(orderings...)
	sb.Offset((options.Page - 1) * options.PageSize)
	sb.Limit(options.PageSize)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running templates query: %w", err)
	}
	return scanStrings(rows)
}

func (r *Repository) TotalMatchingTemplates(ctx context.Context, filters domain.TemplateFilters) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("templates")

	conds := buildTemplateConditions(sb, filters)
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	query, args := sb.Build()
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting matching templates: %w", err)
	}
	return count, nil
}

func buildTemplateConditions(sb *sqlbuilder.SelectBuilder, filters domain.TemplateFilters) []string {
	var conds []string

	if filters.TitleSearch != "" {
		conds = append(conds, "MATCH (title) AGAINST ("+sb.Args.Add(filters.TitleSearch)+")")
	}

	if filters.Category != "" {
		conds = append(conds, sb.Equal("category", filters.Category))
	}

	for _, tag := range filters.Tags {
		conds = append(conds, "FIND_IN_SET("+sb.Args.Add(tag)+", tags) > 0")
	}

	if filters.CreatorID != "" {
		conds = append(conds, sb.Equal("creator_id", filters.CreatorID))
	}

	if filters.MinLikes > 0 {
		conds = append(conds, sb.GreaterEqualThan("likes", filters.MinLikes))
	}

	if !filters.CreatedAfter.IsZero() {
		conds = append(conds, sb.GreaterEqualThan("created_at", filters.CreatedAfter))
	}

	if !filters.CreatedBefore.IsZero() {
		conds = append(conds, sb.LessEqualThan("created_at", filters.CreatedBefore))
	}

	return conds
}

func buildTemplateOrder(options domain.TemplateListOptions) ([]string, error) {
	if len(options.Ordering) == 0 {
		return []string{"created_at DESC"}, nil
	}

	var orderings []string
	for _, ordering := range options.Ordering {
		var col string
		switch ordering.Field {
		case domain.TemplateOrderingFieldCreatedAt:
			col = "created_at"
		case domain.TemplateOrderingFieldLikes:
			col = "likes"
		case domain.TemplateOrderingFieldTitle:
			col = "title"
		default:
			return nil, fmt.Errorf("unknown ordering field: %s", ordering.Field)
		}

		if ordering.Desc {
			col += " DESC"
		}
		orderings = append(orderings, col)
	}

	return orderings, nil
}

func stringsToArgs(values []string) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
