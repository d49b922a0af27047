package controller

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func templateFiltersFromQuery(q url.Values) (domain.TemplateFilters, error) {
	filters := domain.TemplateFilters{
		TitleSearch: strings.TrimSpace(q.Get("filter_title")),
		Category:    q.Get("filter_category"),
		CreatorID:   q.Get("filter_creator_id"),
	}

	if q.Has("filter_tags") {
		for _, tag := range strings.Split(q.Get("filter_tags"), domain.TagSeparator) {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	if q.Has("filter_min_likes") {
		minLikes, err := strconv.ParseInt(q.Get("filter_min_likes"), 10, 64)
		if err != nil {
			return domain.TemplateFilters{}, fmt.Errorf("unable to parse min likes from query: %w", err)
		}
		if minLikes < 0 {
			return domain.TemplateFilters{}, fmt.Errorf("invalid min likes value [%d]", minLikes)
		}
		filters.MinLikes = minLikes
	}

	for name, dst := range map[string]*time.Time{
		"filter_created_after":  &filters.CreatedAfter,
		"filter_created_before": &filters.CreatedBefore,
	} {
		if !q.Has(name) {
			continue
		}
		t, err := time.Parse(time.RFC3339, q.Get(name))
		if err != nil {
			return domain.TemplateFilters{}, fmt.Errorf("unable to parse %s from query: %w", name, err)
		}
		*dst = t.UTC()
	}

	return filters, nil
}

func templateListOptionsFromQuery(q url.Values) (domain.TemplateListOptions, error) {
	page, pageSize, err := parsePagination(q, templatePageLimits)
	if err != nil {
		return domain.TemplateListOptions{}, err
	}
	options := domain.TemplateListOptions{Page: page, PageSize: pageSize}

	if q.Has("sort") {
		for _, ordering := range strings.Split(q.Get("sort"), ",") {
			field, desc := strings.CutSuffix(ordering, "_desc")

			if !slices.Contains(domain.ValidTemplateOrderingFields, domain.TemplateOrderingField(field)) {
				return domain.TemplateListOptions{}, fmt.Errorf("unrecognised template ordering field: %s", field)
			}

			options.Ordering = append(options.Ordering, domain.TemplateOrdering{
				Field: domain.TemplateOrderingField(field),
				Desc:  desc,
			})
		}
	}

	return options, nil
}
