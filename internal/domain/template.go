package domain

import (
	"fmt"
	"strings"
	"time"
)

type Template struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagSeparator joins tags in storage and in the filter_tags query parameter, so no tag may contain it.
const TagSeparator = ","

// ValidateTags rejects tags that are blank or contain TagSeparator.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: blank tag", ErrValidationFailed)
		}
		if strings.Contains(tag, TagSeparator) {
			return fmt.Errorf("%w: tag %q contains %q", ErrValidationFailed, tag, TagSeparator)
		}
	}
	return nil
}

type TemplateFilters struct {
	TitleSearch   string
	Category      string
	Tags          []string
	CreatorID     string
	MinLikes      int64
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

type TemplateListOptions struct {
	Ordering       []TemplateOrdering
	Page, PageSize int
}

type TemplateOrdering struct {
	Field TemplateOrderingField
	Desc  bool
}

type TemplateOrderingField string

const TemplateOrderingFieldCreatedAt TemplateOrderingField = "created_at"
const TemplateOrderingFieldLikes TemplateOrderingField = "likes"
const TemplateOrderingFieldTitle TemplateOrderingField = "title"

var ValidTemplateOrderingFields = []TemplateOrderingField{
	TemplateOrderingFieldCreatedAt,
	TemplateOrderingFieldLikes,
	TemplateOrderingFieldTitle,
}
