package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// Lookup is one resolution strategy. It returns domain.ErrNotFound when ref does not match,
// letting the next strategy try.
type Lookup[T any] struct {
	Name string
	Find func(ctx context.Context, ref string) (T, error)
}

// Resolver maps a caller-supplied reference to a canonical record by trying each lookup in order.
type Resolver[T any] struct {
	Lookups []Lookup[T]
}

func (r Resolver[T]) Resolve(ctx context.Context, ref string) (T, error) {
	var zero T
	if ref == "" {
		return zero, domain.ErrNotFound
	}

	for _, lookup := range r.Lookups {
		v, err := lookup.Find(ctx, ref)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return zero, fmt.Errorf("resolving by %s: %w", lookup.Name, err)
		}
	}
	return zero, domain.ErrNotFound
}

// byIDShape only consults find when ref parses as a canonical id, so human-friendly
// references never reach an id lookup.
func byIDShape[T any](find func(ctx context.Context, id string) (T, error)) func(ctx context.Context, ref string) (T, error) {
	return func(ctx context.Context, ref string) (T, error) {
		if _, err := uuid.Parse(ref); err != nil {
			var zero T
			return zero, domain.ErrNotFound
		}
		return find(ctx, ref)
	}
}

// NewUserResolver resolves users by id, then by username or email.
func NewUserResolver(
	byID datasources.UserByIDGetter,
	byHandle datasources.UserByHandleGetter,
) Resolver[domain.User] {
	return Resolver[domain.User]{Lookups: []Lookup[domain.User]{
		{Name: "id", Find: byIDShape(byID.GetUserByID)},
		{Name: "username_or_email", Find: byHandle.GetUserByUsernameOrEmail},
	}}
}

// NewTemplateResolver resolves templates by id, then by title.
func NewTemplateResolver(
	byID datasources.TemplateByIDGetter,
	byTitle datasources.TemplateByTitleGetter,
) Resolver[domain.Template] {
	return Resolver[domain.Template]{Lookups: []Lookup[domain.Template]{
		{Name: "id", Find: byIDShape(byID.GetTemplateByID)},
		{Name: "title", Find: byTitle.GetTemplateByTitle},
	}}
}

// Resolvers bundles the user and template resolvers shared by every command.
type Resolvers struct {
	Users     Resolver[domain.User]
	Templates Resolver[domain.Template]
}

func NewResolvers(
	users interface {
		datasources.UserByIDGetter
		datasources.UserByHandleGetter
	},
	templates interface {
		datasources.TemplateByIDGetter
		datasources.TemplateByTitleGetter
	},
) Resolvers {
	return Resolvers{
		Users:     NewUserResolver(users, users),
		Templates: NewTemplateResolver(templates, templates),
	}
}

// Actor resolves the acting user, translating a miss into domain.ErrActorNotFound.
func (r Resolvers) Actor(ctx context.Context, ref string) (domain.User, error) {
	u, err := r.Users.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: %q", domain.ErrActorNotFound, ref)
	}
	return u, err
}

// TargetUser resolves a user being acted upon, translating a miss into domain.ErrTargetNotFound.
func (r Resolvers) TargetUser(ctx context.Context, ref string) (domain.User, error) {
	u, err := r.Users.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user %q", domain.ErrTargetNotFound, ref)
	}
	return u, err
}

// Target resolves a template, translating a miss into domain.ErrTargetNotFound.
func (r Resolvers) Target(ctx context.Context, ref string) (domain.Template, error) {
	t, err := r.Templates.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Template{}, fmt.Errorf("%w: template %q", domain.ErrTargetNotFound, ref)
	}
	return t, err
}
