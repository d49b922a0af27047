// Package memory provides an in-process implementation of the catalog store. It is used for
// local development and as the backing store in tests. Every method holds a single mutex, so
// each call is atomic in the same way a single database transaction is.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

var _ datasources.DatasetRepository = (*Store)(nil)

type storedUser struct {
	domain.User
	passwordHash string
}

type Store struct {
	mu sync.Mutex

	users     map[string]storedUser
	userOrder []string

	templates     map[string]domain.Template
	templateOrder []string

	// interactions is kept in insertion order.
	interactions []domain.Interaction

	// favorites holds each user's favorite template ids in insertion order.
	favorites map[string][]string

	reviews []domain.Review
}

func New() *Store {
	return &Store{
		users:     make(map[string]storedUser),
		templates: make(map[string]domain.Template),
		favorites: make(map[string][]string),
	}
}

func (s *Store) CreateUser(_ context.Context, user domain.NewUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return domain.ErrConflict
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrConflict
		}
	}

	s.users[user.ID] = storedUser{
		User: domain.User{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Bio:         user.Bio,
			AvatarURL:   user.AvatarURL,
			CreatedAt:   user.CreatedAt,
		},
		passwordHash: user.PasswordHash,
	}
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u.User, nil
}

func (s *Store) GetUserByUsernameOrEmail(_ context.Context, handle string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.userOrder {
		u := s.users[id]
		if u.Username == handle || u.Email == handle {
			return u.User, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) ListUserFavoriteTemplateIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.favorites[userID]), nil
}

func (s *Store) CreateTemplate(_ context.Context, template domain.Template) error {
	if err := domain.ValidateTags(template.Tags); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[template.ID]; exists {
		return domain.ErrConflict
	}
	if _, exists := s.users[template.CreatorID]; !exists {
		return domain.ErrNotFound
	}

	template.Tags = slices.Clone(template.Tags)
	s.templates[template.ID] = template
	s.templateOrder = append(s.templateOrder, template.ID)
	return nil
}

func (s *Store) GetTemplateByID(_ context.Context, id string) (domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[id]
	if !ok {
		return domain.Template{}, domain.ErrNotFound
	}
	return cloneTemplate(t), nil
}

func (s *Store) GetTemplateByTitle(_ context.Context, title string) (domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.templateOrder {
		if t := s.templates[id]; t.Title == title {
			return cloneTemplate(t), nil
		}
	}
	return domain.Template{}, domain.ErrNotFound
}

func (s *Store) FetchTemplatesByID(_ context.Context, ids []string) ([]domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := make([]domain.Template, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.templates[id]; ok {
			templates = append(templates, cloneTemplate(t))
		}
	}
	return templates, nil
}

func cloneTemplate(t domain.Template) domain.Template {
	t.Tags = slices.Clone(t.Tags)
	return t
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
