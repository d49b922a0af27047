package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (s *Store) GetExclusiveInteraction(_ context.Context, userID, templateID string) (domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findExclusive(userID, templateID); i >= 0 {
		return s.interactions[i], nil
	}
	return domain.Interaction{}, domain.ErrNotFound
}

func (s *Store) GetInteractionByID(_ context.Context, id string) (domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findByID(id); i >= 0 {
		return s.interactions[i], nil
	}
	return domain.Interaction{}, domain.ErrNotFound
}

func (s *Store) InsertInteraction(
	_ context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[interaction.UserID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.templates[interaction.TemplateID]; !ok {
		return domain.ErrNotFound
	}
	if s.findByID(interaction.ID) >= 0 {
		return domain.ErrConflict
	}
	if interaction.Kind.Exclusive() && s.findExclusive(interaction.UserID, interaction.TemplateID) >= 0 {
		return domain.ErrConflict
	}

	s.interactions = append(s.interactions, interaction)
	s.applyEffects(interaction.UserID, interaction.TemplateID, effects)
	return nil
}

func (s *Store) TransitionInteraction(
	_ context.Context,
	interaction domain.Interaction,
	to domain.InteractionKind,
	at time.Time,
	effects domain.InteractionEffects,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findByID(interaction.ID)
	if i < 0 || s.interactions[i].Kind != interaction.Kind {
		return domain.ErrConflict
	}

	s.interactions[i].Kind = to
	s.interactions[i].CreatedAt = at
	s.applyEffects(interaction.UserID, interaction.TemplateID, effects)
	return nil
}

func (s *Store) RemoveInteraction(
	_ context.Context,
	interaction domain.Interaction,
	effects domain.InteractionEffects,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findByID(interaction.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if s.interactions[i].Kind != interaction.Kind {
		return domain.ErrConflict
	}

	s.interactions = slices.Delete(s.interactions, i, i+1)
	s.applyEffects(interaction.UserID, interaction.TemplateID, effects)
	return nil
}

func (s *Store) PruneFavorite(_ context.Context, userID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findExclusive(userID, templateID); i >= 0 && s.interactions[i].Kind == domain.InteractionKindFavorite {
		return nil
	}
	s.removeFavorite(userID, templateID)
	return nil
}

func (s *Store) ListUserInteractions(
	_ context.Context,
	userID string,
	kind *domain.InteractionKind,
) ([]domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Interaction{}
	for _, in := range s.interactions {
		if in.UserID != userID {
			continue
		}
		if kind != nil && in.Kind != *kind {
			continue
		}
		result = append(result, in)
	}
	sortNewestFirst(result, func(in domain.Interaction) time.Time { return in.CreatedAt })
	return result, nil
}

func (s *Store) ListTemplateInteractions(_ context.Context, templateID string) ([]domain.TemplateInteraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.TemplateInteraction{}
	for _, in := range s.interactions {
		if in.TemplateID != templateID {
			continue
		}
		result = append(result, domain.TemplateInteraction{
			Interaction: in,
			User:        s.users[in.UserID].Public(),
		})
	}
	sortNewestFirst(result, func(in domain.TemplateInteraction) time.Time { return in.CreatedAt })
	return result, nil
}

func (s *Store) CountTemplateInteractionsByKind(_ context.Context, templateID string) (domain.InteractionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.NewInteractionStats()
	for _, in := range s.interactions {
		if in.TemplateID == templateID {
			stats[in.Kind]++
		}
	}
	return stats, nil
}

func (s *Store) findByID(id string) int {
	return slices.IndexFunc(s.interactions, func(in domain.Interaction) bool { return in.ID == id })
}

func (s *Store) findExclusive(userID, templateID string) int {
	return slices.IndexFunc(s.interactions, func(in domain.Interaction) bool {
		return in.UserID == userID && in.TemplateID == templateID && in.Kind.Exclusive()
	})
}

// applyEffects must be called with mu held.
func (s *Store) applyEffects(userID, templateID string, effects domain.InteractionEffects) {
	if effects.LikesDelta != 0 || effects.DislikesDelta != 0 {
		t := s.templates[templateID]
		t.Likes += effects.LikesDelta
		t.Dislikes += effects.DislikesDelta
		s.templates[templateID] = t
	}
	if effects.FavoriteAdd {
		s.addFavorite(userID, templateID)
	}
	if effects.FavoriteRemove {
		s.removeFavorite(userID, templateID)
	}
}

func (s *Store) addFavorite(userID, templateID string) {
	if !slices.Contains(s.favorites[userID], templateID) {
		s.favorites[userID] = append(s.favorites[userID], templateID)
	}
}

func (s *Store) removeFavorite(userID, templateID string) {
	s.favorites[userID] = slices.DeleteFunc(s.favorites[userID], func(id string) bool { return id == templateID })
}

func sortNewestFirst[T any](items []T, at func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return at(b).Compare(at(a))
	})
}
