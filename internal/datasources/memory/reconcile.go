package memory

import (
	"context"
	"slices"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (s *Store) ReconcileTemplateCounters(_ context.Context) ([]domain.CounterDrift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	likes := make(map[string]int64)
	dislikes := make(map[string]int64)
	for _, in := range s.interactions {
		switch in.Kind {
		case domain.InteractionKindLike:
			likes[in.TemplateID]++
		case domain.InteractionKindDislike:
			dislikes[in.TemplateID]++
		}
	}

	drifts := []domain.CounterDrift{}
	for _, id := range s.templateOrder {
		t := s.templates[id]
		if t.Likes == likes[id] && t.Dislikes == dislikes[id] {
			continue
		}
		drifts = append(drifts, domain.CounterDrift{
			TemplateID:     id,
			StoredLikes:    t.Likes,
			ActualLikes:    likes[id],
			StoredDislikes: t.Dislikes,
			ActualDislikes: dislikes[id],
		})
		t.Likes = likes[id]
		t.Dislikes = dislikes[id]
		s.templates[id] = t
	}
	return drifts, nil
}

func (s *Store) ReconcileFavorites(_ context.Context) (domain.FavoritesRepair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string][]string)
	for _, in := range s.interactions {
		if in.Kind == domain.InteractionKindFavorite {
			want[in.UserID] = append(want[in.UserID], in.TemplateID)
		}
	}

	var repair domain.FavoritesRepair
	for userID, favs := range s.favorites {
		kept := slices.DeleteFunc(slices.Clone(favs), func(id string) bool {
			return !slices.Contains(want[userID], id)
		})
		repair.Removed += int64(len(favs) - len(kept))
		s.favorites[userID] = kept
	}
	for userID, ids := range want {
		for _, id := range ids {
			if !slices.Contains(s.favorites[userID], id) {
				s.favorites[userID] = append(s.favorites[userID], id)
				repair.Added++
			}
		}
	}
	return repair, nil
}

// SetTemplateCounters overwrites cached counters directly. It exists so drift can be simulated.
func (s *Store) SetTemplateCounters(id string, likes, dislikes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.templates[id]
	t.Likes = likes
	t.Dislikes = dislikes
	s.templates[id] = t
}
