package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := New()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, s.CreateUser(ctx, domain.NewUser{ID: name, Username: name, Email: name + "@example.com"}))
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, s.CreateTemplate(ctx, domain.Template{ID: id, Title: "Template " + id, CreatorID: "alice"}))
	}
	return s
}

func insert(t *testing.T, s *Store, id, userID, templateID string, kind domain.InteractionKind, at time.Time) {
	t.Helper()
	require.NoError(t, s.InsertInteraction(context.Background(), domain.Interaction{
		ID: id, UserID: userID, TemplateID: templateID, Kind: kind, CreatedAt: at,
	}, kind.CreatedEffects()))
}

func TestStore_CreateUserRejectsDuplicateHandles(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		user domain.NewUser
	}{
		{name: "same_id", user: domain.NewUser{ID: "alice", Username: "new", Email: "new@example.com"}},
		{name: "same_username", user: domain.NewUser{ID: "u9", Username: "bob", Email: "new@example.com"}},
		{name: "same_email", user: domain.NewUser{ID: "u9", Username: "new", Email: "carol@example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, s.CreateUser(ctx, tc.user), domain.ErrConflict)
		})
	}
}

func TestStore_InsertInteraction(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	insert(t, s, "i1", "bob", "t1", domain.InteractionKindLike, testNow)

	err := s.InsertInteraction(ctx, domain.Interaction{
		ID: "i2", UserID: "bob", TemplateID: "t1", Kind: domain.InteractionKindFavorite, CreatedAt: testNow,
	}, domain.InteractionKindFavorite.CreatedEffects())
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.InsertInteraction(ctx, domain.Interaction{
		ID: "i3", UserID: "nobody", TemplateID: "t1", Kind: domain.InteractionKindView, CreatedAt: testNow,
	}, domain.InteractionEffects{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	insert(t, s, "i4", "bob", "t1", domain.InteractionKindView, testNow)
	insert(t, s, "i5", "bob", "t1", domain.InteractionKindView, testNow)

	tmpl, err := s.GetTemplateByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tmpl.Likes)

	stats, err := s.CountTemplateInteractionsByKind(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats[domain.InteractionKindView])
}

func TestStore_ListTopTemplatesByKind(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	insert(t, s, "i1", "alice", "t2", domain.InteractionKindLike, testNow)
	insert(t, s, "i2", "bob", "t2", domain.InteractionKindLike, testNow.Add(-time.Hour))
	insert(t, s, "i3", "carol", "t1", domain.InteractionKindLike, testNow)
	insert(t, s, "i4", "alice", "t3", domain.InteractionKindLike, testNow.Add(-48*time.Hour))
	insert(t, s, "i5", "bob", "t3", domain.InteractionKindDislike, testNow)

	top, err := s.ListTopTemplatesByKind(ctx, domain.InteractionKindLike, testNow.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateCount{
		{TemplateID: "t2", Count: 2},
		{TemplateID: "t1", Count: 1},
	}, top)

	top, err = s.ListTopTemplatesByKind(ctx, domain.InteractionKindLike, time.Time{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateCount{{TemplateID: "t2", Count: 2}}, top)
}

func TestStore_PruneFavorite(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(t *testing.T, s *Store)
		wantSet []string
	}{
		{
			name: "favorite_recorded_keeps_entry",
			setup: func(t *testing.T, s *Store) {
				insert(t, s, "i1", "bob", "t1", domain.InteractionKindFavorite, testNow)
			},
			wantSet: []string{"t1"},
		},
		{
			name: "unbacked_entry_is_removed",
			setup: func(t *testing.T, s *Store) {
				require.NoError(t, s.InsertInteraction(context.Background(), domain.Interaction{
					ID: "i1", UserID: "bob", TemplateID: "t1", Kind: domain.InteractionKindLike, CreatedAt: testNow,
				}, domain.InteractionEffects{LikesDelta: 1, FavoriteAdd: true}))
			},
			wantSet: []string{},
		},
		{
			name:    "absent_entry_is_noop",
			setup:   func(*testing.T, *Store) {},
			wantSet: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seededStore(t)
			ctx := context.Background()
			tc.setup(t, s)

			require.NoError(t, s.PruneFavorite(ctx, "bob", "t1"))

			favs, err := s.ListUserFavoriteTemplateIDs(ctx, "bob")
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.wantSet, favs)
		})
	}
}

func TestStore_CreateTemplateRejectsSeparatorInTags(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	err := s.CreateTemplate(ctx, domain.Template{ID: "t9", Title: "Split", CreatorID: "alice", Tags: []string{"a,b"}})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = s.GetTemplateByID(ctx, "t9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
